package gamemap

import "battlecode.ai/internal/sim/geom"

type Symmetry uint8

const (
	MirrorX Symmetry = iota // x -> width-1-x
	MirrorY                 // y -> height-1-y
	Rotate180
)

func (s Symmetry) String() string {
	switch s {
	case MirrorX:
		return "mirror-x"
	case MirrorY:
		return "mirror-y"
	}
	return "rotate-180"
}

// Apply maps an origin-relative coordinate to its partner square.
func (s Symmetry) Apply(x, y, width, height int) (int, int) {
	switch s {
	case MirrorX:
		return width - 1 - x, y
	case MirrorY:
		return x, height - 1 - y
	}
	return width - 1 - x, height - 1 - y
}

// Symmetry reports the first transform under which terrain and karbonite are
// unchanged and every initial unit has a same-typed partner on the other team.
func (m *PlanetMap) Symmetry() (Symmetry, bool) {
	for _, s := range []Symmetry{MirrorX, MirrorY, Rotate180} {
		if m.symmetricUnder(s) {
			return s, true
		}
	}
	return 0, false
}

func (m *PlanetMap) symmetricUnder(s Symmetry) bool {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			px, py := s.Apply(x, y, m.Width, m.Height)
			if m.Passable[y][x] != m.Passable[py][px] || m.InitialKarbonite[y][x] != m.InitialKarbonite[py][px] {
				return false
			}
		}
	}
	byLoc := make(map[geom.MapLocation]InitialUnit, len(m.InitialUnits))
	for _, u := range m.InitialUnits {
		byLoc[u.Location] = u
	}
	for _, u := range m.InitialUnits {
		px, py := s.Apply(u.Location.X-m.Origin.X, u.Location.Y-m.Origin.Y, m.Width, m.Height)
		p, ok := byLoc[geom.NewMapLocation(m.Planet, px+m.Origin.X, py+m.Origin.Y)]
		if !ok || p.Type != u.Type || p.Team != u.Team.Other() {
			return false
		}
	}
	return true
}
