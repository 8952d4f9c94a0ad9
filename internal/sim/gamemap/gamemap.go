// Package gamemap defines the starting state of a game: both planet maps and the
// weather schedule. Maps are validated once, before a world is built from them.
package gamemap

import (
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/weather"
)

type GameMap struct {
	Seed    uint64                 `json:"seed"`
	Earth   PlanetMap              `json:"earth"`
	Mars    PlanetMap              `json:"mars"`
	Weather weather.WeatherPattern `json:"weather"`
}

func (m *GameMap) Planet(p geom.Planet) *PlanetMap {
	if p == geom.Mars {
		return &m.Mars
	}
	return &m.Earth
}

func (m *GameMap) Validate(t *tuning.Tuning) error {
	if m.Earth.Planet != geom.Earth || m.Mars.Planet != geom.Mars {
		return gameerr.New(gameerr.CodeInvalidMapObject, "planet maps swapped")
	}
	if err := m.Earth.Validate(t); err != nil {
		return err
	}
	if err := m.Mars.Validate(t); err != nil {
		return err
	}
	return m.Weather.Validate(t, m.Mars.Bounds())
}

type InitialUnit struct {
	Team     geom.Team        `json:"team"`
	Type     unit.Type        `json:"type"`
	Location geom.MapLocation `json:"location"`
}

// PlanetMap grids are indexed [y][x] relative to Origin. Initial unit locations
// are absolute.
type PlanetMap struct {
	Planet           geom.Planet      `json:"planet"`
	Width            int              `json:"width"`
	Height           int              `json:"height"`
	Origin           geom.MapLocation `json:"origin"`
	Passable         [][]bool         `json:"passable"`
	InitialKarbonite [][]int          `json:"initial_karbonite"`
	InitialUnits     []InitialUnit    `json:"initial_units"`
}

func (m *PlanetMap) Bounds() geom.Rect {
	return geom.Rect{
		MinX: m.Origin.X,
		MinY: m.Origin.Y,
		MaxX: m.Origin.X + m.Width,
		MaxY: m.Origin.Y + m.Height,
	}
}

func (m *PlanetMap) OnMap(l geom.MapLocation) bool {
	return l.Planet == m.Planet && m.Bounds().Contains(l.X, l.Y)
}

// IsPassableTerrainAt is false for off-map locations.
func (m *PlanetMap) IsPassableTerrainAt(l geom.MapLocation) bool {
	if !m.OnMap(l) {
		return false
	}
	return m.Passable[l.Y-m.Origin.Y][l.X-m.Origin.X]
}

func (m *PlanetMap) Validate(t *tuning.Tuning) error {
	b := t.Map
	if m.Height < b.HeightMin || m.Height > b.HeightMax || m.Width < b.WidthMin || m.Width > b.WidthMax {
		return gameerr.New(gameerr.CodeInvalidMapObject, "%s: dimensions %dx%d out of bounds", m.Planet, m.Width, m.Height)
	}
	o := m.Origin
	if o.X < b.CoordinateMin || o.X > b.CoordinateMax || o.Y < b.CoordinateMin || o.Y > b.CoordinateMax || o.Planet != m.Planet {
		return gameerr.New(gameerr.CodeInvalidMapObject, "%s: bad origin %v", m.Planet, o)
	}
	if len(m.Passable) != m.Height {
		return gameerr.New(gameerr.CodeInvalidMapObject, "%s: terrain has %d rows, want %d", m.Planet, len(m.Passable), m.Height)
	}
	for y, row := range m.Passable {
		if len(row) != m.Width {
			return gameerr.New(gameerr.CodeInvalidMapObject, "%s: terrain row %d has %d cells", m.Planet, y, len(row))
		}
	}
	if len(m.InitialKarbonite) != m.Height {
		return gameerr.New(gameerr.CodeInvalidMapObject, "%s: karbonite has %d rows, want %d", m.Planet, len(m.InitialKarbonite), m.Height)
	}
	for y, row := range m.InitialKarbonite {
		if len(row) != m.Width {
			return gameerr.New(gameerr.CodeInvalidMapObject, "%s: karbonite row %d has %d cells", m.Planet, y, len(row))
		}
		for x, k := range row {
			switch m.Planet {
			case geom.Mars:
				if k != 0 {
					return gameerr.New(gameerr.CodeInvalidMapObject, "Mars: karbonite %d at (%d,%d)", k, x, y)
				}
			default:
				if k < b.KarboniteMin || k > b.KarboniteMax {
					return gameerr.New(gameerr.CodeInvalidMapObject, "Earth: karbonite %d at (%d,%d) out of band", k, x, y)
				}
			}
		}
	}
	n := len(m.InitialUnits)
	switch m.Planet {
	case geom.Mars:
		if n != 0 {
			return gameerr.New(gameerr.CodeInvalidMapObject, "Mars: %d initial units", n)
		}
	default:
		if n < b.InitialUnitsMin || n > b.InitialUnitsMax || n%2 != 0 || n == 0 {
			return gameerr.New(gameerr.CodeInvalidMapObject, "Earth: %d initial units", n)
		}
	}
	seen := make(map[geom.MapLocation]bool, n)
	for _, u := range m.InitialUnits {
		if u.Location.Planet != m.Planet {
			return gameerr.New(gameerr.CodeInvalidMapObject, "%s: unit declared on %s", m.Planet, u.Location.Planet)
		}
		if !u.Type.Valid() || u.Team > geom.Blue {
			return gameerr.New(gameerr.CodeInvalidMapObject, "%s: bad initial unit %+v", m.Planet, u)
		}
		if !m.IsPassableTerrainAt(u.Location) {
			return gameerr.New(gameerr.CodeInvalidMapObject, "%s: unit on impassable or off-map square %v", m.Planet, u.Location)
		}
		if seen[u.Location] {
			return gameerr.New(gameerr.CodeInvalidMapObject, "%s: two units at %v", m.Planet, u.Location)
		}
		seen[u.Location] = true
	}
	if m.Planet == geom.Earth {
		if _, ok := m.Symmetry(); !ok {
			return gameerr.New(gameerr.CodeInvalidMapObject, "Earth is not symmetric")
		}
	}
	return nil
}

// TestMap is a blank minimum-size map with one worker per team in opposite
// corners of Earth and a fixed orbit.
func TestMap(t *tuning.Tuning) GameMap {
	earth := BlankPlanet(geom.Earth, t.Map.WidthMin, t.Map.HeightMin)
	mars := BlankPlanet(geom.Mars, t.Map.WidthMin, t.Map.HeightMin)
	earth.InitialUnits = []InitialUnit{
		{Team: geom.Red, Type: unit.Worker, Location: geom.NewMapLocation(geom.Earth, earth.Width-2, 1)},
		{Team: geom.Blue, Type: unit.Worker, Location: geom.NewMapLocation(geom.Earth, 1, earth.Height-2)},
	}
	return GameMap{
		Seed:  6147,
		Earth: earth,
		Mars:  mars,
		Weather: weather.WeatherPattern{
			Asteroids: weather.RandomAsteroidPattern(6147, mars.Bounds(), t.Weather, t.Game.RoundLimit),
			Orbit:     weather.NewOrbitPattern(150, 200, 250),
		},
	}
}

func BlankPlanet(p geom.Planet, width, height int) PlanetMap {
	pass := make([][]bool, height)
	karb := make([][]int, height)
	for y := range pass {
		pass[y] = make([]bool, width)
		karb[y] = make([]int, width)
		for x := range pass[y] {
			pass[y][x] = true
		}
	}
	return PlanetMap{
		Planet:           p,
		Width:            width,
		Height:           height,
		Origin:           geom.NewMapLocation(p, 0, 0),
		Passable:         pass,
		InitialKarbonite: karb,
		InitialUnits:     []InitialUnit{},
	}
}
