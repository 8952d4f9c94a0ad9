package world

import (
	"sort"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/world/io/snapshotcodec"
	"battlecode.ai/internal/sim/world/logic/research"
)

// CanSenseLocation reports whether l is in the player's sight this turn. The
// authoritative world answers exactly as the player's filtered view would.
func (w *World) CanSenseLocation(l geom.MapLocation) bool {
	return w.onMap(l) && w.sight()[l]
}

func (w *World) CanSenseUnit(id geom.UnitID) bool {
	_, ok := w.known(id)
	return ok
}

// SenseUnitAtLocation returns the unit on l, if any. l must be sensed.
func (w *World) SenseUnitAtLocation(l geom.MapLocation) (unit.Info, bool, error) {
	if !w.CanSenseLocation(l) {
		return unit.Info{}, false, gameerr.New(gameerr.CodeInvalidLocation, "cannot sense %s", l)
	}
	id, ok := w.occupant(l)
	if !ok {
		return unit.Info{}, false, nil
	}
	info, _ := w.lookup(id)
	return info, true, nil
}

// SenseNearbyUnits returns every sensed on-map unit within radiusSq of l,
// ordered by ID.
func (w *World) SenseNearbyUnits(l geom.MapLocation, radiusSq int) []unit.Info {
	return w.senseNearby(l, radiusSq, func(unit.Info) bool { return true })
}

func (w *World) SenseNearbyUnitsByTeam(l geom.MapLocation, radiusSq int, team geom.Team) []unit.Info {
	return w.senseNearby(l, radiusSq, func(i unit.Info) bool { return i.Team == team })
}

func (w *World) SenseNearbyUnitsByType(l geom.MapLocation, radiusSq int, typ unit.Type) []unit.Info {
	return w.senseNearby(l, radiusSq, func(i unit.Info) bool { return i.Type == typ })
}

func (w *World) senseNearby(l geom.MapLocation, radiusSq int, keep func(unit.Info) bool) []unit.Info {
	var out []unit.Info
	for _, info := range w.Units() {
		if !info.Location.IsOnMap() || !keep(info) {
			continue
		}
		ml := info.Location.Map
		if !l.IsWithinRange(radiusSq, ml) || !w.CanSenseLocation(ml) {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Unit returns a copy of a unit the player controls.
func (w *World) Unit(id geom.UnitID) (unit.Unit, error) {
	info, ok := w.known(id)
	if !ok {
		return unit.Unit{}, gameerr.New(gameerr.CodeNoSuchUnit, "unit %d", id)
	}
	if info.Team != w.Team() {
		return unit.Unit{}, gameerr.New(gameerr.CodeTeamNotAllowed, "unit %d belongs to %s", id, info.Team)
	}
	return w.units[id].Clone(), nil
}

func (w *World) UnitInfo(id geom.UnitID) (unit.Info, error) {
	info, ok := w.known(id)
	if !ok {
		return unit.Info{}, gameerr.New(gameerr.CodeNoSuchUnit, "unit %d", id)
	}
	return info, nil
}

// Units lists every unit the world holds, ordered by ID. For the authoritative
// world that is all of them; use the Sense methods for the player's view.
func (w *World) Units() []unit.Info {
	out := make([]unit.Info, 0, len(w.units)+len(w.infos))
	for _, u := range w.units {
		out = append(out, u.Info())
	}
	for _, info := range w.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MyUnits lists the current team's units the player knows of, in ID order.
func (w *World) MyUnits() []unit.Unit {
	var out []unit.Unit
	for _, id := range w.sortedIDs() {
		u := w.units[id]
		if u.Team != w.Team() {
			continue
		}
		if _, ok := w.known(id); ok {
			out = append(out, u.Clone())
		}
	}
	return out
}

// KarboniteAt is known everywhere on both planets.
func (w *World) KarboniteAt(l geom.MapLocation) (int, error) {
	if !w.onMap(l) {
		return 0, gameerr.New(gameerr.CodeInvalidLocation, "%s is off the map", l)
	}
	return w.planetOf(l).karboniteAt(l), nil
}

// IsOccupiable reports whether a robot could move onto l now: sensed, passable
// and empty.
func (w *World) IsOccupiable(l geom.MapLocation) (bool, error) {
	if !w.CanSenseLocation(l) {
		return false, gameerr.New(gameerr.CodeInvalidLocation, "cannot sense %s", l)
	}
	if !w.planetOf(l).Map.IsPassableTerrainAt(l) {
		return false, nil
	}
	_, taken := w.occupant(l)
	return !taken, nil
}

func (w *World) occupiable(l geom.MapLocation) bool {
	ok, err := w.IsOccupiable(l)
	return err == nil && ok
}

// RocketLandings returns the known landing schedule, keyed by round.
func (w *World) RocketLandings() map[int][]Landing {
	out := make(map[int][]Landing, len(w.landings))
	for _, r := range snapshotcodec.SortedKeys(w.landings) {
		out[r] = append([]Landing(nil), w.landings[r]...)
	}
	return out
}

func (w *World) ResearchInfo() research.Info {
	return w.team().Research.Clone()
}

// TeamArray reads the team's array for planet p. The current planet's array is
// live; the other planet's is seen as it stood TeamArrayDelay rounds ago.
func (w *World) TeamArray(p geom.Planet) []int {
	g := w.tuning.Game
	a := w.team().Arrays[p]
	if p == w.Planet() {
		return a.at(w.round, g.TeamArrayLength)
	}
	return a.at(w.round-g.TeamArrayDelay, g.TeamArrayLength)
}

// CurrentDurationOfFlight is how long a rocket launched this round would fly,
// before research reductions.
func (w *World) CurrentDurationOfFlight() int {
	return w.weather.Orbit.Duration(w.round)
}

// FlightDuration is how long the player's rocket id would fly if it launched
// this round, research reductions included.
func (w *World) FlightDuration(id geom.UnitID) (int, error) {
	r, err := w.owned(id)
	if err != nil {
		return 0, err
	}
	if r.Type != unit.Rocket {
		return 0, gameerr.New(gameerr.CodeInappropriateUnit, "%s does not fly", r.Type)
	}
	return w.flightOf(r), nil
}
