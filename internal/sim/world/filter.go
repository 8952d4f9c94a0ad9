package world

import (
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

// Filter returns what the player to move may observe: its team's units on its
// planet or in space, the cargo of its structures, the opponent's units on
// visible squares, its own rocket landings and its own team aggregate. The
// result shares no mutable state with w, and filtering it again yields an
// equal world.
func (w *World) Filter() *World {
	team := w.Team()

	mine := w.viewers()
	visible := w.sightOf(mine)

	f := &World{
		tuning:   w.tuning,
		seed:     w.seed,
		round:    w.round,
		player:   w.player,
		weather:  w.weather,
		units:    make(map[geom.UnitID]*unit.Unit, len(mine)),
		byLoc:    map[geom.MapLocation]geom.UnitID{},
		infos:    map[geom.UnitID]unit.Info{},
		visible:  visible,
		landings: map[int][]Landing{},
		teams:    map[geom.Team]*TeamInfo{},
	}
	for p, pi := range w.planets {
		f.planets[p] = pi.clone()
	}
	if ti, ok := w.teams[team]; ok {
		f.teams[team] = ti.clone()
	}

	admit := func(u *unit.Unit) {
		c := u.Clone()
		f.units[c.ID] = &c
		if l, ok := c.MapLocation(); ok {
			f.byLoc[l] = c.ID
		}
	}
	for _, u := range mine {
		admit(u)
		if u.Structure == nil {
			continue
		}
		for _, id := range u.Structure.Garrison {
			if cargo, ok := w.units[id]; ok {
				admit(cargo)
			}
		}
	}

	for id, info := range w.opponentInfos() {
		if info.Location.IsOnMap() && visible[info.Location.Map] {
			f.infos[id] = info
		}
	}

	// A rocket in flight is known exactly when it was admitted above.
	for round, ls := range w.landings {
		var keep []Landing
		for _, l := range ls {
			if _, ok := f.units[l.Rocket]; ok {
				keep = append(keep, l)
			}
		}
		if len(keep) > 0 {
			f.landings[round] = keep
		}
	}
	return f
}

// opponentInfos returns the infos of every unit not on the player's team that
// this world knows about.
func (w *World) opponentInfos() map[geom.UnitID]unit.Info {
	if w.infos != nil {
		return w.infos
	}
	out := map[geom.UnitID]unit.Info{}
	for id, u := range w.units {
		if u.Team != w.Team() {
			out[id] = u.Info()
		}
	}
	return out
}

// viewers are the player's units that count towards its view: those on its
// planet and those in space, in ID order.
func (w *World) viewers() []*unit.Unit {
	team, planet := w.Team(), w.Planet()
	var out []*unit.Unit
	for _, id := range w.sortedIDs() {
		u := w.units[id]
		if u.Team != team {
			continue
		}
		if u.Location.IsOnPlanet(planet) || u.Location.Kind == geom.InSpace {
			out = append(out, u)
		}
	}
	return out
}

func (w *World) sightOf(viewers []*unit.Unit) map[geom.MapLocation]bool {
	bounds := w.planets[w.Planet()].Map.Bounds()
	visible := map[geom.MapLocation]bool{}
	for _, u := range viewers {
		l, ok := u.MapLocation()
		if !ok {
			continue
		}
		for _, v := range l.LocationsWithin(u.Stats.VisionRange, bounds) {
			visible[v] = true
		}
	}
	return visible
}

// sight is the set of squares the player to move can see. A filtered world's
// view is fixed when it is made; the authoritative world fixes it at the start
// of every turn, so the player's own moves never widen it mid-turn.
func (w *World) sight() map[geom.MapLocation]bool {
	if w.visible != nil {
		return w.visible
	}
	if w.turnSight == nil || w.sightFor != w.player {
		w.startTurnSight()
	}
	return w.turnSight
}

// startTurnSight fixes the authoritative sight for the turn that begins now.
func (w *World) startTurnSight() {
	w.turnSight = nil
	if w.visible == nil {
		w.turnSight = w.sightOf(w.viewers())
		w.sightFor = w.player
	}
}

// known resolves a unit the player to move is aware of. In the authoritative
// world that is exactly the set Filter would admit: the player's units on its
// planet or in space, their cargo, and opponent units on squares in sight.
func (w *World) known(id geom.UnitID) (unit.Info, bool) {
	if w.visible != nil {
		return w.lookup(id)
	}
	u, ok := w.units[id]
	if !ok {
		return unit.Info{}, false
	}
	if u.Team != w.Team() {
		l, on := u.MapLocation()
		return u.Info(), on && w.sight()[l]
	}
	at := u
	if u.Location.Kind == geom.InGarrison {
		s, ok := w.units[u.Location.Structure]
		if !ok {
			return unit.Info{}, false
		}
		at = s
	}
	return u.Info(), at.Location.IsOnPlanet(w.Planet()) || at.Location.Kind == geom.InSpace
}
