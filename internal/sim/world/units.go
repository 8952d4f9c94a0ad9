package world

import (
	"fmt"
	"sort"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

// createUnit allocates an ID from the team's generator and places the unit at
// loc with the team's current research level for typ.
func (w *World) createUnit(team geom.Team, loc geom.Location, typ unit.Type) (*unit.Unit, error) {
	ti, ok := w.teams[team]
	if !ok {
		return nil, gameerr.New(gameerr.CodeTeamNotAllowed, "team %s is not in this world", team)
	}
	if loc.IsOnMap() {
		if !w.onMap(loc.Map) {
			return nil, gameerr.New(gameerr.CodeInvalidLocation, "%s is off the map", loc.Map)
		}
		if _, taken := w.occupant(loc.Map); taken {
			return nil, gameerr.New(gameerr.CodeInvalidAction, "%s is occupied", loc.Map)
		}
	}
	u := unit.New(ti.IDs.NextID(), team, typ, loc, ti.Research.Level(typ), w.tuning)
	w.units[u.ID] = &u
	if loc.IsOnMap() {
		w.placeUnit(&u)
	}
	return &u, nil
}

// placeUnit indexes an on-map unit. Every change of a unit's map location goes
// through placeUnit and removeUnit.
func (w *World) placeUnit(u *unit.Unit) {
	l, ok := u.MapLocation()
	if !ok {
		panic(fmt.Sprintf("world: place unit %d at %s", u.ID, u.Location))
	}
	if other, taken := w.byLoc[l]; taken && other != u.ID {
		panic(fmt.Sprintf("world: unit %d placed on %s held by %d", u.ID, l, other))
	}
	w.byLoc[l] = u.ID
}

func (w *World) removeUnit(u *unit.Unit) {
	l, ok := u.MapLocation()
	if !ok {
		return
	}
	if w.byLoc[l] != u.ID {
		panic(fmt.Sprintf("world: unit %d not indexed at %s", u.ID, l))
	}
	delete(w.byLoc, l)
}

// moveTo relocates u. The destination must already be checked.
func (w *World) moveTo(u *unit.Unit, loc geom.Location) {
	w.removeUnit(u)
	u.Location = loc
	if loc.IsOnMap() {
		w.placeUnit(u)
	}
}

// destroyUnit removes a unit and, for structures, everything garrisoned in it.
func (w *World) destroyUnit(id geom.UnitID) {
	u, ok := w.units[id]
	if !ok {
		delete(w.infos, id)
		return
	}
	if u.Structure != nil {
		for _, cargo := range append([]geom.UnitID(nil), u.Structure.Garrison...) {
			w.destroyUnit(cargo)
		}
		u.Structure.Garrison = u.Structure.Garrison[:0]
	}
	switch u.Location.Kind {
	case geom.OnMap:
		w.removeUnit(u)
	case geom.InGarrison:
		if s, ok := w.units[u.Location.Structure]; ok && s.Structure != nil {
			s.Structure.Garrison = without(s.Structure.Garrison, id)
		}
	}
	delete(w.units, id)
}

// damageUnit applies raw damage and destroys the unit at zero health. In a
// filtered world an opponent's unit only exists as an info, which is damaged
// the same way.
func (w *World) damageUnit(id geom.UnitID, amount int) {
	if u, ok := w.units[id]; ok {
		if u.TakeDamage(amount) {
			w.destroyUnit(id)
		}
		return
	}
	if info, ok := w.infos[id]; ok {
		info.Health -= amount
		if info.Health <= 0 {
			delete(w.infos, id)
			return
		}
		w.infos[id] = info
	}
}

// damageLocation is a no-op when the square is empty.
func (w *World) damageLocation(l geom.MapLocation, amount int) {
	if id, ok := w.occupant(l); ok {
		w.damageUnit(id, amount)
	}
}

// occupant finds the unit standing on l. A filtered world only indexes its own
// units, so opponents are found among the infos.
func (w *World) occupant(l geom.MapLocation) (geom.UnitID, bool) {
	if id, ok := w.byLoc[l]; ok {
		return id, true
	}
	for id, info := range w.infos {
		if info.Location.IsOnMap() && info.Location.Map == l {
			return id, true
		}
	}
	return 0, false
}

// lookup returns the public info for any unit the world knows about.
func (w *World) lookup(id geom.UnitID) (unit.Info, bool) {
	if u, ok := w.units[id]; ok {
		return u.Info(), true
	}
	info, ok := w.infos[id]
	return info, ok
}

// unitPlanet is the planet a unit acts on. Garrisoned units act where their
// structure stands. Units in space have none.
func (w *World) unitPlanet(u *unit.Unit) (geom.Planet, bool) {
	for depth := 0; depth < 2; depth++ {
		switch u.Location.Kind {
		case geom.OnMap:
			return u.Location.Map.Planet, true
		case geom.InGarrison:
			s, ok := w.units[u.Location.Structure]
			if !ok {
				return 0, false
			}
			u = s
		default:
			return 0, false
		}
	}
	return 0, false
}

// owned checks that id names a unit the player to move may control.
// Units the player cannot see are reported missing, never as the opponent's.
func (w *World) owned(id geom.UnitID) (*unit.Unit, error) {
	info, ok := w.known(id)
	if !ok {
		return nil, gameerr.New(gameerr.CodeNoSuchUnit, "unit %d", id)
	}
	if info.Team != w.Team() {
		return nil, gameerr.New(gameerr.CodeTeamNotAllowed, "unit %d belongs to %s", id, info.Team)
	}
	u := w.units[id]
	if p, ok := w.unitPlanet(u); !ok || p != w.Planet() {
		return nil, gameerr.New(gameerr.CodeTeamNotAllowed, "unit %d is not on %s", id, w.Planet())
	}
	return u, nil
}

// ownedOnMap is owned plus the requirement that the unit stands on a square.
func (w *World) ownedOnMap(id geom.UnitID) (*unit.Unit, geom.MapLocation, error) {
	u, err := w.owned(id)
	if err != nil {
		return nil, geom.MapLocation{}, err
	}
	l, ok := u.MapLocation()
	if !ok {
		return nil, geom.MapLocation{}, gameerr.New(gameerr.CodeInvalidAction, "unit %d is %s", id, u.Location)
	}
	return u, l, nil
}

func (w *World) sortedIDs() []geom.UnitID {
	out := make([]geom.UnitID, 0, len(w.units))
	for id := range w.units {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CheckIndex verifies that the location index and the unit map agree. It
// returns the first inconsistency found.
func (w *World) CheckIndex() error {
	onMap := 0
	for _, id := range w.sortedIDs() {
		u := w.units[id]
		if u.ID != id {
			return fmt.Errorf("unit %d stored under %d", u.ID, id)
		}
		switch u.Location.Kind {
		case geom.OnMap:
			onMap++
			if got, ok := w.byLoc[u.Location.Map]; !ok || got != id {
				return fmt.Errorf("unit %d at %s not indexed (index has %d)", id, u.Location.Map, got)
			}
		case geom.InGarrison:
			s, ok := w.units[u.Location.Structure]
			if !ok {
				if w.IsFiltered() {
					continue
				}
				return fmt.Errorf("unit %d garrisoned in missing %d", id, u.Location.Structure)
			}
			if s.Structure == nil || !contains(s.Structure.Garrison, id) {
				return fmt.Errorf("unit %d not in garrison of %d", id, s.ID)
			}
		}
	}
	if onMap != len(w.byLoc) {
		return fmt.Errorf("index holds %d squares for %d on-map units", len(w.byLoc), onMap)
	}
	for l, id := range w.byLoc {
		if _, ok := w.units[id]; !ok {
			return fmt.Errorf("index maps %s to missing unit %d", l, id)
		}
	}
	return nil
}

func without(ids []geom.UnitID, id geom.UnitID) []geom.UnitID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func contains(ids []geom.UnitID, id geom.UnitID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
