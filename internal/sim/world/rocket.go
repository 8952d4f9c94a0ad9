package world

import (
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func (w *World) CanGarrison(structure, robot geom.UnitID) bool {
	_, _, err := w.checkGarrison(structure, robot)
	return err == nil
}

// Garrison boards an adjacent robot onto a rocket. Cargo leaves in the order
// it boarded.
func (w *World) Garrison(structure, robot geom.UnitID) error {
	s, r, err := w.checkGarrison(structure, robot)
	if err != nil {
		return err
	}
	w.moveTo(r, geom.Garrisoned(s.ID))
	s.PushGarrison(r.ID)
	r.UseMove()
	return nil
}

func (w *World) checkGarrison(structure, robot geom.UnitID) (*unit.Unit, *unit.Unit, error) {
	s, sl, err := w.ownedOnMap(structure)
	if err != nil {
		return nil, nil, err
	}
	r, rl, err := w.ownedOnMap(robot)
	if err != nil {
		return nil, nil, err
	}
	if s.Type != unit.Rocket {
		return nil, nil, gameerr.New(gameerr.CodeInappropriateUnit, "only rockets take on cargo, not a %s", s.Type)
	}
	if !r.Type.IsRobot() {
		return nil, nil, gameerr.New(gameerr.CodeInappropriateUnit, "a %s cannot board", r.Type)
	}
	if !s.Structure.Built || s.Structure.Used {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "rocket %d cannot board", structure)
	}
	if !sl.IsAdjacentTo(rl) {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "robot %d is not adjacent to %d", robot, structure)
	}
	if !r.IsMoveReady(w.tuning.Game.HeatLimit) {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "robot %d movement heat %d", robot, r.MovementHeat)
	}
	if s.GarrisonFull() {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "rocket %d is full", structure)
	}
	return s, r, nil
}

func (w *World) CanDegarrison(structure geom.UnitID, d geom.Direction) bool {
	_, _, _, err := w.checkDegarrison(structure, d)
	return err == nil
}

// Degarrison unloads the first robot in the garrison one square away.
func (w *World) Degarrison(structure geom.UnitID, d geom.Direction) error {
	s, r, dest, err := w.checkDegarrison(structure, d)
	if err != nil {
		return err
	}
	s.PopGarrison()
	w.moveTo(r, geom.At(dest))
	r.UseMove()
	return nil
}

func (w *World) checkDegarrison(structure geom.UnitID, d geom.Direction) (*unit.Unit, *unit.Unit, geom.MapLocation, error) {
	var none geom.MapLocation
	s, sl, err := w.ownedOnMap(structure)
	if err != nil {
		return nil, nil, none, err
	}
	if s.Structure == nil {
		return nil, nil, none, gameerr.New(gameerr.CodeInappropriateUnit, "%s has no garrison", s.Type)
	}
	front, ok := s.FrontOfGarrison()
	if !ok {
		return nil, nil, none, gameerr.New(gameerr.CodeInvalidAction, "structure %d is empty", structure)
	}
	r, ok := w.units[front]
	if !ok {
		panic(gameerr.New(gameerr.CodeInternalEngine, "garrison of %d holds missing unit %d", structure, front))
	}
	if !r.IsMoveReady(w.tuning.Game.HeatLimit) {
		return nil, nil, none, gameerr.New(gameerr.CodeInvalidAction, "robot %d movement heat %d", front, r.MovementHeat)
	}
	if !d.Valid() || d == geom.Center {
		return nil, nil, none, gameerr.New(gameerr.CodeInvalidAction, "bad direction %d", d)
	}
	dest := sl.Add(d)
	if !w.occupiable(dest) {
		return nil, nil, none, gameerr.New(gameerr.CodeInvalidAction, "%s is not occupiable", dest)
	}
	return s, r, dest, nil
}

func (w *World) CanLaunchRocket(id geom.UnitID, dest geom.MapLocation) bool {
	_, _, err := w.checkLaunch(id, dest)
	return err == nil
}

// LaunchRocket sends a rocket to the other planet. It lands after the orbit's
// current flight time, less any research reduction, and its takeoff damages
// every unit next to it.
func (w *World) LaunchRocket(id geom.UnitID, dest geom.MapLocation) error {
	r, from, err := w.checkLaunch(id, dest)
	if err != nil {
		return err
	}
	r.Structure.Used = true
	w.moveTo(r, geom.Space())

	at := w.round + w.flightOf(r)
	w.landings[at] = append(w.landings[at], Landing{Rocket: id, Destination: dest})

	w.blast(from)
	return nil
}

func (w *World) flightOf(r *unit.Unit) int {
	return max(1, w.weather.Orbit.Duration(w.round)-r.Stats.TravelTimeDecrease)
}

func (w *World) checkLaunch(id geom.UnitID, dest geom.MapLocation) (*unit.Unit, geom.MapLocation, error) {
	r, l, err := w.ownedOnMap(id)
	if err != nil {
		return nil, l, err
	}
	if r.Type != unit.Rocket {
		return nil, l, gameerr.New(gameerr.CodeInappropriateUnit, "%s cannot launch", r.Type)
	}
	if !r.Structure.Built || r.Structure.Used {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "rocket %d cannot launch", id)
	}
	if dest.Planet != l.Planet.Other() {
		return nil, l, gameerr.New(gameerr.CodeInvalidLocation, "%s is not on %s", dest, l.Planet.Other())
	}
	target := w.planetOf(dest)
	if !target.Map.OnMap(dest) {
		return nil, l, gameerr.New(gameerr.CodeInvalidLocation, "%s is off the map", dest)
	}
	if !target.Map.IsPassableTerrainAt(dest) {
		return nil, l, gameerr.New(gameerr.CodeInvalidLocation, "%s is impassable", dest)
	}
	return r, l, nil
}

// landRocket brings a rocket down on dest. Whatever stands there is crushed,
// and a rocket landing on a rocket or factory is destroyed with it.
func (w *World) landRocket(id geom.UnitID, dest geom.MapLocation) {
	r, ok := w.units[id]
	if !ok || r.Location.Kind != geom.InSpace {
		return
	}
	if occ, taken := w.occupant(dest); taken {
		info, _ := w.lookup(occ)
		w.destroyUnit(occ)
		if info.Type.IsStructure() {
			w.destroyUnit(id)
		} else {
			w.moveTo(r, geom.At(dest))
		}
	} else {
		w.moveTo(r, geom.At(dest))
	}
	w.blast(dest)
}

func (w *World) blast(center geom.MapLocation) {
	for _, l := range center.Neighbors() {
		if w.onMap(l) {
			w.damageLocation(l, w.tuning.Game.RocketBlastDamage)
		}
	}
}

func (w *World) processLandings() {
	ls, ok := w.landings[w.round]
	if !ok {
		return
	}
	delete(w.landings, w.round)
	for _, l := range ls {
		w.landRocket(l.Rocket, l.Destination)
	}
}
