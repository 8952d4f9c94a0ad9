package world

import (
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

// worker checks that id is an owned worker on the map that has not used its
// action this round.
func (w *World) worker(id geom.UnitID) (*unit.Unit, geom.MapLocation, error) {
	u, l, err := w.ownedOnMap(id)
	if err != nil {
		return nil, l, err
	}
	if u.Type != unit.Worker {
		return nil, l, gameerr.New(gameerr.CodeInappropriateUnit, "%s is not a worker", u.Type)
	}
	if u.Worker.HasActed {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "worker %d already acted this round", id)
	}
	return u, l, nil
}

func (w *World) CanHarvest(id geom.UnitID, d geom.Direction) bool {
	_, _, err := w.checkHarvest(id, d)
	return err == nil
}

// Harvest moves karbonite from a square next to or under the worker into the
// team's pool.
func (w *World) Harvest(id geom.UnitID, d geom.Direction) error {
	u, target, err := w.checkHarvest(id, d)
	if err != nil {
		return err
	}
	p := w.planetOf(target)
	amount := min(u.Stats.HarvestAmount, p.karboniteAt(target))
	p.addKarbonite(target, -amount)
	w.team().Karbonite += amount
	u.Worker.HasActed = true
	return nil
}

func (w *World) checkHarvest(id geom.UnitID, d geom.Direction) (*unit.Unit, geom.MapLocation, error) {
	u, l, err := w.worker(id)
	if err != nil {
		return nil, l, err
	}
	if !d.Valid() {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "bad direction %d", d)
	}
	target := l.Add(d)
	if !w.onMap(target) {
		return nil, target, gameerr.New(gameerr.CodeInvalidLocation, "%s is off the map", target)
	}
	if w.planetOf(target).karboniteAt(target) <= 0 {
		return nil, target, gameerr.New(gameerr.CodeInvalidAction, "no karbonite at %s", target)
	}
	return u, target, nil
}

func (w *World) CanBlueprint(id geom.UnitID, typ unit.Type, d geom.Direction) bool {
	_, _, err := w.checkBlueprint(id, typ, d)
	return err == nil
}

// Blueprint pays for a structure and lays down its unbuilt shell.
func (w *World) Blueprint(id geom.UnitID, typ unit.Type, d geom.Direction) error {
	u, target, err := w.checkBlueprint(id, typ, d)
	if err != nil {
		return err
	}
	s, err := w.createUnit(w.Team(), geom.At(target), typ)
	if err != nil {
		return err
	}
	s.Structure.Built = false
	s.Health = max(1, s.MaxHealth()*w.tuning.Game.BlueprintHealthPercent/100)
	w.team().Karbonite -= s.Stats.Cost
	u.Worker.HasActed = true
	return nil
}

func (w *World) checkBlueprint(id geom.UnitID, typ unit.Type, d geom.Direction) (*unit.Unit, geom.MapLocation, error) {
	u, l, err := w.worker(id)
	if err != nil {
		return nil, l, err
	}
	if !typ.IsStructure() {
		return nil, l, gameerr.New(gameerr.CodeInappropriateUnit, "cannot blueprint a %s", typ)
	}
	if typ == unit.Factory && l.Planet == geom.Mars {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "factories cannot be built on Mars")
	}
	if typ == unit.Rocket && w.team().Research.Level(unit.Rocket) < 1 {
		return nil, l, gameerr.New(gameerr.CodeInvalidResearchLevel, "rocketry not researched")
	}
	if !d.Valid() || d == geom.Center {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "bad direction %d", d)
	}
	target := l.Add(d)
	if !w.occupiable(target) {
		return nil, target, gameerr.New(gameerr.CodeInvalidAction, "%s is not occupiable", target)
	}
	stats, _ := w.tuning.Units.ByName(typ.String())
	if w.team().Karbonite < stats.Cost {
		return nil, target, gameerr.New(gameerr.CodeInvalidAction, "%s costs %d, have %d", typ, stats.Cost, w.team().Karbonite)
	}
	return u, target, nil
}

func (w *World) CanBuild(id, blueprint geom.UnitID) bool {
	_, _, err := w.checkStructureWork(id, blueprint, false)
	return err == nil
}

// Build adds the worker's build health to an adjacent blueprint, finishing it
// at full health.
func (w *World) Build(id, blueprint geom.UnitID) error {
	u, s, err := w.checkStructureWork(id, blueprint, false)
	if err != nil {
		return err
	}
	s.Heal(u.Stats.BuildHealth)
	if s.Health >= s.MaxHealth() {
		s.Structure.Built = true
	}
	u.Worker.HasActed = true
	return nil
}

func (w *World) CanRepair(id, structure geom.UnitID) bool {
	_, _, err := w.checkStructureWork(id, structure, true)
	return err == nil
}

func (w *World) Repair(id, structure geom.UnitID) error {
	u, s, err := w.checkStructureWork(id, structure, true)
	if err != nil {
		return err
	}
	s.Heal(u.Stats.RepairHealth)
	u.Worker.HasActed = true
	return nil
}

// checkStructureWork covers Build (built=false) and Repair (built=true).
func (w *World) checkStructureWork(id, target geom.UnitID, built bool) (*unit.Unit, *unit.Unit, error) {
	u, l, err := w.worker(id)
	if err != nil {
		return nil, nil, err
	}
	s, sl, err := w.ownedOnMap(target)
	if err != nil {
		return nil, nil, err
	}
	if s.Structure == nil {
		return nil, nil, gameerr.New(gameerr.CodeInappropriateUnit, "%s is not a structure", s.Type)
	}
	if s.Structure.Built != built {
		if built {
			return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "structure %d is still a blueprint", target)
		}
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "structure %d is already built", target)
	}
	if !l.IsAdjacentTo(sl) {
		return nil, nil, gameerr.New(gameerr.CodeInvalidAction, "structure %d is not adjacent", target)
	}
	return u, s, nil
}

func (w *World) CanReplicate(id geom.UnitID, d geom.Direction) bool {
	_, _, err := w.checkReplicate(id, d)
	return err == nil
}

// Replicate spends karbonite and ability heat to make a new worker.
func (w *World) Replicate(id geom.UnitID, d geom.Direction) error {
	u, target, err := w.checkReplicate(id, d)
	if err != nil {
		return err
	}
	if _, err := w.createUnit(u.Team, geom.At(target), unit.Worker); err != nil {
		return err
	}
	w.team().Karbonite -= u.Stats.ReplicateCost
	u.UseAbility()
	return nil
}

func (w *World) checkReplicate(id geom.UnitID, d geom.Direction) (*unit.Unit, geom.MapLocation, error) {
	u, l, err := w.ownedOnMap(id)
	if err != nil {
		return nil, l, err
	}
	if u.Type != unit.Worker {
		return nil, l, gameerr.New(gameerr.CodeInappropriateUnit, "%s is not a worker", u.Type)
	}
	if !u.IsAbilityReady(w.tuning.Game.HeatLimit) {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "worker %d ability heat %d", id, u.AbilityHeat)
	}
	if w.team().Karbonite < u.Stats.ReplicateCost {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "replication costs %d", u.Stats.ReplicateCost)
	}
	if !d.Valid() || d == geom.Center {
		return nil, l, gameerr.New(gameerr.CodeInvalidAction, "bad direction %d", d)
	}
	target := l.Add(d)
	if !w.occupiable(target) {
		return nil, target, gameerr.New(gameerr.CodeInvalidAction, "%s is not occupiable", target)
	}
	return u, target, nil
}
