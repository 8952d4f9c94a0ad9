package world

import (
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func (w *World) CanProduceRobot(id geom.UnitID, typ unit.Type) bool {
	_, err := w.checkQueueRobot(id, typ)
	return err == nil
}

// ProduceRobot charges the robot's cost and starts the factory on it. The
// robot appears in the factory's garrison when production finishes.
func (w *World) ProduceRobot(id geom.UnitID, typ unit.Type) error {
	f, err := w.checkQueueRobot(id, typ)
	if err != nil {
		return err
	}
	stats, _ := w.tuning.Units.ByName(typ.String())
	w.team().Karbonite -= stats.Cost
	f.Structure.Production = &unit.Production{Type: typ, RoundsLeft: w.tuning.Game.FactoryProductionRounds}
	return nil
}

func (w *World) checkQueueRobot(id geom.UnitID, typ unit.Type) (*unit.Unit, error) {
	f, _, err := w.ownedOnMap(id)
	if err != nil {
		return nil, err
	}
	if f.Type != unit.Factory {
		return nil, gameerr.New(gameerr.CodeInappropriateUnit, "%s is not a factory", f.Type)
	}
	if !typ.IsRobot() {
		return nil, gameerr.New(gameerr.CodeInappropriateUnit, "factories cannot produce a %s", typ)
	}
	if !f.Structure.Built {
		return nil, gameerr.New(gameerr.CodeInvalidAction, "factory %d is a blueprint", id)
	}
	if f.Structure.Production != nil {
		return nil, gameerr.New(gameerr.CodeInvalidAction, "factory %d is busy", id)
	}
	stats, _ := w.tuning.Units.ByName(typ.String())
	if w.team().Karbonite < stats.Cost {
		return nil, gameerr.New(gameerr.CodeInvalidAction, "%s costs %d, have %d", typ, stats.Cost, w.team().Karbonite)
	}
	return f, nil
}

// tickFactory advances production and delivers a finished robot into the
// garrison. A full garrison holds the robot back until a slot frees up.
func (w *World) tickFactory(f *unit.Unit) {
	typ, done := f.TickProduction()
	if !done || f.GarrisonFull() {
		return
	}
	r, err := w.createUnit(f.Team, geom.Garrisoned(f.ID), typ)
	if err != nil {
		return
	}
	f.PushGarrison(r.ID)
	f.Structure.Production = nil
}
