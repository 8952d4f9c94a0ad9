package world

import (
	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

// Apply dispatches one wire action to the matching world method.
func (w *World) Apply(a protocol.Action) error {
	switch a.Type {
	case protocol.ActEndTurn:
		return w.EndTurn()
	case protocol.ActMove:
		d, err := direction(a)
		if err != nil {
			return err
		}
		return w.MoveRobot(a.Unit, d)
	case protocol.ActAttack:
		return w.Attack(a.Unit, a.Target)
	case protocol.ActHarvest:
		d, err := direction(a)
		if err != nil {
			return err
		}
		return w.Harvest(a.Unit, d)
	case protocol.ActBlueprint:
		d, err := direction(a)
		if err != nil {
			return err
		}
		t, err := unitType(a)
		if err != nil {
			return err
		}
		return w.Blueprint(a.Unit, t, d)
	case protocol.ActBuild:
		return w.Build(a.Unit, a.Target)
	case protocol.ActRepair:
		return w.Repair(a.Unit, a.Target)
	case protocol.ActReplicate:
		d, err := direction(a)
		if err != nil {
			return err
		}
		return w.Replicate(a.Unit, d)
	case protocol.ActJavelin:
		return w.Javelin(a.Unit, a.Target)
	case protocol.ActBlink:
		l, err := location(a)
		if err != nil {
			return err
		}
		return w.Blink(a.Unit, l)
	case protocol.ActHeal:
		return w.Heal(a.Unit, a.Target)
	case protocol.ActOvercharge:
		return w.Overcharge(a.Unit, a.Target)
	case protocol.ActQueueRobot:
		t, err := unitType(a)
		if err != nil {
			return err
		}
		return w.ProduceRobot(a.Unit, t)
	case protocol.ActGarrison:
		return w.Garrison(a.Unit, a.Target)
	case protocol.ActDegarrison:
		d, err := direction(a)
		if err != nil {
			return err
		}
		return w.Degarrison(a.Unit, d)
	case protocol.ActLaunchRocket:
		l, err := location(a)
		if err != nil {
			return err
		}
		return w.LaunchRocket(a.Unit, l)
	case protocol.ActQueueResearch:
		t, err := unitType(a)
		if err != nil {
			return err
		}
		if !w.QueueResearch(t) {
			return gameerr.New(gameerr.CodeInvalidAction, "no %s research left to queue", t)
		}
		return nil
	case protocol.ActResetResearch:
		w.ResetResearch()
		return nil
	case protocol.ActWriteTeamArray:
		return w.WriteTeamArray(a.Index, a.Value)
	case protocol.ActDisintegrate:
		return w.Disintegrate(a.Unit)
	}
	return gameerr.New(gameerr.CodeInvalidAction, "unknown action %q", a.Type)
}

func direction(a protocol.Action) (geom.Direction, error) {
	if a.Direction == nil {
		return 0, gameerr.New(gameerr.CodeInvalidAction, "%s needs a direction", a.Type)
	}
	return *a.Direction, nil
}

func location(a protocol.Action) (geom.MapLocation, error) {
	if a.Location == nil {
		return geom.MapLocation{}, gameerr.New(gameerr.CodeInvalidAction, "%s needs a location", a.Type)
	}
	return *a.Location, nil
}

func unitType(a protocol.Action) (unit.Type, error) {
	if a.UnitType == nil || !a.UnitType.Valid() {
		return 0, gameerr.New(gameerr.CodeInvalidAction, "%s needs a unit type", a.Type)
	}
	return *a.UnitType, nil
}
