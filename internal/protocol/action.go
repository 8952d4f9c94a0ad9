package protocol

import (
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

type ActionType string

const (
	ActEndTurn        ActionType = "END_TURN"
	ActMove           ActionType = "MOVE"
	ActAttack         ActionType = "ATTACK"
	ActHarvest        ActionType = "HARVEST"
	ActBlueprint      ActionType = "BLUEPRINT"
	ActBuild          ActionType = "BUILD"
	ActRepair         ActionType = "REPAIR"
	ActReplicate      ActionType = "REPLICATE"
	ActJavelin        ActionType = "JAVELIN"
	ActBlink          ActionType = "BLINK"
	ActHeal           ActionType = "HEAL"
	ActOvercharge     ActionType = "OVERCHARGE"
	ActQueueRobot     ActionType = "QUEUE_ROBOT"
	ActGarrison       ActionType = "GARRISON"
	ActDegarrison     ActionType = "DEGARRISON"
	ActLaunchRocket   ActionType = "LAUNCH_ROCKET"
	ActQueueResearch  ActionType = "QUEUE_RESEARCH"
	ActResetResearch  ActionType = "RESET_RESEARCH"
	ActWriteTeamArray ActionType = "WRITE_TEAM_ARRAY"
	ActDisintegrate   ActionType = "DISINTEGRATE"
)

// Action is one request against the world. Which fields matter depends on Type;
// the ACT schema enforces that the required ones are present.
type Action struct {
	Type      ActionType        `json:"type"`
	Unit      geom.UnitID       `json:"unit,omitempty"`
	Target    geom.UnitID       `json:"target,omitempty"`
	Direction *geom.Direction   `json:"direction,omitempty"`
	Location  *geom.MapLocation `json:"location,omitempty"`
	UnitType  *unit.Type        `json:"unit_type,omitempty"`
	Index     int               `json:"index,omitempty"`
	Value     int               `json:"value,omitempty"`
}

func EndTurn() Action { return Action{Type: ActEndTurn} }

func Move(id geom.UnitID, d geom.Direction) Action {
	return Action{Type: ActMove, Unit: id, Direction: &d}
}

func Attack(id, target geom.UnitID) Action {
	return Action{Type: ActAttack, Unit: id, Target: target}
}

func Harvest(worker geom.UnitID, d geom.Direction) Action {
	return Action{Type: ActHarvest, Unit: worker, Direction: &d}
}

func Blueprint(worker geom.UnitID, t unit.Type, d geom.Direction) Action {
	return Action{Type: ActBlueprint, Unit: worker, UnitType: &t, Direction: &d}
}

func Build(worker, blueprint geom.UnitID) Action {
	return Action{Type: ActBuild, Unit: worker, Target: blueprint}
}

func Repair(worker, structure geom.UnitID) Action {
	return Action{Type: ActRepair, Unit: worker, Target: structure}
}

func Replicate(worker geom.UnitID, d geom.Direction) Action {
	return Action{Type: ActReplicate, Unit: worker, Direction: &d}
}

func Javelin(knight, target geom.UnitID) Action {
	return Action{Type: ActJavelin, Unit: knight, Target: target}
}

func Blink(mage geom.UnitID, l geom.MapLocation) Action {
	return Action{Type: ActBlink, Unit: mage, Location: &l}
}

func Heal(healer, target geom.UnitID) Action {
	return Action{Type: ActHeal, Unit: healer, Target: target}
}

func Overcharge(healer, target geom.UnitID) Action {
	return Action{Type: ActOvercharge, Unit: healer, Target: target}
}

func QueueRobot(factory geom.UnitID, t unit.Type) Action {
	return Action{Type: ActQueueRobot, Unit: factory, UnitType: &t}
}

func Garrison(structure, robot geom.UnitID) Action {
	return Action{Type: ActGarrison, Unit: structure, Target: robot}
}

func Degarrison(structure geom.UnitID, d geom.Direction) Action {
	return Action{Type: ActDegarrison, Unit: structure, Direction: &d}
}

func LaunchRocket(rocket geom.UnitID, l geom.MapLocation) Action {
	return Action{Type: ActLaunchRocket, Unit: rocket, Location: &l}
}

func QueueResearch(t unit.Type) Action {
	return Action{Type: ActQueueResearch, UnitType: &t}
}

func ResetResearch() Action { return Action{Type: ActResetResearch} }

func WriteTeamArray(index, value int) Action {
	return Action{Type: ActWriteTeamArray, Index: index, Value: value}
}

func Disintegrate(id geom.UnitID) Action {
	return Action{Type: ActDisintegrate, Unit: id}
}
