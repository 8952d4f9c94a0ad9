package world

import (
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func (w *World) IsMoveReady(id geom.UnitID) bool {
	u, err := w.owned(id)
	return err == nil && u.IsMoveReady(w.tuning.Game.HeatLimit)
}

func (w *World) CanMove(id geom.UnitID, d geom.Direction) bool {
	_, _, err := w.checkMove(id, d)
	return err == nil
}

// MoveRobot moves a robot one square. The world is unchanged on error.
func (w *World) MoveRobot(id geom.UnitID, d geom.Direction) error {
	u, dest, err := w.checkMove(id, d)
	if err != nil {
		return err
	}
	w.moveTo(u, geom.At(dest))
	u.UseMove()
	return nil
}

func (w *World) checkMove(id geom.UnitID, d geom.Direction) (*unit.Unit, geom.MapLocation, error) {
	u, l, err := w.ownedOnMap(id)
	if err != nil {
		return nil, geom.MapLocation{}, err
	}
	if !u.Type.IsRobot() {
		return nil, geom.MapLocation{}, gameerr.New(gameerr.CodeInappropriateUnit, "%s cannot move", u.Type)
	}
	if !d.Valid() || d == geom.Center {
		return nil, geom.MapLocation{}, gameerr.New(gameerr.CodeInvalidAction, "bad direction %d", d)
	}
	if !u.IsMoveReady(w.tuning.Game.HeatLimit) {
		return nil, geom.MapLocation{}, gameerr.New(gameerr.CodeInvalidAction, "unit %d movement heat %d", id, u.MovementHeat)
	}
	dest := l.Add(d)
	if !w.occupiable(dest) {
		return nil, geom.MapLocation{}, gameerr.New(gameerr.CodeInvalidAction, "%s is not occupiable", dest)
	}
	return u, dest, nil
}
