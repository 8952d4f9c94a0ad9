package match

import (
	"context"

	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

// Harvester is a small in-process bot for local matches: workers harvest any
// karbonite next to them, replicate while the pool allows it and otherwise
// wander. Every other unit waits. It decides only from its view, so it is
// deterministic for a given match.
func Harvester() Controller {
	return ControllerFunc(func(ctx context.Context, req TurnRequest) ([]protocol.Action, error) {
		v := req.View
		var out []protocol.Action
		for _, u := range v.MyUnits() {
			if ctx.Err() != nil {
				break
			}
			if u.Type != unit.Worker || !u.Location.IsOnMap() {
				continue
			}
			acted := false
			for _, d := range append(geom.Directions(), geom.Center) {
				l := u.Location.Map.Add(d)
				if k, err := v.KarboniteAt(l); err == nil && k > 0 && v.CanHarvest(u.ID, d) {
					if v.Harvest(u.ID, d) == nil {
						out = append(out, protocol.Harvest(u.ID, d))
						acted = true
						break
					}
				}
			}
			if !acted {
				for _, d := range geom.Directions() {
					if v.CanReplicate(u.ID, d) && v.Replicate(u.ID, d) == nil {
						out = append(out, protocol.Replicate(u.ID, d))
						break
					}
				}
			}
			// Rotate the preferred heading by round so workers spread out.
			d := geom.Directions()[(req.Round+int(u.ID))%8]
			for i := 0; i < 8; i++ {
				if v.CanMove(u.ID, d) {
					if v.MoveRobot(u.ID, d) == nil {
						out = append(out, protocol.Move(u.ID, d))
					}
					break
				}
				d = d.RotateRight()
			}
		}
		return out, nil
	})
}
