package match

import (
	"context"

	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/world"
)

// TurnRequest is handed to the seat that is to move. View is a filtered copy
// of the world; the controller may mutate it freely.
type TurnRequest struct {
	MatchID string
	Round   int
	Player  geom.Player
	View    *world.World
}

// Controller plays one seat. Play returns the actions to apply in order; an
// error or an expired context ends the turn with no actions.
type Controller interface {
	Play(ctx context.Context, req TurnRequest) ([]protocol.Action, error)
	Results(round int, results []protocol.ActionResult)
	End(o Outcome)
}

// ControllerFunc adapts a plain function to a Controller that ignores results.
type ControllerFunc func(ctx context.Context, req TurnRequest) ([]protocol.Action, error)

func (f ControllerFunc) Play(ctx context.Context, req TurnRequest) ([]protocol.Action, error) {
	return f(ctx, req)
}
func (f ControllerFunc) Results(int, []protocol.ActionResult) {}
func (f ControllerFunc) End(Outcome)                          {}

// Idle ends every turn without acting.
func Idle() Controller {
	return ControllerFunc(func(context.Context, TurnRequest) ([]protocol.Action, error) { return nil, nil })
}
