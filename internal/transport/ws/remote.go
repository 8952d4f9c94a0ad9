package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"battlecode.ai/internal/match"
	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/world"
)

// Play drives ctrl from the server's messages until END. Each TURN view is
// rebuilt into a filtered world replica with t so ctrl sees the same surface
// an in-process seat does.
func (c *Client) Play(ctx context.Context, ctrl match.Controller, t *tuning.Tuning) (match.Outcome, error) {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	for {
		typ, raw, err := c.Next()
		if err != nil {
			if ctx.Err() != nil {
				return match.Outcome{}, ctx.Err()
			}
			return match.Outcome{}, err
		}
		switch typ {
		case protocol.TypeTurn:
			var turn protocol.TurnMsg
			if err := json.Unmarshal(raw, &turn); err != nil {
				return match.Outcome{}, fmt.Errorf("decode TURN: %w", err)
			}
			var snap snapshot.GameV1
			if err := json.Unmarshal(turn.View, &snap); err != nil {
				return match.Outcome{}, fmt.Errorf("decode view: %w", err)
			}
			view, err := world.ImportSnapshot(snap, t)
			if err != nil {
				return match.Outcome{}, fmt.Errorf("import view: %w", err)
			}
			actions, err := ctrl.Play(ctx, match.TurnRequest{
				MatchID: turn.MatchID,
				Round:   turn.Round,
				Player:  turn.Player,
				View:    view,
			})
			if err != nil {
				actions = nil
			}
			if err := c.Act(turn.Round, actions); err != nil {
				return match.Outcome{}, err
			}
		case protocol.TypeResult:
			var res protocol.ResultMsg
			if err := json.Unmarshal(raw, &res); err == nil {
				ctrl.Results(res.Round, res.Results)
			}
		case protocol.TypeEnd:
			var end protocol.EndMsg
			if err := json.Unmarshal(raw, &end); err != nil {
				return match.Outcome{}, fmt.Errorf("decode END: %w", err)
			}
			o := match.Outcome{MatchID: end.MatchID, Round: end.Round, Reason: end.Reason, Draw: end.Winner == ""}
			if !o.Draw {
				if err := o.Winner.UnmarshalText([]byte(end.Winner)); err != nil {
					return o, fmt.Errorf("decode END winner: %w", err)
				}
			}
			ctrl.End(o)
			return o, nil
		case protocol.TypeError:
			// Errors about a single frame do not end the match.
		}
	}
}
