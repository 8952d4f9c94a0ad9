package world

import (
	"sort"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

// EndTurn passes control to the next player. Wrapping from Blue/Mars starts a
// new round. Past the round limit the world refuses to advance; ending the game
// is the caller's job.
func (w *World) EndTurn() error {
	next, wrapped := w.player.Next()
	if wrapped && w.round >= w.tuning.Game.RoundLimit {
		return gameerr.New(gameerr.CodeInternalEngine, "round %d is the last round", w.round)
	}
	w.player = next
	if wrapped {
		w.nextRound()
	}
	w.startTurnSight()
	return nil
}

// nextRound runs the round boundary. The order of these steps is part of the
// game rules.
func (w *World) nextRound() {
	w.round++

	loss := w.tuning.Game.HeatLossPerRound
	for _, id := range w.sortedIDs() {
		u, ok := w.units[id]
		if !ok {
			continue
		}
		u.NextRound(loss)
		if u.Type == unit.Factory {
			w.tickFactory(u)
		}
	}

	w.processLandings()

	if strike, ok := w.weather.Asteroids.Asteroid(w.round); ok {
		if p := w.planetOf(strike.Location); p != nil && p.Map.OnMap(strike.Location) {
			p.addKarbonite(strike.Location, strike.Karbonite)
		}
	}

	w.advanceResearch()
}

// Disintegrate destroys one of the player's units along with its cargo.
func (w *World) Disintegrate(id geom.UnitID) error {
	if _, err := w.owned(id); err != nil {
		return err
	}
	w.destroyUnit(id)
	return nil
}

func sortedTeams(m map[geom.Team]*TeamInfo) []geom.Team {
	out := make([]geom.Team, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
