package world

import (
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/unit"
)

// QueueResearch appends a branch to the current team's queue. It reports false
// when every level of the branch is already researched or queued.
func (w *World) QueueResearch(branch unit.Type) bool {
	return w.team().Research.Add(branch, w.tuning)
}

func (w *World) ResetResearch() {
	w.team().Research.Reset()
}

// advanceResearch ticks each team's queue, Red first. A finished branch levels
// up every live unit of that type on the team.
func (w *World) advanceResearch() {
	for _, team := range sortedTeams(w.teams) {
		ti := w.teams[team]
		done, ok := ti.Research.NextRound(w.tuning)
		if !ok {
			continue
		}
		for _, id := range w.sortedIDs() {
			if u := w.units[id]; u.Team == team && u.Type == done {
				u.ResearchUp(w.tuning)
			}
		}
	}
}

// WriteTeamArray sets one slot of the current planet's communication array.
func (w *World) WriteTeamArray(index, value int) error {
	n := w.tuning.Game.TeamArrayLength
	if index < 0 || index >= n {
		return gameerr.New(gameerr.CodeInvalidAction, "team array index %d outside [0,%d)", index, n)
	}
	w.team().Arrays[w.Planet()].write(w.round, n, index, value)
	return nil
}
