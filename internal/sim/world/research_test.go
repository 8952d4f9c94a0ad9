package world

import (
	"testing"

	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func TestResearch_UpgradesLiveAndNewUnits(t *testing.T) {
	w := newTestWorld(t)
	red := mustCreate(t, w, geom.Red, unit.Knight, earth(5, 5))
	blue := mustCreate(t, w, geom.Blue, unit.Knight, earth(9, 9))
	base := red.Stats.Defense

	if !w.QueueResearch(unit.Knight) {
		t.Fatalf("queue knight")
	}
	rounds := w.Tuning().Research.Knight[0].Rounds
	left, ok := w.ResearchInfo().RoundsLeftFor(unit.Knight, w.Tuning())
	if !ok || left != rounds {
		t.Fatalf("rounds left=%d ok=%v want %d", left, ok, rounds)
	}
	for i := 0; i < rounds; i++ {
		endTurns(t, w, 4)
	}
	if red.Level != 1 || red.Stats.Defense != base+w.Tuning().Research.Knight[0].Delta.Defense {
		t.Fatalf("red knight level=%d defense=%d", red.Level, red.Stats.Defense)
	}
	if blue.Level != 0 {
		t.Fatalf("research leaked to the other team")
	}
	fresh := mustCreate(t, w, geom.Red, unit.Knight, earth(7, 7))
	if fresh.Level != 1 || fresh.Stats.Defense != red.Stats.Defense {
		t.Fatalf("new knight level=%d defense=%d", fresh.Level, fresh.Stats.Defense)
	}
}

func TestResearch_QueueExhaustsAndResets(t *testing.T) {
	w := newTestWorld(t)
	n := len(w.Tuning().Research.Knight)
	for i := 0; i < n; i++ {
		if !w.QueueResearch(unit.Knight) {
			t.Fatalf("queue %d refused", i)
		}
	}
	if w.QueueResearch(unit.Knight) {
		t.Fatalf("queued past the last level")
	}
	if w.QueueResearch(unit.Factory) {
		t.Fatalf("queued a branch with no levels")
	}
	w.ResetResearch()
	if info := w.ResearchInfo(); len(info.Queue) != 0 {
		t.Fatalf("queue after reset=%v", info.Queue)
	}
	if !w.QueueResearch(unit.Knight) {
		t.Fatalf("queue after reset refused")
	}
}

func TestResearch_RocketryUnlocksBlueprint(t *testing.T) {
	w := newTestWorld(t)
	wk := mustCreate(t, w, geom.Red, unit.Worker, earth(5, 5))
	w.team().Karbonite = 1000
	if !w.QueueResearch(unit.Rocket) {
		t.Fatalf("queue rocket")
	}
	for i := 0; i < w.Tuning().Research.Rocket[0].Rounds; i++ {
		endTurns(t, w, 4)
	}
	if err := w.Blueprint(wk.ID, unit.Rocket, geom.South); err != nil {
		t.Fatalf("rocket blueprint after rocketry: %v", err)
	}
}

func TestTeamArray_DelayBetweenPlanets(t *testing.T) {
	w := newTestWorld(t)
	delay := w.Tuning().Game.TeamArrayDelay
	if err := w.WriteTeamArray(0, 7); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.WriteTeamArray(w.Tuning().Game.TeamArrayLength, 1); err == nil {
		t.Fatalf("write past the end succeeded")
	}
	if got := w.TeamArray(geom.Earth)[0]; got != 7 {
		t.Fatalf("own planet read=%d", got)
	}

	endTurns(t, w, 2)
	if got := w.TeamArray(geom.Earth)[0]; got != 0 {
		t.Fatalf("Mars saw Earth's write immediately: %d", got)
	}
	for i := 0; i < delay-1; i++ {
		endTurns(t, w, 4)
	}
	if got := w.TeamArray(geom.Earth)[0]; got != 0 {
		t.Fatalf("round %d: Mars saw the write early: %d", w.Round(), got)
	}
	endTurns(t, w, 4)
	if got := w.TeamArray(geom.Earth)[0]; got != 7 {
		t.Fatalf("round %d: Mars read=%d want 7", w.Round(), got)
	}
}
