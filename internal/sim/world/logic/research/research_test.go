package research

import (
	"testing"

	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
)

func TestQueueCompletesInOrder(t *testing.T) {
	tu := tuning.Defaults()
	r := NewInfo()
	if !r.Add(unit.Rocket, &tu) || !r.Add(unit.Knight, &tu) {
		t.Fatalf("queue rejected")
	}
	first := tu.Research.Rocket[0].Rounds
	for i := 1; i < first; i++ {
		if _, done := r.NextRound(&tu); done {
			t.Fatalf("rocketry finished early at round %d", i)
		}
	}
	done, ok := r.NextRound(&tu)
	if !ok || done != unit.Rocket || r.Level(unit.Rocket) != 1 {
		t.Fatalf("got %v,%v level=%d", done, ok, r.Level(unit.Rocket))
	}
	if r.RoundsLeft != tu.Research.Knight[0].Rounds {
		t.Fatalf("knight countdown=%d", r.RoundsLeft)
	}
}

func TestQueueRejectsExhaustedBranch(t *testing.T) {
	tu := tuning.Defaults()
	r := NewInfo()
	for i := range tu.Research.Knight {
		if !r.Add(unit.Knight, &tu) {
			t.Fatalf("level %d rejected", i)
		}
	}
	if r.Add(unit.Knight, &tu) {
		t.Fatalf("queued past the top of the ladder")
	}
	if r.Add(unit.Factory, &tu) {
		t.Fatalf("factory has no research")
	}
}

func TestRoundsLeftFor(t *testing.T) {
	tu := tuning.Defaults()
	r := NewInfo()
	r.Add(unit.Worker, &tu)
	r.Add(unit.Worker, &tu)
	r.Add(unit.Mage, &tu)
	got, ok := r.RoundsLeftFor(unit.Mage, &tu)
	want := tu.Research.Worker[0].Rounds + tu.Research.Worker[1].Rounds + tu.Research.Mage[0].Rounds
	if !ok || got != want {
		t.Fatalf("RoundsLeftFor(Mage)=%d,%v want %d", got, ok, want)
	}
	if _, ok := r.RoundsLeftFor(unit.Healer, &tu); ok {
		t.Fatalf("healer not queued")
	}
}

func TestResetClearsProgress(t *testing.T) {
	tu := tuning.Defaults()
	r := NewInfo()
	r.Add(unit.Mage, &tu)
	r.NextRound(&tu)
	c := r.Clone()
	r.Reset()
	if len(r.Queue) != 0 || r.RoundsLeft != 0 {
		t.Fatalf("reset left %v/%d", r.Queue, r.RoundsLeft)
	}
	if len(c.Queue) != 1 {
		t.Fatalf("clone aliased queue")
	}
	if _, done := r.NextRound(&tu); done {
		t.Fatalf("empty queue completed something")
	}
}
