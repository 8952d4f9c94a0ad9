package log

import (
	"testing"

	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/geom"
)

func TestTurnLogger_RoundTripAcrossSegments(t *testing.T) {
	dir := t.TempDir()
	l := NewTurnLogger(dir)
	rounds := []int{1, 1, SegmentRounds - 1, SegmentRounds, SegmentRounds*2 + 3}
	for i, r := range rounds {
		e := TurnEntry{
			MatchID: "m",
			Round:   r,
			Player:  geom.Players()[i%4],
			Actions: []protocol.Action{protocol.Move(geom.UnitID(10+i), geom.East)},
			Results: []protocol.ActionResult{{Index: 0, OK: true}},
			Digest:  "d",
		}
		if err := l.WriteTurn(e); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadTurns(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(rounds) {
		t.Fatalf("entries=%d want %d", len(got), len(rounds))
	}
	for i, e := range got {
		if e.Round != rounds[i] || e.Actions[0].Unit != geom.UnitID(10+i) {
			t.Fatalf("entry %d = %+v", i, e)
		}
		if e.Actions[0].Direction == nil || *e.Actions[0].Direction != geom.East {
			t.Fatalf("entry %d direction lost", i)
		}
	}
}

func TestTurnLogger_ReopenAppendsFrames(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		l := NewTurnLogger(dir)
		if err := l.WriteTurn(TurnEntry{Round: 5, Digest: "x"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	got, err := ReadTurns(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries=%d want 2", len(got))
	}
}
