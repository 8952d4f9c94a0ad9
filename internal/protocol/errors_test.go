package protocol

import (
	"fmt"
	"testing"

	"battlecode.ai/internal/sim/gameerr"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrVersion,
		ErrSeatTaken,
		ErrBadKey,
		ErrNotYourTurn,
		ErrStale,
		ErrRateLimit,
		ErrInvalidMap,
		ErrNoSuchUnit,
		ErrTeamNotAllowed,
		ErrInappropriateUnit,
		ErrInvalidLocation,
		ErrInvalidAction,
		ErrInvalidResearchLevel,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCodeFor(t *testing.T) {
	if got := CodeFor(nil); got != "" {
		t.Fatalf("nil -> %q", got)
	}
	wrapped := fmt.Errorf("move: %w", gameerr.New(gameerr.CodeInvalidAction, "not ready"))
	if got := CodeFor(wrapped); got != ErrInvalidAction {
		t.Fatalf("wrapped invalid action -> %q", got)
	}
	if got := CodeFor(gameerr.ErrTeamNotAllowed); got != ErrTeamNotAllowed {
		t.Fatalf("team not allowed -> %q", got)
	}
	if got := CodeFor(fmt.Errorf("boom")); got != ErrInternal {
		t.Fatalf("plain error -> %q", got)
	}
	for code, wire := range gameCodes {
		if !IsKnownCode(wire) {
			t.Fatalf("%s maps to unknown wire code %q", code, wire)
		}
	}
}
