package world

import (
	"errors"
	"testing"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	tu := tuning.Defaults()
	w, err := New(gamemap.TestMap(&tu), &tu)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func earth(x, y int) geom.MapLocation { return geom.NewMapLocation(geom.Earth, x, y) }
func mars(x, y int) geom.MapLocation  { return geom.NewMapLocation(geom.Mars, x, y) }

func mustCreate(t *testing.T, w *World, team geom.Team, typ unit.Type, l geom.MapLocation) *unit.Unit {
	t.Helper()
	u, err := w.createUnit(team, geom.At(l), typ)
	if err != nil {
		t.Fatalf("createUnit %s %s at %s: %v", team, typ, l, err)
	}
	// Fixtures are laid out before the turn is played.
	w.startTurnSight()
	return u
}

func endTurns(t *testing.T, w *World, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := w.EndTurn(); err != nil {
			t.Fatalf("EndTurn %d: %v", i, err)
		}
	}
}

func checkIndex(t *testing.T, w *World) {
	t.Helper()
	if err := w.CheckIndex(); err != nil {
		t.Fatalf("index: %v", err)
	}
}

func TestNew_PlacesInitialUnits(t *testing.T) {
	w := newTestWorld(t)
	if w.Round() != 1 {
		t.Fatalf("round=%d want 1", w.Round())
	}
	if got := w.Player(); got != (geom.Player{Team: geom.Red, Planet: geom.Earth}) {
		t.Fatalf("player=%v", got)
	}
	if len(w.units) != 2 || len(w.byLoc) != 2 {
		t.Fatalf("units=%d byLoc=%d", len(w.units), len(w.byLoc))
	}
	if w.Karbonite() != w.Tuning().Game.StartingKarbonite {
		t.Fatalf("karbonite=%d", w.Karbonite())
	}
	checkIndex(t, w)
}

func TestNew_RejectsInvalidMap(t *testing.T) {
	tu := tuning.Defaults()
	m := gamemap.TestMap(&tu)
	m.Earth.Width = 3
	w, err := New(m, &tu)
	if !errors.Is(err, gameerr.ErrInvalidMapObject) {
		t.Fatalf("err=%v want InvalidMapObject", err)
	}
	if w != nil {
		t.Fatalf("partial world returned")
	}
}

func TestEndTurn_CyclesPlayers(t *testing.T) {
	w := newTestWorld(t)
	want := geom.Players()
	for i := 0; i < 4; i++ {
		if w.Player() != want[i] {
			t.Fatalf("turn %d: player=%v want %v", i, w.Player(), want[i])
		}
		if w.Round() != 1 {
			t.Fatalf("turn %d: round=%d", i, w.Round())
		}
		endTurns(t, w, 1)
	}
	if w.Player() != want[0] || w.Round() != 2 {
		t.Fatalf("after cycle: player=%v round=%d", w.Player(), w.Round())
	}
}

func TestEndTurn_RoundLimit(t *testing.T) {
	w := newTestWorld(t)
	w.round = w.Tuning().Game.RoundLimit
	w.player = geom.Player{Team: geom.Blue, Planet: geom.Mars}
	before := w.Digest()
	if err := w.EndTurn(); !errors.Is(err, gameerr.ErrInternalEngine) {
		t.Fatalf("err=%v want InternalEngineError", err)
	}
	if w.Digest() != before {
		t.Fatalf("world mutated by failed EndTurn")
	}
}

func TestNextRound_CoolsHeatAndClearsWorkerAction(t *testing.T) {
	w := newTestWorld(t)
	k := mustCreate(t, w, geom.Red, unit.Knight, earth(5, 5))
	if err := w.MoveRobot(k.ID, geom.North); err != nil {
		t.Fatalf("move: %v", err)
	}
	if k.MovementHeat != k.Stats.MovementCooldown {
		t.Fatalf("heat=%d", k.MovementHeat)
	}
	var worker *unit.Unit
	for _, u := range w.units {
		if u.Type == unit.Worker && u.Team == geom.Red {
			worker = u
		}
	}
	worker.Worker.HasActed = true
	endTurns(t, w, 4)
	if want := k.Stats.MovementCooldown - w.Tuning().Game.HeatLossPerRound; k.MovementHeat != want {
		t.Fatalf("heat=%d want %d", k.MovementHeat, want)
	}
	if worker.Worker.HasActed {
		t.Fatalf("worker action not reset")
	}
}

func TestAsteroidStrikeAddsKarbonite(t *testing.T) {
	w := newTestWorld(t)
	rounds := w.weather.Asteroids.Rounds()
	if len(rounds) == 0 {
		t.Fatalf("no asteroids")
	}
	first := rounds[0]
	strike, _ := w.weather.Asteroids.Asteroid(first)
	before, _ := w.KarboniteAt(strike.Location)
	for w.Round() < first {
		endTurns(t, w, 4)
	}
	after, _ := w.KarboniteAt(strike.Location)
	if after-before != strike.Karbonite {
		t.Fatalf("karbonite %d -> %d, strike %d", before, after, strike.Karbonite)
	}
}

func TestDisintegrate(t *testing.T) {
	w := newTestWorld(t)
	k := mustCreate(t, w, geom.Red, unit.Knight, earth(5, 5))
	enemy := mustCreate(t, w, geom.Blue, unit.Knight, earth(7, 7))
	if err := w.Disintegrate(enemy.ID); !errors.Is(err, gameerr.ErrTeamNotAllowed) {
		t.Fatalf("enemy disintegrate err=%v", err)
	}
	if err := w.Disintegrate(k.ID); err != nil {
		t.Fatalf("disintegrate: %v", err)
	}
	if _, err := w.UnitInfo(k.ID); !errors.Is(err, gameerr.ErrNoSuchUnit) {
		t.Fatalf("unit survived: %v", err)
	}
	checkIndex(t, w)
}
