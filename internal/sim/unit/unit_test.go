package unit

import (
	"testing"

	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
)

func TestNewAppliesResearchLevel(t *testing.T) {
	tu := tuning.Defaults()
	loc := geom.At(geom.NewMapLocation(geom.Earth, 1, 1))
	k0 := New(1, geom.Red, Knight, loc, 0, &tu)
	k2 := New(2, geom.Red, Knight, loc, 2, &tu)
	if k0.Stats.Defense != tu.Units.Knight.Defense {
		t.Fatalf("level 0 defense=%d", k0.Stats.Defense)
	}
	want := tu.Units.Knight.Defense + tu.Research.Knight[0].Delta.Defense + tu.Research.Knight[1].Delta.Defense
	if k2.Stats.Defense != want || k2.Level != 2 {
		t.Fatalf("level 2 defense=%d level=%d want %d", k2.Stats.Defense, k2.Level, want)
	}
	if k2.Health != k2.MaxHealth() {
		t.Fatalf("new unit must be at full health")
	}
	if k2.Unlocked {
		t.Fatalf("javelin unlocks at level 3")
	}
	k2.ResearchUp(&tu)
	if !k2.Unlocked || k2.Level != 3 {
		t.Fatalf("javelin should be unlocked at level 3")
	}
	k2.ResearchUp(&tu)
	if k2.Level != 3 {
		t.Fatalf("research past the ladder top changed level to %d", k2.Level)
	}
}

func TestHeatReadiness(t *testing.T) {
	tu := tuning.Defaults()
	limit := tu.Game.HeatLimit
	k := New(1, geom.Red, Knight, geom.At(geom.NewMapLocation(geom.Earth, 1, 1)), 0, &tu)
	if !k.IsMoveReady(limit) {
		t.Fatalf("fresh knight should be move ready")
	}
	k.UseMove()
	if k.IsMoveReady(limit) {
		t.Fatalf("knight with heat %d should not be ready", k.MovementHeat)
	}
	k.NextRound(tu.Game.HeatLossPerRound)
	if !k.IsMoveReady(limit) {
		t.Fatalf("knight with heat %d should be ready after a round", k.MovementHeat)
	}
	k.NextRound(tu.Game.HeatLossPerRound)
	if k.MovementHeat != 0 {
		t.Fatalf("heat must floor at zero, got %d", k.MovementHeat)
	}
	f := New(2, geom.Red, Factory, geom.At(geom.NewMapLocation(geom.Earth, 3, 3)), 0, &tu)
	if f.IsMoveReady(limit) {
		t.Fatalf("structures never move")
	}
}

func TestGarrisonFIFO(t *testing.T) {
	tu := tuning.Defaults()
	r := New(1, geom.Red, Rocket, geom.At(geom.NewMapLocation(geom.Earth, 3, 3)), 0, &tu)
	for i := geom.UnitID(10); i < 13; i++ {
		r.PushGarrison(i)
	}
	c := r.Clone()
	for want := geom.UnitID(10); want < 13; want++ {
		got, ok := r.PopGarrison()
		if !ok || got != want {
			t.Fatalf("pop got %d,%v want %d", got, ok, want)
		}
	}
	if _, ok := r.PopGarrison(); ok {
		t.Fatalf("empty garrison popped")
	}
	if len(c.Structure.Garrison) != 3 {
		t.Fatalf("clone aliased the garrison: %v", c.Structure.Garrison)
	}
}

func TestTickProduction(t *testing.T) {
	tu := tuning.Defaults()
	f := New(1, geom.Blue, Factory, geom.At(geom.NewMapLocation(geom.Earth, 3, 3)), 0, &tu)
	f.Structure.Production = &Production{Type: Ranger, RoundsLeft: 2}
	if _, done := f.TickProduction(); done {
		t.Fatalf("finished one round early")
	}
	typ, done := f.TickProduction()
	if !done || typ != Ranger {
		t.Fatalf("got %v,%v", typ, done)
	}
}

func TestTypeText(t *testing.T) {
	for _, typ := range Types() {
		b, err := typ.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", typ, err)
		}
		var back Type
		if err := back.UnmarshalText(b); err != nil || back != typ {
			t.Fatalf("round trip %v: %v %v", typ, back, err)
		}
	}
	if !Knight.IsRobot() || Knight.IsStructure() || !Rocket.IsStructure() {
		t.Fatalf("robot/structure classification wrong")
	}
}
