package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	tu := Defaults()
	if err := tu.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if tu.Units.Knight.MaxHealth != 250 {
		t.Fatalf("knight max health=%d", tu.Units.Knight.MaxHealth)
	}
	if tu.Game.RocketBlastDamage != 50 {
		t.Fatalf("blast damage=%d", tu.Game.RocketBlastDamage)
	}
	if len(tu.Research.Rocket) == 0 || !tu.Research.Rocket[0].Unlock {
		t.Fatalf("rocketry must be the first rocket research level")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	body := "game:\n  round_limit: 200\nunits:\n  knight:\n    damage: 99\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Game.RoundLimit != 200 {
		t.Fatalf("round_limit=%d", tu.Game.RoundLimit)
	}
	if tu.Units.Knight.Damage != 99 {
		t.Fatalf("knight damage=%d", tu.Units.Knight.Damage)
	}
	// Fields not named in the overlay keep their defaults.
	if tu.Units.Knight.MaxHealth != 250 || tu.Game.StartingKarbonite != 100 {
		t.Fatalf("overlay clobbered defaults: %+v", tu.Units.Knight)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	tu, err := Load("  ")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Game.RoundLimit != Defaults().Game.RoundLimit {
		t.Fatalf("unexpected round limit %d", tu.Game.RoundLimit)
	}
}

func TestParseRejectsBadBands(t *testing.T) {
	if _, err := Parse([]byte("weather:\n  orbit_flight_min: 500\n  orbit_flight_max: 100\n")); err == nil {
		t.Fatalf("expected inverted orbit band to fail")
	}
	if _, err := Parse([]byte("research:\n  knight:\n    - rounds: 0\n")); err == nil {
		t.Fatalf("expected zero-round research level to fail")
	}
	if _, err := Parse([]byte("game: [")); err == nil {
		t.Fatalf("expected yaml syntax error")
	}
}

func TestNormalizeClampsHeat(t *testing.T) {
	tu := Defaults()
	tu.Game.HeatLimit = 0
	tu.Game.BlueprintHealthPercent = 300
	tu.Normalize()
	if tu.Game.HeatLimit != 10 || tu.Game.BlueprintHealthPercent != 25 {
		t.Fatalf("normalize: %+v", tu.Game)
	}
}
