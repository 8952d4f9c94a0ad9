package combat

import (
	"testing"

	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func TestDamage(t *testing.T) {
	cases := []struct {
		attack  int
		target  unit.Type
		defense int
		want    int
	}{
		{80, unit.Ranger, 5, 80},
		{80, unit.Knight, 5, 75},
		{3, unit.Knight, 10, 0},
	}
	for _, c := range cases {
		if got := Damage(c.attack, c.target, c.defense); got != c.want {
			t.Fatalf("Damage(%d,%v,%d)=%d want %d", c.attack, c.target, c.defense, got, c.want)
		}
	}
}

func TestInRange(t *testing.T) {
	a := geom.NewMapLocation(geom.Earth, 0, 0)
	if !InRange(a, geom.NewMapLocation(geom.Earth, 3, 0), 0, 9) {
		t.Fatalf("distance 9 within 9")
	}
	if InRange(a, geom.NewMapLocation(geom.Earth, 3, 1), 0, 9) {
		t.Fatalf("distance 10 outside 9")
	}
	if InRange(a, geom.NewMapLocation(geom.Earth, 1, 1), 10, 50) {
		t.Fatalf("inside minimum range")
	}
	if InRange(a, geom.NewMapLocation(geom.Mars, 1, 0), 0, 50) {
		t.Fatalf("cross-planet attack")
	}
}

func TestSplash(t *testing.T) {
	c := geom.NewMapLocation(geom.Mars, 4, 4)
	bounds := geom.Rect{MaxX: 20, MaxY: 20}
	s := Splash(c, 2, bounds)
	if len(s) != 9 || s[0] != c {
		t.Fatalf("Splash=%v", s)
	}
	corner := Splash(geom.NewMapLocation(geom.Mars, 0, 0), 2, bounds)
	if len(corner) != 4 {
		t.Fatalf("corner splash=%v", corner)
	}
}
