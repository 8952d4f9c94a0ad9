package world

import (
	"errors"
	"testing"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func filterFixture(t *testing.T) (*World, map[string]*unit.Unit) {
	t.Helper()
	w := newTestWorld(t)
	us := map[string]*unit.Unit{
		"knight":      mustCreate(t, w, geom.Red, unit.Knight, earth(5, 5)),
		"seenEnemy":   mustCreate(t, w, geom.Blue, unit.Ranger, earth(7, 5)),
		"hiddenEnemy": mustCreate(t, w, geom.Blue, unit.Mage, earth(5, 17)),
		"onMars":      mustCreate(t, w, geom.Red, unit.Knight, mars(4, 4)),
		"rocket":      mustCreate(t, w, geom.Red, unit.Rocket, earth(10, 10)),
		"cargo":       mustCreate(t, w, geom.Red, unit.Healer, earth(10, 11)),
		"flying":      mustCreate(t, w, geom.Red, unit.Rocket, earth(14, 14)),
	}
	if err := w.Garrison(us["rocket"].ID, us["cargo"].ID); err != nil {
		t.Fatalf("garrison: %v", err)
	}
	if err := w.LaunchRocket(us["flying"].ID, mars(1, 1)); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := w.WriteTeamArray(3, 9); err != nil {
		t.Fatalf("team array: %v", err)
	}
	return w, us
}

func TestFilter_Contents(t *testing.T) {
	w, us := filterFixture(t)
	f := w.Filter()

	if !f.IsFiltered() || w.IsFiltered() {
		t.Fatalf("filtered flags: f=%v w=%v", f.IsFiltered(), w.IsFiltered())
	}
	for _, name := range []string{"knight", "rocket", "cargo"} {
		if _, ok := f.units[us[name].ID]; !ok {
			t.Fatalf("%s missing from filtered units", name)
		}
	}
	if _, ok := f.units[us["onMars"].ID]; ok {
		t.Fatalf("unit on the other planet kept")
	}
	if _, ok := f.infos[us["seenEnemy"].ID]; !ok {
		t.Fatalf("visible enemy not in infos")
	}
	if _, ok := f.infos[us["hiddenEnemy"].ID]; ok {
		t.Fatalf("hidden enemy leaked")
	}
	if f.CanSenseLocation(earth(5, 17)) {
		t.Fatalf("senses a square nobody sees")
	}
	if _, ok := f.teams[geom.Blue]; ok {
		t.Fatalf("opponent team aggregate kept")
	}
	if got := f.TeamArray(geom.Earth)[3]; got != 9 {
		t.Fatalf("team array[3]=%d", got)
	}
	if _, ok := f.units[us["flying"].ID]; !ok {
		t.Fatalf("rocket in flight missing from filtered units")
	}
	if got, want := f.RocketLandings(), w.RocketLandings(); len(got) != 1 || len(got) != len(want) {
		t.Fatalf("landings=%v want %v", got, want)
	}
	for l, id := range f.byLoc {
		if f.units[id].Team != geom.Red {
			t.Fatalf("index holds foreign unit at %s", l)
		}
	}
	checkIndex(t, f)
}

func TestFilter_Idempotent(t *testing.T) {
	w, _ := filterFixture(t)
	for i := 0; i < 4; i++ {
		f := w.Filter()
		ff := f.Filter()
		if f.Digest() != ff.Digest() {
			t.Fatalf("player %v: filter not idempotent", w.Player())
		}
		want := 0
		if w.Team() == geom.Red {
			want = 1
		}
		if len(f.landings) != want || len(ff.landings) != want {
			t.Fatalf("player %v: landings %v then %v", w.Player(), f.landings, ff.landings)
		}
		endTurns(t, w, 1)
	}
}

func TestFilter_IsolatedFromWorld(t *testing.T) {
	w, us := filterFixture(t)
	before := w.Digest()
	f := w.Filter()
	if err := f.MoveRobot(us["knight"].ID, geom.North); err != nil {
		t.Fatalf("replica move: %v", err)
	}
	f.units[us["rocket"].ID].Structure.Garrison = nil
	if w.Digest() != before {
		t.Fatalf("mutating the filtered copy changed the world")
	}
}

func TestFilter_LandingsOfOpponentDropped(t *testing.T) {
	w := newTestWorld(t)
	enemy := mustCreate(t, w, geom.Blue, unit.Rocket, earth(12, 12))
	if err := func() error {
		w.player = geom.Player{Team: geom.Blue, Planet: geom.Earth}
		defer func() { w.player = geom.Player{Team: geom.Red, Planet: geom.Earth} }()
		return w.LaunchRocket(enemy.ID, mars(6, 6))
	}(); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if len(w.Filter().landings) != 0 {
		t.Fatalf("opponent landing visible")
	}
}

// The authoritative world must answer the player to move exactly as that
// player's filtered view does, so actions never reveal units out of sight.
func TestSensing_AuthoritativeAgreesWithView(t *testing.T) {
	w := newTestWorld(t)
	r := mustCreate(t, w, geom.Red, unit.Ranger, earth(3, 3))
	seen := mustCreate(t, w, geom.Blue, unit.Worker, earth(7, 3))
	hidden := mustCreate(t, w, geom.Blue, unit.Knight, earth(3, 18))
	away := mustCreate(t, w, geom.Red, unit.Knight, mars(4, 4))
	before := w.Digest()

	views := map[string]*World{"authoritative": w, "filtered": w.Filter()}
	for name, v := range views {
		if v.CanSenseUnit(hidden.ID) || v.CanSenseLocation(earth(3, 18)) {
			t.Fatalf("%s: senses the hidden knight", name)
		}
		if !v.CanSenseUnit(seen.ID) {
			t.Fatalf("%s: lost the visible worker", name)
		}
		if err := v.Attack(r.ID, hidden.ID); !errors.Is(err, gameerr.ErrNoSuchUnit) {
			t.Fatalf("%s: attack hidden err=%v", name, err)
		}
		if _, err := v.UnitInfo(hidden.ID); !errors.Is(err, gameerr.ErrNoSuchUnit) {
			t.Fatalf("%s: info hidden err=%v", name, err)
		}
		if err := v.Disintegrate(hidden.ID); !errors.Is(err, gameerr.ErrNoSuchUnit) {
			t.Fatalf("%s: disintegrate hidden err=%v", name, err)
		}
		if _, _, err := v.SenseUnitAtLocation(earth(3, 18)); !errors.Is(err, gameerr.ErrInvalidLocation) {
			t.Fatalf("%s: sense hidden square err=%v", name, err)
		}
		if err := v.Disintegrate(seen.ID); !errors.Is(err, gameerr.ErrTeamNotAllowed) {
			t.Fatalf("%s: disintegrate visible enemy err=%v", name, err)
		}
		if _, err := v.Unit(away.ID); !errors.Is(err, gameerr.ErrNoSuchUnit) {
			t.Fatalf("%s: unit on the other planet err=%v", name, err)
		}
		if len(v.SenseNearbyUnitsByTeam(earth(3, 10), 100, geom.Blue)) != 1 {
			t.Fatalf("%s: nearby enemies %v", name, v.SenseNearbyUnitsByTeam(earth(3, 10), 100, geom.Blue))
		}
	}
	if w.Digest() != before {
		t.Fatalf("rejected actions mutated the world")
	}

	// Sight is fixed for the turn: walking towards the knight does not reveal it.
	if err := w.MoveRobot(r.ID, geom.North); err != nil {
		t.Fatalf("move: %v", err)
	}
	if w.CanSenseUnit(hidden.ID) {
		t.Fatalf("sight widened mid-turn")
	}
}
