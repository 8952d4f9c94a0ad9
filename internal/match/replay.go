package match

import (
	"context"
	"fmt"

	"battlecode.ai/internal/persistence/indexdb"
	turnlog "battlecode.ai/internal/persistence/log"
	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/world"
)

// DivergenceError is the first turn whose replayed digest differs from the log.
type DivergenceError struct {
	Round  int
	Player geom.Player
	Want   string
	Got    string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("digest mismatch at round %d %s: got=%s want=%s", e.Round, e.Player, e.Got, e.Want)
}

// Replay re-applies logged turns to w and checks each post-turn digest. Turns
// before w's current round and seat are skipped, so w may come from a snapshot.
// It returns the number of turns verified.
func Replay(w *world.World, entries []turnlog.TurnEntry) (int, error) {
	checked := 0
	for _, e := range entries {
		if before(e.Round, e.Player, w.Round(), w.Player()) {
			continue
		}
		if e.Round != w.Round() || e.Player != w.Player() {
			return checked, fmt.Errorf("turn order mismatch: log has round %d %s, world is at round %d %s",
				e.Round, e.Player, w.Round(), w.Player())
		}
		playTurn(w, e.Actions)
		if err := w.EndTurn(); err != nil && gameerr.CodeOf(err) != gameerr.CodeInternalEngine {
			return checked, fmt.Errorf("round %d %s: end turn: %w", e.Round, e.Player, err)
		}
		checked++
		if got := w.Digest(); got != e.Digest {
			return checked, &DivergenceError{Round: e.Round, Player: e.Player, Want: e.Digest, Got: got}
		}
	}
	return checked, nil
}

// ReplayDir verifies a whole match directory. With fromSnapshot set, replay
// starts from that snapshot instead of the stored map.
func ReplayDir(dir, fromSnapshot string) (int, error) {
	m, t, err := LoadMatchFiles(dir)
	if err != nil {
		return 0, err
	}
	var w *world.World
	if fromSnapshot != "" {
		w, err = worldFromSnapshot(fromSnapshot, &t)
	} else {
		w, err = world.New(m, &t)
	}
	if err != nil {
		return 0, err
	}
	entries, err := turnlog.ReadTurns(dir)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("no turns logged in %s", dir)
	}
	return Replay(w, entries)
}

func worldFromSnapshot(path string, t *tuning.Tuning) (*world.World, error) {
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		return nil, err
	}
	if snap.Filtered {
		return nil, fmt.Errorf("%s: replay needs an unfiltered snapshot", path)
	}
	return world.ImportSnapshot(snap, t)
}

// CheckIndex compares the digests the index holds for matchID with the turn
// log in dir. The index is written best-effort, so turns it lacks are not an
// error; a digest that disagrees is. It returns the number of turns compared.
func CheckIndex(ctx context.Context, rd *indexdb.Reader, matchID, dir string) (int, error) {
	entries, err := turnlog.ReadTurns(dir)
	if err != nil {
		return 0, err
	}
	logged := make(map[string]turnlog.TurnEntry, len(entries))
	for _, e := range entries {
		logged[turnKey(e.Round, e.Player.Team.String(), e.Player.Planet.String())] = e
	}
	rows, err := rd.TurnDigests(ctx, matchID)
	if err != nil {
		return 0, err
	}
	compared := 0
	for _, row := range rows {
		e, ok := logged[turnKey(row.Round, row.Team, row.Planet)]
		if !ok {
			return compared, fmt.Errorf("index has round %d %s/%s, turn log does not", row.Round, row.Team, row.Planet)
		}
		if e.Digest != row.Digest {
			return compared, &DivergenceError{Round: row.Round, Player: e.Player, Want: e.Digest, Got: row.Digest}
		}
		compared++
	}
	return compared, nil
}

func turnKey(round int, team, planet string) string {
	return fmt.Sprintf("%d/%s/%s", round, team, planet)
}

func seatIndex(p geom.Player) int {
	for i, q := range geom.Players() {
		if q == p {
			return i
		}
	}
	return -1
}

func before(round int, p geom.Player, curRound int, cur geom.Player) bool {
	if round != curRound {
		return round < curRound
	}
	return seatIndex(p) < seatIndex(cur)
}
