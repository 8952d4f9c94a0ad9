package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	turnlog "battlecode.ai/internal/persistence/log"
	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTurn}

	s.RecordMatch("m1", 1, "map.json")
	_ = s.WriteTurn(turnlog.TurnEntry{MatchID: "m1", Round: 1})
	s.RecordSnapshot("m1", "/tmp/1.snap.zst", snapshot.GameV1{})
	s.RecordResult("m1", 1, "Red", "elimination")

	st := s.Stats()
	if st.DropMatchTotal != 1 || st.DropTurnTotal != 1 || st.DropSnapshotTotal != 1 || st.DropResultTotal != 1 {
		t.Fatalf("unexpected drop stats: %+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_NilIsNoop(t *testing.T) {
	var s *SQLiteIndex
	s.RecordMatch("m1", 1, "")
	if err := s.WriteTurn(turnlog.TurnEntry{}); err != nil {
		t.Fatalf("nil WriteTurn: %v", err)
	}
	s.RecordSnapshot("m1", "", snapshot.GameV1{})
	s.RecordResult("m1", 1, "", "")
	if st := s.Stats(); st != (Stats{}) {
		t.Fatalf("nil stats = %+v", st)
	}
}

func TestSQLiteIndex_WritesAndReads(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	idx.RecordMatch("m1", 6147, "maps/test.json")
	digests := map[geom.Player]string{}
	for round := 1; round <= 2; round++ {
		for _, p := range geom.Players() {
			d := p.String() + "@" + string(rune('0'+round))
			digests[p] = d
			_ = idx.WriteTurn(turnlog.TurnEntry{
				MatchID: "m1",
				Round:   round,
				Player:  p,
				Actions: []protocol.Action{protocol.EndTurn(), protocol.Disintegrate(9)},
				Results: []protocol.ActionResult{{Index: 0, OK: true}, {Index: 1, Code: protocol.ErrNoSuchUnit}},
				Digest:  d,
			})
		}
	}
	snap := snapshot.GameV1{
		Round: 2,
		Units: []unit.Unit{
			{ID: 2, Location: geom.At(geom.NewMapLocation(geom.Earth, 1, 1))},
			{ID: 3, Location: geom.At(geom.NewMapLocation(geom.Mars, 1, 1))},
			{ID: 4, Location: geom.Space()},
		},
	}
	idx.RecordSnapshot("m1", "snapshots/2.snap.zst", snap)
	idx.RecordResult("m1", 2, "Blue", "round limit")
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer r.Close()
	ctx := context.Background()

	matches, err := r.Matches(ctx)
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	m := matches[0]
	if m.MatchID != "m1" || m.Seed != 6147 || m.Winner != "Blue" || m.Reason != "round limit" || m.EndRound != 2 {
		t.Fatalf("unexpected match row: %+v", m)
	}

	turns, err := r.TurnDigests(ctx, "m1")
	if err != nil {
		t.Fatalf("turn digests: %v", err)
	}
	if len(turns) != 8 {
		t.Fatalf("turns = %d, want 8", len(turns))
	}
	order := geom.Players()
	for i, td := range turns {
		p := order[i%4]
		if td.Round != i/4+1 || td.Team != p.Team.String() || td.Planet != p.Planet.String() {
			t.Fatalf("turn %d out of order: %+v", i, td)
		}
	}
	if turns[7].Digest != digests[order[3]] {
		t.Fatalf("last digest = %q, want %q", turns[7].Digest, digests[order[3]])
	}

	sn, ok, err := r.LatestSnapshot(ctx, "m1", -1)
	if err != nil || !ok {
		t.Fatalf("latest snapshot: ok=%v err=%v", ok, err)
	}
	if sn.Round != 2 || sn.Units != 3 || sn.Earth != 1 || sn.Mars != 1 {
		t.Fatalf("unexpected snapshot row: %+v", sn)
	}
	if _, ok, err := r.LatestSnapshot(ctx, "m1", 1); err != nil || ok {
		t.Fatalf("snapshot before round 2: ok=%v err=%v", ok, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sql: %v", err)
	}
	defer db.Close()
	var failed int
	if err := db.QueryRow(`SELECT SUM(failed) FROM turns WHERE match_id = ?`, "m1").Scan(&failed); err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if failed != 8 {
		t.Fatalf("failed actions = %d, want 8", failed)
	}
}

func TestOpenReader_MissingFile(t *testing.T) {
	if _, err := OpenReader(filepath.Join(t.TempDir(), "missing.sqlite")); err == nil {
		t.Fatalf("expected error for missing index")
	}
}

func TestOpenSQLite_RejectsIncompatibleTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sql: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE snapshots (match_id TEXT NOT NULL, round INTEGER NOT NULL, path TEXT NOT NULL)`); err != nil {
		t.Fatalf("create snapshots: %v", err)
	}
	_ = db.Close()

	idx, err := OpenSQLite(dbPath)
	if err == nil {
		_ = idx.Close()
		t.Fatalf("opened an index whose snapshots table lacks unit counts")
	}
}
