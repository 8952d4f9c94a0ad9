package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	turnlog "battlecode.ai/internal/persistence/log"
	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/sim/geom"
)

// SQLiteIndex is a secondary, queryable copy of what the turn log and the
// snapshot files already hold. Writes are queued and applied by one goroutine;
// when the queue is full they are dropped and counted.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropMatch    atomic.Uint64
	dropTurn     atomic.Uint64
	dropSnapshot atomic.Uint64
	dropResult   atomic.Uint64
}

type reqKind int

const (
	reqMatch reqKind = iota + 1
	reqTurn
	reqSnapshot
	reqResult
)

type req struct {
	kind reqKind

	match    MatchRow
	turn     turnlog.TurnEntry
	snapshot SnapshotRow
	result   resultRow
}

// MatchRow is one match as recorded when it starts and updated when it ends.
type MatchRow struct {
	MatchID   string
	Seed      uint64
	MapPath   string
	CreatedAt string
	Winner    string
	Reason    string
	EndRound  int
}

type SnapshotRow struct {
	MatchID string
	Round   int
	Path    string
	Units   int
	Infos   int
	Earth   int
	Mars    int
}

type resultRow struct {
	MatchID string
	Round   int
	Winner  string
	Reason  string
	EndedAt string
}

// TurnDigest is the per-turn digest as indexed, in play order.
type TurnDigest struct {
	Round  int
	Team   string
	Planet string
	Digest string
}

type Stats struct {
	QueueDepth        int
	QueueCapacity     int
	DropMatchTotal    uint64
	DropTurnTotal     uint64
	DropSnapshotTotal uint64
	DropResultTotal   uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	st, err := prepareStatements(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// A match is a few thousand turns; the runner should never wait on the index.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(st)
	}()
	return s, nil
}

func openDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only workload; NORMAL is enough for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			match_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			map_path TEXT NOT NULL,
			created_at TEXT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			end_round INTEGER NOT NULL DEFAULT 0,
			ended_at TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			match_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			team TEXT NOT NULL,
			planet TEXT NOT NULL,
			digest TEXT NOT NULL,
			actions INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (match_id, round, team, planet)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_match_digest ON turns(match_id, digest);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			match_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			path TEXT NOT NULL,
			units INTEGER NOT NULL,
			infos INTEGER NOT NULL,
			earth_units INTEGER NOT NULL,
			mars_units INTEGER NOT NULL,
			PRIMARY KEY (match_id, round)
		);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains the queue, commits and closes the database.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:        len(s.ch),
		QueueCapacity:     cap(s.ch),
		DropMatchTotal:    s.dropMatch.Load(),
		DropTurnTotal:     s.dropTurn.Load(),
		DropSnapshotTotal: s.dropSnapshot.Load(),
		DropResultTotal:   s.dropResult.Load(),
	}
}

func (s *SQLiteIndex) enqueue(r req, drops *atomic.Uint64) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		// Dropped; the turn log remains the source of truth.
		drops.Add(1)
	}
}

func (s *SQLiteIndex) RecordMatch(matchID string, seed uint64, mapPath string) {
	if s == nil {
		return
	}
	s.enqueue(req{kind: reqMatch, match: MatchRow{
		MatchID:   matchID,
		Seed:      seed,
		MapPath:   mapPath,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}}, &s.dropMatch)
}

// WriteTurn has the turn logger's signature so the runner can write to both.
func (s *SQLiteIndex) WriteTurn(e turnlog.TurnEntry) error {
	if s == nil {
		return nil
	}
	s.enqueue(req{kind: reqTurn, turn: e}, &s.dropTurn)
	return nil
}

func (s *SQLiteIndex) RecordSnapshot(matchID, path string, snap snapshot.GameV1) {
	if s == nil {
		return
	}
	r := SnapshotRow{
		MatchID: matchID,
		Round:   snap.Round,
		Path:    path,
		Units:   len(snap.Units),
		Infos:   len(snap.Infos),
	}
	for _, u := range snap.Units {
		switch {
		case u.Location.IsOnPlanet(geom.Earth):
			r.Earth++
		case u.Location.IsOnPlanet(geom.Mars):
			r.Mars++
		}
	}
	s.enqueue(req{kind: reqSnapshot, snapshot: r}, &s.dropSnapshot)
}

func (s *SQLiteIndex) RecordResult(matchID string, round int, winner, reason string) {
	if s == nil {
		return
	}
	s.enqueue(req{kind: reqResult, result: resultRow{
		MatchID: matchID,
		Round:   round,
		Winner:  winner,
		Reason:  reason,
		EndedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}}, &s.dropResult)
}

type statements struct {
	insertMatch    *sql.Stmt
	insertTurn     *sql.Stmt
	insertSnapshot *sql.Stmt
	updateResult   *sql.Stmt
}

// prepareStatements fails when an existing database carries tables the
// writer cannot insert into.
func prepareStatements(db *sql.DB) (*statements, error) {
	st := &statements{}
	for _, p := range []struct {
		dst   **sql.Stmt
		query string
	}{
		{&st.insertMatch, `INSERT OR IGNORE INTO matches(match_id,seed,map_path,created_at) VALUES(?,?,?,?)`},
		{&st.insertTurn, `INSERT OR REPLACE INTO turns(match_id,round,team,planet,digest,actions,failed,raw_json) VALUES(?,?,?,?,?,?,?,?)`},
		{&st.insertSnapshot, `INSERT OR REPLACE INTO snapshots(match_id,round,path,units,infos,earth_units,mars_units) VALUES(?,?,?,?,?,?,?)`},
		{&st.updateResult, `UPDATE matches SET winner=?, reason=?, end_round=?, ended_at=? WHERE match_id=?`},
	} {
		stmt, err := db.Prepare(p.query)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("prepare index statement: %w", err)
		}
		*p.dst = stmt
	}
	return st, nil
}

func (st *statements) close() {
	for _, s := range []*sql.Stmt{st.insertMatch, st.insertTurn, st.insertSnapshot, st.updateResult} {
		if s != nil {
			_ = s.Close()
		}
	}
}

func (s *SQLiteIndex) loop(st *statements) {
	ctx := context.Background()
	defer st.close()
	insertMatch, insertTurn, insertSnapshot, updateResult := st.insertMatch, st.insertTurn, st.insertSnapshot, st.updateResult

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) {
		if st == nil || tx == nil {
			return
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return
		}
		opCount++
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqMatch:
			m := r.match
			exec(insertMatch, m.MatchID, int64(m.Seed), m.MapPath, m.CreatedAt)

		case reqTurn:
			e := r.turn
			raw, _ := json.Marshal(e)
			failed := 0
			for _, res := range e.Results {
				if !res.OK {
					failed++
				}
			}
			exec(insertTurn,
				e.MatchID,
				e.Round,
				e.Player.Team.String(),
				e.Player.Planet.String(),
				e.Digest,
				len(e.Actions),
				failed,
				string(raw),
			)

		case reqSnapshot:
			sn := r.snapshot
			exec(insertSnapshot, sn.MatchID, sn.Round, sn.Path, sn.Units, sn.Infos, sn.Earth, sn.Mars)

		case reqResult:
			res := r.result
			exec(updateResult, res.Winner, res.Reason, res.Round, res.EndedAt, res.MatchID)
			// A result closes out its match.
			commit()
			continue
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}

// Reader queries an index file written by SQLiteIndex, typically after the
// writer is closed or from another process.
type Reader struct {
	db *sql.DB
}

func OpenReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error { return r.db.Close() }

func (r *Reader) Matches(ctx context.Context) ([]MatchRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT match_id,seed,map_path,created_at,winner,reason,end_round FROM matches ORDER BY created_at, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MatchRow
	for rows.Next() {
		var (
			m    MatchRow
			seed int64
		)
		if err := rows.Scan(&m.MatchID, &seed, &m.MapPath, &m.CreatedAt, &m.Winner, &m.Reason, &m.EndRound); err != nil {
			return nil, err
		}
		m.Seed = uint64(seed)
		out = append(out, m)
	}
	return out, rows.Err()
}

// TurnDigests returns the indexed digests of a match in play order.
func (r *Reader) TurnDigests(ctx context.Context, matchID string) ([]TurnDigest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT round,team,planet,digest FROM turns WHERE match_id = ?
		ORDER BY round,
			CASE planet WHEN 'Earth' THEN 0 ELSE 1 END,
			CASE team WHEN 'Red' THEN 0 ELSE 1 END`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TurnDigest
	for rows.Next() {
		var d TurnDigest
		if err := rows.Scan(&d.Round, &d.Team, &d.Planet, &d.Digest); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LatestSnapshot returns the newest snapshot at or before round; a negative
// round means any.
func (r *Reader) LatestSnapshot(ctx context.Context, matchID string, round int) (SnapshotRow, bool, error) {
	q := `SELECT round,path,units,infos,earth_units,mars_units FROM snapshots WHERE match_id = ?`
	args := []any{matchID}
	if round >= 0 {
		q += ` AND round <= ?`
		args = append(args, round)
	}
	q += ` ORDER BY round DESC LIMIT 1`

	sn := SnapshotRow{MatchID: matchID}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&sn.Round, &sn.Path, &sn.Units, &sn.Infos, &sn.Earth, &sn.Mars)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotRow{}, false, nil
	}
	if err != nil {
		return SnapshotRow{}, false, err
	}
	return sn, true, nil
}
