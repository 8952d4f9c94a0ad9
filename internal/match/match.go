// Package match drives one game between four seats: it owns the authoritative
// world, asks each seat for its actions in turn, and records what happened.
package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"battlecode.ai/internal/persistence/archive"
	"battlecode.ai/internal/persistence/indexdb"
	turnlog "battlecode.ai/internal/persistence/log"
	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/world"
)

type Config struct {
	// MatchID defaults to a fresh UUID.
	MatchID       string
	// DataDir holds one directory per match. Empty keeps the match in memory.
	DataDir       string
	// MapPath is recorded in the index only.
	MapPath       string
	// SnapshotEvery writes a snapshot every N rounds; 0 disables periodic snapshots.
	SnapshotEvery int
	// TurnTimeout bounds each Play call; 0 means no deadline.
	TurnTimeout   time.Duration

	Index  *indexdb.SQLiteIndex
	Logger *log.Logger
}

type Runner struct {
	cfg    Config
	id     string
	dir    string
	world  *world.World
	seats  map[geom.Player]Controller
	turns  *turnlog.TurnLogger
	logger *log.Logger
}

// New builds the world for m and prepares the match directory. Seats missing
// from seats are played by Idle.
func New(cfg Config, m gamemap.GameMap, t *tuning.Tuning, seats map[geom.Player]Controller) (*Runner, error) {
	w, err := world.New(m, t)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	id := cfg.MatchID
	if id == "" {
		id = uuid.New().String()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Runner{
		cfg:    cfg,
		id:     id,
		world:  w,
		seats:  map[geom.Player]Controller{},
		logger: logger.With("match", id),
	}
	for _, p := range geom.Players() {
		c, ok := seats[p]
		if !ok || c == nil {
			c = Idle()
		}
		r.seats[p] = c
	}
	if cfg.DataDir != "" {
		r.dir = filepath.Join(cfg.DataDir, id)
		if err := writeMatchFiles(r.dir, m, t); err != nil {
			return nil, fmt.Errorf("match: %w", err)
		}
		r.turns = turnlog.NewTurnLogger(r.dir)
	}
	return r, nil
}

func (r *Runner) ID() string { return r.id }

// Dir is the match directory, or "" for an in-memory match.
func (r *Runner) Dir() string { return r.dir }

// World is the authoritative world. Only safe to use while Run is not running.
func (r *Runner) World() *world.World { return r.world }

// Run plays turns until a team is eliminated, the round limit is reached or
// ctx is canceled. A canceled match is reported as a draw along with ctx's error.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	defer r.closeLog()

	r.cfg.Index.RecordMatch(r.id, r.world.Seed(), r.cfg.MapPath)
	r.logger.Info("match started", "seed", r.world.Seed(), "round_limit", r.world.Tuning().Game.RoundLimit)

	for {
		if err := ctx.Err(); err != nil {
			o, ferr := r.finish(Outcome{Draw: true, Reason: ReasonCanceled})
			return o, errors.Join(err, ferr)
		}

		p := r.world.Player()
		round := r.world.Round()
		seat := r.seats[p]

		actions := r.ask(ctx, seat, p, round)
		results := playTurn(r.world, actions)
		endErr := r.world.EndTurn()

		entry := turnlog.TurnEntry{
			MatchID: r.id,
			Round:   round,
			Player:  p,
			Actions: actions,
			Results: results,
			Digest:  r.world.Digest(),
		}
		if r.turns != nil {
			if err := r.turns.WriteTurn(entry); err != nil {
				return Outcome{MatchID: r.id, Round: round, Draw: true}, fmt.Errorf("match: write turn: %w", err)
			}
		}
		_ = r.cfg.Index.WriteTurn(entry)
		seat.Results(round, results)

		if endErr != nil {
			return r.finish(atRoundLimit(r.world))
		}
		if o, done := eliminated(r.world); done {
			return r.finish(o)
		}
		if next := r.world.Round(); next != round && r.cfg.SnapshotEvery > 0 && next%r.cfg.SnapshotEvery == 0 {
			if err := r.snapshot(); err != nil {
				r.logger.Warn("snapshot failed", "round", next, "err", err)
			}
		}
	}
}

func (r *Runner) ask(ctx context.Context, seat Controller, p geom.Player, round int) []protocol.Action {
	tctx := ctx
	if r.cfg.TurnTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, r.cfg.TurnTimeout)
		defer cancel()
	}
	actions, err := seat.Play(tctx, TurnRequest{
		MatchID: r.id,
		Round:   round,
		Player:  p,
		View:    r.world.Filter(),
	})
	if err != nil {
		r.logger.Warn("turn forfeited", "player", p, "round", round, "err", err)
		return nil
	}
	return actions
}

// playTurn applies actions for the seat to move and reports one result per
// action processed. END_TURN stops processing; the caller ends the turn.
func playTurn(w *world.World, actions []protocol.Action) []protocol.ActionResult {
	results := make([]protocol.ActionResult, 0, len(actions))
	for i, a := range actions {
		if a.Type == protocol.ActEndTurn {
			results = append(results, protocol.ActionResult{Index: i, OK: true})
			break
		}
		err := w.Apply(a)
		res := protocol.ActionResult{Index: i, OK: err == nil}
		if err != nil {
			res.Code = protocol.CodeFor(err)
			res.Message = err.Error()
		}
		results = append(results, res)
	}
	return results
}

// snapshot writes a resumable snapshot named for the round and indexes it.
// Periodic snapshots are taken at the start of a round, before any seat moves.
func (r *Runner) snapshot() error {
	if r.dir == "" {
		return nil
	}
	snap := r.world.ExportSnapshot()
	snap.Header.MatchID = r.id
	path := filepath.Join(r.dir, "snapshots", fmt.Sprintf("%d.snap.zst", snap.Round))
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		return err
	}
	r.cfg.Index.RecordSnapshot(r.id, path, snap)
	r.logger.Debug("snapshot written", "round", snap.Round, "path", path)
	return nil
}

// finalSnapshot records the end state. After a round-limit finish the last
// seat has already moved, so it is not a replay starting point and stays out
// of the index.
func (r *Runner) finalSnapshot(o Outcome) error {
	snap := r.world.ExportSnapshot()
	snap.Header.MatchID = r.id
	path := filepath.Join(r.dir, "snapshots", "final.snap.zst")
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		return err
	}
	_, err := archive.ArchiveFinalSnapshot(r.dir, path, snap, o.WinnerName(), o.Reason, o.Digest)
	return err
}

func (r *Runner) finish(o Outcome) (Outcome, error) {
	o.MatchID = r.id
	o.Round = r.world.Round()
	o.Digest = r.world.Digest()

	var err error
	if r.dir != "" {
		if err = r.finalSnapshot(o); err != nil {
			r.logger.Error("final snapshot failed", "err", err)
		}
	}
	r.cfg.Index.RecordResult(r.id, o.Round, o.WinnerName(), o.Reason)

	for _, p := range geom.Players() {
		r.seats[p].End(o)
	}
	if o.Draw {
		r.logger.Info("match ended in a draw", "round", o.Round, "reason", o.Reason)
	} else {
		r.logger.Info("match ended", "round", o.Round, "winner", o.Winner, "reason", o.Reason)
	}
	return o, err
}

func (r *Runner) closeLog() {
	if r.turns == nil {
		return
	}
	if err := r.turns.Close(); err != nil {
		r.logger.Warn("close turn log", "err", err)
	}
}
