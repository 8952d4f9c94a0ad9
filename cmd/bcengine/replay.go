package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"battlecode.ai/internal/match"
	"battlecode.ai/internal/persistence/indexdb"
	"battlecode.ai/internal/persistence/snapshot"
)

var replayFlags struct {
	snapshot   string
	fromLatest bool
	indexDB    string
}

var replayCmd = &cobra.Command{
	Use:   "replay <match-dir>",
	Short: "Re-run a recorded match and verify every post-turn digest",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayFlags.snapshot, "snapshot", "", "start from this snapshot instead of the stored map")
	f.BoolVar(&replayFlags.fromLatest, "from-latest", false, "start from the newest snapshot the index knows for this match")
	f.StringVar(&replayFlags.indexDB, "index-db", "", "sqlite index to cross-check digests against (optional)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	dir := args[0]
	matchID := filepath.Base(filepath.Clean(dir))
	out := cmd.OutOrStdout()
	ctx := context.Background()

	var rd *indexdb.Reader
	if replayFlags.indexDB != "" {
		var err error
		if rd, err = indexdb.OpenReader(replayFlags.indexDB); err != nil {
			return fmt.Errorf("open index db: %w", err)
		}
		defer rd.Close()
	}

	from := replayFlags.snapshot
	if replayFlags.fromLatest {
		if rd == nil {
			return errors.New("--from-latest needs --index-db")
		}
		row, ok, err := rd.LatestSnapshot(ctx, matchID, -1)
		if err != nil {
			return err
		}
		if ok {
			from = row.Path
		}
	}
	if from != "" {
		h, err := snapshot.ReadHeader(from)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		fmt.Fprintf(out, "snapshot v%d match=%s round=%d player=%s\n", h.Version, h.MatchID, h.Round, h.Player)
	}

	checked, err := match.ReplayDir(dir, from)
	if err != nil {
		var div *match.DivergenceError
		if errors.As(err, &div) {
			fmt.Fprintf(os.Stderr, "diverged at round %d %s\n", div.Round, div.Player)
		}
		return fmt.Errorf("replay: %w", err)
	}
	fmt.Fprintf(out, "replay ok: checked=%d turns\n", checked)

	if rd != nil {
		n, err := match.CheckIndex(ctx, rd, matchID, dir)
		if err != nil {
			return fmt.Errorf("index: %w", err)
		}
		fmt.Fprintf(out, "index ok: compared=%d turns\n", n)
	}
	return nil
}
