package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"battlecode.ai/internal/persistence/indexdb"
)

var matchesIndexDB string

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List matches recorded in the index db",
	RunE:  runMatches,
}

func init() {
	matchesCmd.Flags().StringVar(&matchesIndexDB, "index-db", "./data/index/index.sqlite", "sqlite index path")
}

func runMatches(cmd *cobra.Command, args []string) error {
	rd, err := indexdb.OpenReader(matchesIndexDB)
	if err != nil {
		return err
	}
	defer rd.Close()
	rows, err := rd.Matches(context.Background())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No matches recorded.")
		return nil
	}

	idLen := len("MATCH")
	for _, r := range rows {
		idLen = max(idLen, len(r.MatchID))
	}
	fmt.Fprintf(out, "%-*s  %-20s  %-6s  %-12s  %s\n", idLen, "MATCH", "CREATED", "WINNER", "REASON", "ROUND")
	for _, r := range rows {
		winner := r.Winner
		if winner == "" && r.Reason != "" {
			winner = "draw"
		}
		fmt.Fprintf(out, "%-*s  %-20s  %-6s  %-12s  %d\n", idLen, r.MatchID, r.CreatedAt, winner, r.Reason, r.EndRound)
	}
	return nil
}
