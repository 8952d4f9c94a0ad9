// bcengine runs and checks two-planet matches.
//
// Usage:
//
//	bcengine serve          - host one match over websockets
//	bcengine bot            - play a seat of a remote match with the built-in bot
//	bcengine replay <dir>   - re-run a recorded match and verify every digest
//	bcengine matches        - list matches recorded in the index db
//	bcengine validate-map   - schema and structural checks for map files
//	bcengine gen-map        - write a generated symmetric map
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
)

var (
	flagTuning string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "bcengine",
	Short:         "Two-team, two-planet match engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTuning, "tuning", "", "path to tuning.yaml (default: built-in tuning)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging")
	rootCmd.AddCommand(serveCmd, botCmd, replayCmd, matchesCmd, validateMapCmd, genMapCmd)
}

func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func loadTuning() (tuning.Tuning, error) {
	if strings.TrimSpace(flagTuning) == "" {
		return tuning.Defaults(), nil
	}
	t, err := tuning.Load(flagTuning)
	if err != nil {
		return t, fmt.Errorf("load tuning: %w", err)
	}
	return t, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// parsePlayer accepts "red-earth", "Red/Earth" and similar.
func parsePlayer(s string) (geom.Player, error) {
	team, planet, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		team, planet, ok = strings.Cut(s, "/")
	}
	if !ok {
		return geom.Player{}, fmt.Errorf("seat %q: want <team>-<planet>", s)
	}
	var p geom.Player
	if err := p.Team.UnmarshalText([]byte(strings.ToLower(team))); err != nil {
		return p, fmt.Errorf("seat %q: %w", s, err)
	}
	if err := p.Planet.UnmarshalText([]byte(strings.ToLower(planet))); err != nil {
		return p, fmt.Errorf("seat %q: %w", s, err)
	}
	return p, nil
}
