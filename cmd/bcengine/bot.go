package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"battlecode.ai/internal/match"
	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/transport/ws"
)

var botFlags struct {
	url  string
	seat string
	key  string
	name string
	lz4  bool
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Play one seat of a served match with the built-in bot",
	RunE:  runBot,
}

func init() {
	f := botCmd.Flags()
	f.StringVar(&botFlags.url, "url", "ws://127.0.0.1:8080/v1/ws", "match websocket url")
	f.StringVar(&botFlags.seat, "seat", "red-earth", "seat to take, <team>-<planet>")
	f.StringVar(&botFlags.key, "key", "", "seat key")
	f.StringVar(&botFlags.name, "name", "harvester", "player name sent in HELLO")
	f.BoolVar(&botFlags.lz4, "lz4", true, "ask for lz4 TURN frames")
}

func runBot(cmd *cobra.Command, args []string) error {
	logger := newLogger("bot")
	tu, err := loadTuning()
	if err != nil {
		return err
	}
	p, err := parsePlayer(botFlags.seat)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	dctx, dcancel := context.WithTimeout(ctx, 10*time.Second)
	c, err := ws.Dial(dctx, botFlags.url, protocol.HelloMsg{
		PlayerName:   botFlags.name,
		Team:         p.Team,
		Planet:       p.Planet,
		Key:          botFlags.key,
		Capabilities: protocol.HelloCapabilities{LZ4: botFlags.lz4},
	})
	dcancel()
	if err != nil {
		return fmt.Errorf("dial %s: %w", botFlags.url, err)
	}
	defer c.Close()
	logger.Info("joined", "match", c.Welcome.MatchID, "seat", c.Welcome.Player, "lz4", c.Welcome.LZ4)

	o, err := c.Play(ctx, match.Harvester(), &tu)
	if err != nil {
		return err
	}
	logger.Info("match over", "winner", o.WinnerName(), "draw", o.Draw, "reason", o.Reason, "round", o.Round)
	return nil
}
