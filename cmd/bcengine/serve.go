package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"battlecode.ai/internal/match"
	"battlecode.ai/internal/persistence/indexdb"
	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/transport/ws"
)

var serveFlags struct {
	addr          string
	mapPath       string
	seed          uint64
	dataDir       string
	indexDB       string
	disableDB     bool
	matchID       string
	snapshotEvery int
	turnTimeout   time.Duration
	readyTimeout  time.Duration
	bots          []string
	keys          map[string]string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host one match and wait for its seats to connect",
	Long: `serve hosts a single match on /v1/ws. Seats listed in --bots are played
in-process by the built-in bot; every other seat waits for a websocket player.
The match starts once every remote seat has connected.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", ":8080", "http listen address")
	f.StringVar(&serveFlags.mapPath, "map", "", "map file (default: generated from --seed)")
	f.Uint64Var(&serveFlags.seed, "seed", 6147, "seed for the generated map when --map is empty")
	f.StringVar(&serveFlags.dataDir, "data", "./data", "runtime data directory")
	f.StringVar(&serveFlags.indexDB, "index-db", "", "sqlite index path (default: <data>/index/index.sqlite)")
	f.BoolVar(&serveFlags.disableDB, "disable-db", false, "disable the sqlite index")
	f.StringVar(&serveFlags.matchID, "match-id", "", "match id (default: random uuid)")
	f.IntVar(&serveFlags.snapshotEvery, "snapshot-every", 100, "write a snapshot every N rounds (0 disables)")
	f.DurationVar(&serveFlags.turnTimeout, "turn-timeout", 2*time.Second, "per-turn deadline (0 disables)")
	f.DurationVar(&serveFlags.readyTimeout, "ready-timeout", 10*time.Minute, "how long to wait for remote seats")
	f.StringSliceVar(&serveFlags.bots, "bots", nil, "seats played in-process, e.g. red-mars,blue-mars")
	f.StringToStringVar(&serveFlags.keys, "key", nil, "seat keys, e.g. red-earth=s3cret")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger("serve")

	tu, err := loadTuning()
	if err != nil {
		return err
	}
	var m gamemap.GameMap
	if serveFlags.mapPath != "" {
		if m, err = gamemap.Load(serveFlags.mapPath, &tu); err != nil {
			return err
		}
	} else {
		m = gamemap.Generate(gamemap.GenOptions{Seed: serveFlags.seed, Symmetry: gamemap.Rotate180, Deposits: 40, Obstacles: 20}, &tu)
		if err := m.Validate(&tu); err != nil {
			return fmt.Errorf("generated map: %w", err)
		}
	}

	bots := map[geom.Player]bool{}
	for _, s := range serveFlags.bots {
		p, err := parsePlayer(s)
		if err != nil {
			return err
		}
		bots[p] = true
	}
	keys := map[geom.Player]string{}
	for s, k := range serveFlags.keys {
		p, err := parsePlayer(s)
		if err != nil {
			return err
		}
		keys[p] = k
	}

	var idx *indexdb.SQLiteIndex
	if !serveFlags.disableDB {
		path := strings.TrimSpace(serveFlags.indexDB)
		if path == "" {
			path = filepath.Join(serveFlags.dataDir, "index", "index.sqlite")
		}
		if idx, err = indexdb.OpenSQLite(path); err != nil {
			return fmt.Errorf("open index db: %w", err)
		}
		defer idx.Close()
	}

	matchID := serveFlags.matchID
	if matchID == "" {
		matchID = uuid.New().String()
	}
	srv := ws.NewServer(ws.Config{
		MatchID:     matchID,
		Keys:        keys,
		TurnTimeout: serveFlags.turnTimeout,
		RoundLimit:  tu.Game.RoundLimit,
	}, logger.WithPrefix("ws"))

	seats := map[geom.Player]match.Controller{}
	for _, p := range geom.Players() {
		if bots[p] {
			seats[p] = match.Harvester()
			continue
		}
		seats[p] = srv.Seat(p)
	}
	r, err := match.New(match.Config{
		MatchID:       matchID,
		DataDir:       filepath.Join(serveFlags.dataDir, "matches"),
		MapPath:       serveFlags.mapPath,
		SnapshotEvery: serveFlags.snapshotEvery,
		TurnTimeout:   serveFlags.turnTimeout,
		Index:         idx,
		Logger:        logger.WithPrefix("match"),
	}, m, &tu, seats)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, req *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		connected := 0
		for _, p := range geom.Players() {
			if srv.Seat(p).Connected() {
				connected++
			}
		}
		st := idx.Stats()
		fmt.Fprintf(rw, "bcengine_seats_connected %d\n", connected)
		fmt.Fprintf(rw, "bcengine_index_queue_depth %d\n", st.QueueDepth)
		fmt.Fprintf(rw, "bcengine_index_queue_capacity %d\n", st.QueueCapacity)
		fmt.Fprintf(rw, "bcengine_index_dropped_total{kind=\"match\"} %d\n", st.DropMatchTotal)
		fmt.Fprintf(rw, "bcengine_index_dropped_total{kind=\"turn\"} %d\n", st.DropTurnTotal)
		fmt.Fprintf(rw, "bcengine_index_dropped_total{kind=\"snapshot\"} %d\n", st.DropSnapshotTotal)
		fmt.Fprintf(rw, "bcengine_index_dropped_total{kind=\"result\"} %d\n", st.DropResultTotal)
	})
	mux.Handle("/v1/ws", srv.Handler())

	ln, err := net.Listen("tcp", serveFlags.addr)
	if err != nil {
		return err
	}
	hs := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "err", err)
			cancel()
		}
	}()
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = hs.Shutdown(sctx)
	}()
	logger.Info("listening", "addr", ln.Addr().String(), "match", r.ID(), "dir", r.Dir())

	if len(bots) < len(geom.Players()) {
		rctx, rcancel := context.WithTimeout(ctx, serveFlags.readyTimeout)
		err := waitRemoteSeats(rctx, srv, bots)
		rcancel()
		if err != nil {
			return fmt.Errorf("waiting for seats: %w", err)
		}
	}

	o, err := r.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if o.Draw {
		logger.Info("match over", "result", "draw", "reason", o.Reason, "round", o.Round)
	} else {
		logger.Info("match over", "winner", o.WinnerName(), "reason", o.Reason, "round", o.Round)
	}
	return nil
}

// waitRemoteSeats returns once every seat not played in-process has a socket.
func waitRemoteSeats(ctx context.Context, srv *ws.Server, bots map[geom.Player]bool) error {
	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()
	for {
		ready := true
		for _, p := range geom.Players() {
			if !bots[p] && !srv.Seat(p).Connected() {
				ready = false
				break
			}
		}
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
