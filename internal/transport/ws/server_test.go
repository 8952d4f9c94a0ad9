package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"battlecode.ai/internal/match"
	"battlecode.ai/internal/persistence/snapshot"
	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/world"
)

var (
	redEarth  = geom.Player{Team: geom.Red, Planet: geom.Earth}
	blueEarth = geom.Player{Team: geom.Blue, Planet: geom.Earth}
)

func startServer(t *testing.T, cfg Config) (*Server, string) {
	t.Helper()
	srv := NewServer(cfg, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string, p geom.Player, key string, lz4 bool) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, protocol.HelloMsg{
		Team:         p.Team,
		Planet:       p.Planet,
		Key:          key,
		Capabilities: protocol.HelloCapabilities{LZ4: lz4},
	})
	if err != nil {
		t.Fatalf("dial %s: %v", p, err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func shortTuning() *tuning.Tuning {
	tu := tuning.Defaults()
	tu.Game.RoundLimit = 30
	return &tu
}

func nextOf(t *testing.T, c *Client, want string) []byte {
	t.Helper()
	typ, raw, err := c.Next()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != want {
		t.Fatalf("got %s (%s), want %s", typ, raw, want)
	}
	return raw
}

func TestServer_PlaysMatchOverWebsocket(t *testing.T) {
	srv, url := startServer(t, Config{MatchID: "ws1", TurnTimeout: 5 * time.Second, RoundLimit: 30})
	red := dial(t, url, redEarth, "", true)
	blue := dial(t, url, blueEarth, "", false)
	if red.Welcome.MatchID != "ws1" || red.Welcome.Player != redEarth || !red.Welcome.LZ4 {
		t.Fatalf("unexpected welcome: %+v", red.Welcome)
	}
	if blue.Welcome.LZ4 || blue.Welcome.TurnTimeoutMs != 5000 || blue.Welcome.RoundLimit != 30 {
		t.Fatalf("unexpected welcome: %+v", blue.Welcome)
	}

	tu := shortTuning()
	r, err := match.New(match.Config{MatchID: "ws1"}, gamemap.TestMap(tu), tu, map[geom.Player]match.Controller{
		redEarth:  srv.Seat(redEarth),
		blueEarth: srv.Seat(blueEarth),
	})
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	done := make(chan match.Outcome, 1)
	go func() {
		o, _ := r.Run(context.Background())
		done <- o
	}()

	// Red receives an lz4-packed TURN and disintegrates its only worker.
	var turn protocol.TurnMsg
	if err := json.Unmarshal(nextOf(t, red, protocol.TypeTurn), &turn); err != nil {
		t.Fatalf("decode TURN: %v", err)
	}
	if turn.Round != 1 || turn.Player != redEarth || turn.MatchID != "ws1" {
		t.Fatalf("unexpected TURN: %+v", turn)
	}
	var view snapshot.GameV1
	if err := json.Unmarshal(turn.View, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if !view.Filtered || view.Player != redEarth || len(view.Units) != 1 {
		t.Fatalf("unexpected view: filtered=%v player=%v units=%d", view.Filtered, view.Player, len(view.Units))
	}
	if err := red.Act(1, []protocol.Action{protocol.Disintegrate(view.Units[0].ID)}); err != nil {
		t.Fatalf("act: %v", err)
	}

	var res protocol.ResultMsg
	if err := json.Unmarshal(nextOf(t, red, protocol.TypeResult), &res); err != nil {
		t.Fatalf("decode RESULT: %v", err)
	}
	if len(res.Results) != 1 || !res.Results[0].OK {
		t.Fatalf("unexpected RESULT: %+v", res)
	}

	for _, c := range []*Client{red, blue} {
		var end protocol.EndMsg
		if err := json.Unmarshal(nextOf(t, c, protocol.TypeEnd), &end); err != nil {
			t.Fatalf("decode END: %v", err)
		}
		if end.Winner != "Blue" || end.Reason != match.ReasonElimination || end.Round != 1 {
			t.Fatalf("unexpected END: %+v", end)
		}
	}
	select {
	case o := <-done:
		if o.Winner != geom.Blue {
			t.Fatalf("outcome %+v", o)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("match did not finish")
	}
}

func TestServer_RejectsSecondConnectionAndBadKey(t *testing.T) {
	_, url := startServer(t, Config{Keys: map[geom.Player]string{blueEarth: "s3cret"}})
	dial(t, url, redEarth, "", false)

	ctx := context.Background()
	_, err := Dial(ctx, url, protocol.HelloMsg{Team: geom.Red, Planet: geom.Earth})
	if err == nil || !strings.Contains(err.Error(), protocol.ErrSeatTaken) {
		t.Fatalf("second red connection: err=%v", err)
	}
	_, err = Dial(ctx, url, protocol.HelloMsg{Team: geom.Blue, Planet: geom.Earth, Key: "wrong"})
	if err == nil || !strings.Contains(err.Error(), protocol.ErrBadKey) {
		t.Fatalf("bad key: err=%v", err)
	}
	dial(t, url, blueEarth, "s3cret", false)
}

func TestServer_RejectsMalformedHello(t *testing.T) {
	_, url := startServer(t, Config{})
	_, err := Dial(context.Background(), url, protocol.HelloMsg{ProtocolVersion: "0.1", Team: geom.Red, Planet: geom.Mars})
	if err == nil || !strings.Contains(err.Error(), protocol.ErrVersion) {
		t.Fatalf("old protocol version: err=%v", err)
	}
}

func TestServer_ActOutsideTurn(t *testing.T) {
	_, url := startServer(t, Config{})
	c := dial(t, url, redEarth, "", false)
	if err := c.Act(1, nil); err != nil {
		t.Fatalf("act: %v", err)
	}
	var e protocol.ErrorMsg
	if err := json.Unmarshal(nextOf(t, c, protocol.TypeError), &e); err != nil {
		t.Fatalf("decode ERROR: %v", err)
	}
	if e.Code != protocol.ErrNotYourTurn {
		t.Fatalf("code = %s, want %s", e.Code, protocol.ErrNotYourTurn)
	}

	if err := c.WriteRaw([]byte(`{"type":"ACT","protocol_version":"1.0","round":0,"actions":[]}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := json.Unmarshal(nextOf(t, c, protocol.TypeError), &e); err != nil {
		t.Fatalf("decode ERROR: %v", err)
	}
	if e.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("code = %s, want %s", e.Code, protocol.ErrProtoBadRequest)
	}
}

func TestServer_RateLimit(t *testing.T) {
	_, url := startServer(t, Config{FrameRate: rate.Every(time.Hour), FrameBurst: 1})
	c := dial(t, url, redEarth, "", false)
	for i := 0; i < 2; i++ {
		if err := c.WriteRaw([]byte(`{"type":"PING"}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	var e protocol.ErrorMsg
	_ = json.Unmarshal(nextOf(t, c, protocol.TypeError), &e)
	if e.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("first frame code = %s", e.Code)
	}
	_ = json.Unmarshal(nextOf(t, c, protocol.TypeError), &e)
	if e.Code != protocol.ErrRateLimit {
		t.Fatalf("second frame code = %s, want %s", e.Code, protocol.ErrRateLimit)
	}
}

func TestSeat_PlayDeadlineAndDisconnect(t *testing.T) {
	srv, url := startServer(t, Config{})
	tu := shortTuning()
	w, err := world.New(gamemap.TestMap(tu), tu)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	req := match.TurnRequest{MatchID: "m", Round: 1, Player: redEarth, View: w.Filter()}

	if _, err := srv.Seat(redEarth).Play(context.Background(), req); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("unconnected seat: err=%v", err)
	}

	c := dial(t, url, redEarth, "", false)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := srv.Seat(redEarth).Play(ctx, req); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("silent seat: err=%v", err)
	}
	nextOf(t, c, protocol.TypeTurn)
	var e protocol.ErrorMsg
	_ = json.Unmarshal(nextOf(t, c, protocol.TypeError), &e)
	if e.Code != protocol.ErrStale {
		t.Fatalf("deadline code = %s, want %s", e.Code, protocol.ErrStale)
	}

	// A late ACT for the expired turn is refused.
	if err := c.Act(1, nil); err != nil {
		t.Fatalf("act: %v", err)
	}
	_ = json.Unmarshal(nextOf(t, c, protocol.TypeError), &e)
	if e.Code != protocol.ErrNotYourTurn {
		t.Fatalf("late ACT code = %s", e.Code)
	}
}

func TestServer_WaitReady(t *testing.T) {
	srv, url := startServer(t, Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := srv.WaitReady(ctx); err == nil {
		t.Fatalf("ready with no seats connected")
	}
	for _, p := range geom.Players() {
		dial(t, url, p, "", false)
	}
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.WaitReady(ctx2); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
}

func TestLZ4RoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte(`{"type":"TURN","view":{}}`), 100)
	packed, err := EncodeLZ4(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(packed) >= len(src) {
		t.Fatalf("packed %d bytes from %d", len(packed), len(src))
	}
	got, err := DecodeLZ4(packed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestClient_PlayMatchesInProcessBots(t *testing.T) {
	tu := shortTuning()
	local := map[geom.Player]match.Controller{}
	for _, p := range geom.Players() {
		local[p] = match.Harvester()
	}
	lr, err := match.New(match.Config{MatchID: "local"}, gamemap.TestMap(tu), tu, local)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	want, err := lr.Run(context.Background())
	if err != nil {
		t.Fatalf("local run: %v", err)
	}

	srv, url := startServer(t, Config{MatchID: "remote", TurnTimeout: 5 * time.Second, RoundLimit: 30})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	ends := make(chan match.Outcome, 4)
	for i, p := range geom.Players() {
		p := p
		c := dial(t, url, p, "", i%2 == 0)
		go func() {
			o, err := c.Play(ctx, match.Harvester(), tu)
			if err != nil {
				t.Errorf("%s play: %v", p, err)
			}
			ends <- o
		}()
	}
	if err := srv.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	seats := map[geom.Player]match.Controller{}
	for _, p := range geom.Players() {
		seats[p] = srv.Seat(p)
	}
	rr, err := match.New(match.Config{MatchID: "remote"}, gamemap.TestMap(tu), tu, seats)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	got, err := rr.Run(ctx)
	if err != nil {
		t.Fatalf("remote run: %v", err)
	}
	if got.Digest != want.Digest || got.Round != want.Round || got.Draw != want.Draw || got.Winner != want.Winner {
		t.Fatalf("remote outcome %+v, local %+v", got, want)
	}
	for range geom.Players() {
		o := <-ends
		if o.Reason != want.Reason || o.Draw != want.Draw {
			t.Fatalf("client saw %+v, want reason %q draw %v", o, want.Reason, want.Draw)
		}
	}
}
