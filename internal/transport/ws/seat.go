package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"battlecode.ai/internal/match"
	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/geom"
)

var (
	ErrNotConnected = errors.New("seat not connected")
	ErrDisconnected = errors.New("seat disconnected during turn")
)

type frame struct {
	kind int
	data []byte
}

// connection is one live socket bound to a seat. out is drained by the
// handler's writer goroutine; done closes when the socket goes away.
type connection struct {
	lz4  bool
	out  chan frame
	acts chan protocol.ActMsg
	done chan struct{}
	once sync.Once
}

func newConnection(lz4 bool) *connection {
	return &connection{
		lz4:  lz4,
		out:  make(chan frame, 16),
		acts: make(chan protocol.ActMsg, 1),
		done: make(chan struct{}),
	}
}

func (c *connection) close() { c.once.Do(func() { close(c.done) }) }

// send queues a frame; a seat that cannot keep up loses the frame rather than
// stalling the match.
func (c *connection) send(f frame) bool {
	select {
	case c.out <- f:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

func (c *connection) sendJSON(v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return c.send(frame{kind: websocket.TextMessage, data: b})
}

func (c *connection) sendError(code, message string) { c.sendJSON(errorMsg(code, message)) }

// Seat plays one player's turns over whichever connection currently holds it.
type Seat struct {
	player  geom.Player
	matchID string
	key     string
	log     *log.Logger

	mu      sync.Mutex
	conn    *connection
	waiting int // round awaiting ACT, 0 when it is not this seat's turn
}

var _ match.Controller = (*Seat)(nil)

func newSeat(p geom.Player, matchID, key string, logger *log.Logger) *Seat {
	return &Seat{player: p, matchID: matchID, key: key, log: logger}
}

func (s *Seat) Player() geom.Player { return s.player }

func (s *Seat) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *Seat) attach(c *connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return false
	}
	s.conn = c
	return true
}

func (s *Seat) detach(c *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == c {
		s.conn = nil
	}
	c.close()
}

func (s *Seat) current() *connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// deliver hands an inbound ACT to a waiting Play. It returns a wire error code
// when the ACT cannot be accepted.
func (s *Seat) deliver(act protocol.ActMsg) (code, reason string) {
	s.mu.Lock()
	waiting, c := s.waiting, s.conn
	s.mu.Unlock()
	switch {
	case c == nil:
		return protocol.ErrNotYourTurn, "seat not connected"
	case waiting == 0:
		return protocol.ErrNotYourTurn, "not your turn"
	case act.Round != waiting:
		return protocol.ErrStale, "ACT is for another round"
	}
	select {
	case c.acts <- act:
		return "", ""
	default:
		return protocol.ErrNotYourTurn, "ACT already received"
	}
}

// Play sends the seat its filtered view and waits for ACT, the deadline, or a
// disconnect.
func (s *Seat) Play(ctx context.Context, req match.TurnRequest) ([]protocol.Action, error) {
	c := s.current()
	if c == nil {
		return nil, ErrNotConnected
	}

	view := req.View.ExportSnapshot()
	view.Header.MatchID = req.MatchID
	rawView, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	msg := protocol.TurnMsg{
		Type:            protocol.TypeTurn,
		ProtocolVersion: protocol.Version,
		MatchID:         req.MatchID,
		Round:           req.Round,
		Player:          req.Player,
		View:            rawView,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	f := frame{kind: websocket.TextMessage, data: b}
	if c.lz4 {
		packed, err := EncodeLZ4(b)
		if err != nil {
			return nil, err
		}
		f = frame{kind: websocket.BinaryMessage, data: packed}
	}

	// Drop anything left over from an earlier turn before opening this one.
	select {
	case <-c.acts:
	default:
	}
	s.mu.Lock()
	s.waiting = req.Round
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.waiting = 0
		s.mu.Unlock()
	}()

	if !c.send(f) {
		return nil, ErrDisconnected
	}
	select {
	case act := <-c.acts:
		return act.Actions, nil
	case <-c.done:
		return nil, ErrDisconnected
	case <-ctx.Done():
		c.sendError(protocol.ErrStale, "turn deadline passed")
		return nil, ctx.Err()
	}
}

func (s *Seat) Results(round int, results []protocol.ActionResult) {
	c := s.current()
	if c == nil {
		return
	}
	if results == nil {
		results = []protocol.ActionResult{}
	}
	c.sendJSON(protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		Round:           round,
		Results:         results,
	})
}

func (s *Seat) End(o match.Outcome) {
	c := s.current()
	if c == nil {
		return
	}
	c.sendJSON(protocol.EndMsg{
		Type:            protocol.TypeEnd,
		ProtocolVersion: protocol.Version,
		MatchID:         o.MatchID,
		Round:           o.Round,
		Winner:          o.WinnerName(),
		Reason:          o.Reason,
	})
	s.log.Debug("sent END", "player", s.player, "winner", o.WinnerName())
}
