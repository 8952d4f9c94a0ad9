package ws

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/geom"
)

type Config struct {
	MatchID string
	// Keys optionally locks seats; a seat with a key only accepts a HELLO carrying it.
	Keys        map[geom.Player]string
	TurnTimeout time.Duration
	RoundLimit  int
	// FrameRate and FrameBurst bound inbound frames per connection.
	FrameRate  rate.Limit
	FrameBurst int
}

// Server accepts one websocket per seat of a single match. Each Seat is a
// match.Controller; the runner drives them and the server only moves frames.
type Server struct {
	cfg Config
	log *log.Logger

	upgrader websocket.Upgrader

	seats map[geom.Player]*Seat

	mu      sync.Mutex
	readyCh chan struct{}
	ready   bool
}

func NewServer(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 20
	}
	if cfg.FrameBurst <= 0 {
		cfg.FrameBurst = 40
	}
	s := &Server{
		cfg: cfg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		seats:   map[geom.Player]*Seat{},
		readyCh: make(chan struct{}),
	}
	for _, p := range geom.Players() {
		s.seats[p] = newSeat(p, cfg.MatchID, cfg.Keys[p], logger)
	}
	return s
}

// Seat returns the controller for p.
func (s *Server) Seat(p geom.Player) *Seat { return s.seats[p] }

// WaitReady blocks until every seat has connected once.
func (s *Server) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) markConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return
	}
	for _, seat := range s.seats {
		if !seat.Connected() {
			return
		}
	}
	s.ready = true
	close(s.readyCh)
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		seat, c := s.handshake(conn)
		if seat == nil {
			return
		}
		defer seat.detach(c)
		s.markConnected()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case f, ok := <-c.out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(f.kind, f.data); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		limiter := rate.NewLimiter(s.cfg.FrameRate, s.cfg.FrameBurst)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout(s.cfg.TurnTimeout)))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if !limiter.Allow() {
				c.sendError(protocol.ErrRateLimit, "too many frames")
				continue
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				c.sendError(protocol.ErrProtoBadRequest, "expected ACT")
				continue
			}
			act, err := protocol.DecodeAct(msg)
			if err != nil {
				c.sendError(protocol.ErrProtoBadRequest, err.Error())
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				c.sendError(protocol.ErrVersion, "bad protocol_version")
				continue
			}
			if code, reason := seat.deliver(act); code != "" {
				c.sendError(code, reason)
			}
		}
		s.log.Info("seat disconnected", "player", seat.player)
	}
}

// readTimeout keeps idle seats alive across other seats' turns.
func readTimeout(turn time.Duration) time.Duration {
	d := 60 * time.Second
	if t := 8 * turn; t > d {
		d = t
	}
	return d
}

func (s *Server) handshake(conn *websocket.Conn) (*Seat, *connection) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, websocket.ClosePolicyViolation, "expected HELLO")
		return nil, nil
	}
	hello, err := protocol.DecodeHello(msg)
	if err != nil {
		_ = writeJSON(conn, errorMsg(protocol.ErrProtoBadRequest, err.Error()))
		closeWith(conn, websocket.ClosePolicyViolation, "bad HELLO")
		return nil, nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = writeJSON(conn, errorMsg(protocol.ErrVersion, "bad protocol_version"))
		closeWith(conn, websocket.ClosePolicyViolation, "bad protocol_version")
		return nil, nil
	}

	p := geom.Player{Team: hello.Team, Planet: hello.Planet}
	seat, ok := s.seats[p]
	if !ok {
		_ = writeJSON(conn, errorMsg(protocol.ErrProtoBadRequest, "no such seat"))
		return nil, nil
	}
	if seat.key != "" && hello.Key != seat.key {
		_ = writeJSON(conn, errorMsg(protocol.ErrBadKey, "bad key for "+p.String()))
		closeWith(conn, websocket.ClosePolicyViolation, "bad key")
		return nil, nil
	}

	c := newConnection(hello.Capabilities.LZ4)
	if !seat.attach(c) {
		_ = writeJSON(conn, errorMsg(protocol.ErrSeatTaken, p.String()+" is taken"))
		closeWith(conn, websocket.ClosePolicyViolation, "seat taken")
		return nil, nil
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		MatchID:         s.cfg.MatchID,
		Player:          p,
		LZ4:             c.lz4,
		TurnTimeoutMs:   int(s.cfg.TurnTimeout / time.Millisecond),
		RoundLimit:      s.cfg.RoundLimit,
	}
	if err := writeJSON(conn, welcome); err != nil {
		seat.detach(c)
		return nil, nil
	}
	name := hello.PlayerName
	if name == "" {
		name = "player"
	}
	s.log.Info("seat connected", "player", p, "name", name, "lz4", c.lz4)
	return seat, c
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func errorMsg(code, message string) protocol.ErrorMsg {
	return protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
