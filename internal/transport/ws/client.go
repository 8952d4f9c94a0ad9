package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"battlecode.ai/internal/protocol"
)

// Client is a player-side connection. It is used by bots and tests.
type Client struct {
	conn    *websocket.Conn
	Welcome protocol.WelcomeMsg
}

// Dial connects to url and completes the HELLO/WELCOME exchange.
func Dial(ctx context.Context, url string, hello protocol.HelloMsg) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	hello.Type = protocol.TypeHello
	if hello.ProtocolVersion == "" {
		hello.ProtocolVersion = protocol.Version
	}
	if err := conn.WriteJSON(hello); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c := &Client{conn: conn}
	typ, raw, err := c.Next()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	switch typ {
	case protocol.TypeWelcome:
		if err := json.Unmarshal(raw, &c.Welcome); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return c, nil
	case protocol.TypeError:
		var e protocol.ErrorMsg
		_ = json.Unmarshal(raw, &e)
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %s", e.Code, e.Message)
	}
	_ = conn.Close()
	return nil, fmt.Errorf("unexpected %s before WELCOME", typ)
}

// Next reads one message and returns its type and JSON body. Binary frames are
// lz4-decoded first.
func (c *Client) Next() (string, []byte, error) {
	kind, raw, err := c.conn.ReadMessage()
	if err != nil {
		return "", nil, err
	}
	if kind == websocket.BinaryMessage {
		if raw, err = DecodeLZ4(raw); err != nil {
			return "", nil, err
		}
	}
	base, err := protocol.DecodeBase(raw)
	if err != nil {
		return "", nil, err
	}
	return base.Type, raw, nil
}

func (c *Client) Act(round int, actions []protocol.Action) error {
	if actions == nil {
		actions = []protocol.Action{}
	}
	return c.conn.WriteJSON(protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Round:           round,
		Actions:         actions,
	})
}

// WriteRaw sends an arbitrary text frame.
func (c *Client) WriteRaw(b []byte) error { return c.conn.WriteMessage(websocket.TextMessage, b) }

func (c *Client) Close() error { return c.conn.Close() }
