package protocol

import (
	"encoding/json"

	"battlecode.ai/internal/sim/geom"
)

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	PlayerName      string            `json:"player_name,omitempty"`
	Team            geom.Team         `json:"team"`
	Planet          geom.Planet       `json:"planet"`
	Key             string            `json:"key,omitempty"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	// LZ4 asks for TURN views as binary lz4 frames instead of JSON text.
	LZ4 bool `json:"lz4,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	MatchID         string      `json:"match_id"`
	Player          geom.Player `json:"player"`
	LZ4             bool        `json:"lz4,omitempty"`
	TurnTimeoutMs   int         `json:"turn_timeout_ms"`
	RoundLimit      int         `json:"round_limit"`
}

// TURN (server -> client). View is the filtered world snapshot for this seat.
type TurnMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	MatchID         string          `json:"match_id"`
	Round           int             `json:"round"`
	Player          geom.Player     `json:"player"`
	View            json.RawMessage `json:"view"`
}

// ACT (client -> server). Sending ACT ends the seat's turn.
type ActMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Round           int      `json:"round"`
	Actions         []Action `json:"actions"`
}

// RESULT (server -> client)
type ResultMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Round           int            `json:"round"`
	Results         []ActionResult `json:"results"`
}

type ActionResult struct {
	Index   int    `json:"index"`
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type EndMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	MatchID         string `json:"match_id"`
	Round           int    `json:"round"`
	Winner          string `json:"winner,omitempty"`
	Reason          string `json:"reason"`
}

type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
