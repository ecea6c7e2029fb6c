// Package session is the boundary between the synchronous hand engine
// (pkg/engine) and the outside world: a per-game registry, a connection
// manager, viewer-scoped serialization, and the AI driver (spec.md §4.9).
// It owns no poker rules; every mutation goes through pkg/engine.
package session

import "github.com/nlholdem/server/pkg/engine"

// InboundType names the messages a client may send over the WS stream
// (spec.md §6).
type InboundType string

const (
	InStartGame    InboundType = "start_game"
	InPlayerAction InboundType = "player_action"
	InGetState     InboundType = "get_state"
)

// Inbound is the envelope for a client-originated message.
type Inbound struct {
	Type   InboundType       `json:"type"`
	Action engine.ActionType `json:"action,omitempty"`
	Amount int64             `json:"amount,omitempty"`
}

// OutboundType names the messages the server sends.
type OutboundType string

const (
	OutConnected OutboundType = "connected"
	OutGameState OutboundType = "game_state"
	OutError     OutboundType = "error"
)

// Outbound is the envelope for a server-originated message.
type Outbound struct {
	Type  OutboundType `json:"type"`
	Data  any          `json:"data,omitempty"`
	Error string       `json:"error,omitempty"`
}

// ConnectedPayload is the data for an OutConnected envelope.
type ConnectedPayload struct {
	PlayerID string `json:"player_id"`
	GameID   string `json:"game_id"`
}
