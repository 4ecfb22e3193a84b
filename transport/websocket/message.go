package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
)

const (
	actionConnect = "connect"
	actionMove    = "game:move"
	actionJump    = "game:jump"
	actionReset   = "game:reset"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the request body of every action; each action reads only its own fields.
type Payload struct {
	SessionID string `json:"session_id,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
	Step      *int   `json:"step,omitempty"`
}

type ResponsePayload struct {
	Game  *usecase.View `json:"game,omitempty"`
	Error string        `json:"error,omitempty"`
}
