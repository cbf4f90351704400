package collab

import (
	"encoding/json"

	"github.com/inamate/draft/internal/command"
	"github.com/inamate/draft/internal/geom"
)

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Drawing sync: full state on join and after every commit
	TypeDrawingSync = "drawing.sync"

	// Edits
	TypeCommandSubmit = "command.submit"
	TypeCommandResult = "command.result"
	TypeHistoryUndo   = "history.undo"
	TypeHistoryRedo   = "history.redo"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

// PresencePayload is what one user shows the others: where their cursor is
// in model space, what they have selected and which tool they hold.
type PresencePayload struct {
	Cursor      *geom.Point `json:"cursor,omitempty"`
	Selection   []string    `json:"selection,omitempty"`
	Tool        string      `json:"tool,omitempty"`
	DisplayName string      `json:"displayName,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

// CommandSubmitPayload carries a command batch. RequestID is echoed back in
// the result so the client can match it.
type CommandSubmitPayload struct {
	RequestID string            `json:"requestId"`
	Commands  []command.Command `json:"commands"`
}

type CommandResultPayload struct {
	RequestID string         `json:"requestId"`
	Result    command.Result `json:"result"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
