package session

import (
	"encoding/json"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/layers"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Input (client → server)
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"
	TypeKeyDown      = "key.down"
	TypeKeyUp        = "key.up"
	TypeWheel        = "wheel"
	TypeToolSet      = "tool.set"
	TypeTextSubmit   = "text.submit"
	TypeTextCancel   = "text.cancel"
	TypeFrameRequest = "frame.request"

	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Engine output (server → client)
	TypeFrame         = "frame"
	TypeObjectCreated = "object.created"
	TypeSelection     = "selection"
	TypeTextActivate  = "text.activate"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceLeave  = "presence.leave"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

type ToolPayload struct {
	Tool document.Tool `json:"tool"`
}

type TextSubmitPayload struct {
	Token int    `json:"token"`
	Text  string `json:"text"`
}

type TextCancelPayload struct {
	Token int `json:"token"`
}

type WelcomePayload struct {
	SessionID string            `json:"sessionId"`
	ClientID  string            `json:"clientId"`
	Objects   []document.Object `json:"objects"`
	Layers    []layers.Entry    `json:"layers"`
	Tool      document.Tool     `json:"tool"`
}

// FramePayload carries one render pass as draw commands.
type FramePayload struct {
	Commands []engine.DrawCommand `json:"commands"`
	Mode     string               `json:"mode"`
	Tool     document.Tool        `json:"tool"`
}

type ObjectCreatedPayload struct {
	Object  document.Object `json:"object"`
	LayerID string          `json:"layerId"`
}

type SelectionPayload struct {
	Index    int    `json:"index"`
	ObjectID string `json:"objectId,omitempty"`
	LayerID  string `json:"layerId,omitempty"`
}

// TextActivatePayload asks the client to open a text field at the given
// position and answer with text.submit or text.cancel carrying Token.
type TextActivatePayload struct {
	Token   int     `json:"token"`
	ScreenX float64 `json:"screenX"`
	ScreenY float64 `json:"screenY"`
	WorldX  float64 `json:"worldX"`
	WorldY  float64 `json:"worldY"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type PresencePayload struct {
	Cursor   *CursorPos `json:"cursor,omitempty"`
	Selected string     `json:"selected,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}

// --- Operation Types ---

// Operation is an edit made outside the canvas, for example from a
// property panel or the layer list. Objects are addressed by id.
type Operation struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	ObjectID string `json:"objectId,omitempty"`

	// For object.transform
	Transform json.RawMessage `json:"transform,omitempty"`

	// For object.style
	Style json.RawMessage `json:"style,omitempty"`

	// For object.text
	Text json.RawMessage `json:"text,omitempty"`

	// For object.create
	Object *document.Object `json:"object,omitempty"`

	// For object.visibility / object.locked
	Visible *bool `json:"visible,omitempty"`
	Locked  *bool `json:"locked,omitempty"`

	// For object.shadow / object.cornerRadius
	Shadow       *document.Shadow       `json:"shadow,omitempty"`
	CornerRadius *document.CornerRadius `json:"cornerRadius,omitempty"`

	// For layer.rename
	LayerID string `json:"layerId,omitempty"`
	Name    string `json:"name,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID string `json:"operationId"`
	ServerSeq   int64  `json:"serverSeq"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	ClientID  string    `json:"clientId"`
	ServerSeq int64     `json:"serverSeq"`
}

// newMessage marshals payload into a message of type typ.
func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
