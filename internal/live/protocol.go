package live

import (
	"encoding/json"

	"github.com/drawkit/drawkit/internal/editor"
	"github.com/drawkit/drawkit/internal/engine"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client → server
	TypeKey         = "input.key"
	TypeMouse       = "input.mouse"
	TypeMouseButton = "input.mousebutton"
	TypeDelete      = "edit.delete"
	TypeImport      = "doc.import"
	TypeSave        = "doc.save"
	TypeResize      = "view.resize"

	// Server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeState   = "state"
	TypeSaved   = "doc.saved"
	TypeError   = "error"
)

type KeyPayload struct {
	Key  string `json:"key"`
	Down bool   `json:"down"`
}

type MousePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MouseButtonPayload struct {
	Down bool `json:"down"`
}

type DeletePayload struct {
	Confirmed bool `json:"confirmed"`
}

type ImportPayload struct {
	Document json.RawMessage `json:"document"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
	DrawingID string `json:"drawingId"`
}

type FramePayload struct {
	Commands []engine.DrawCommand `json:"commands"`
}

type StatePayload = editor.State

type SavedPayload struct {
	DrawingID string `json:"drawingId"`
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
