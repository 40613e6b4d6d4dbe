package websocket

import (
	"encoding/json"
	"time"

	"pocketnotes/internal/domain"
)

type MessageType string

const (
	TypeNotesChanged MessageType = "notes_changed"
	TypeProject      MessageType = "project"
	TypeProjection   MessageType = "projection"
	TypeError        MessageType = "error"
	TypePing         MessageType = "ping"
	TypePong         MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NotesChangedPayload tells a client that its note collection changed and
// the displayed list should be projected again.
type NotesChangedPayload struct {
	NoteID    string    `json:"note_id"`
	Operation string    `json:"operation"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProjectPayload struct {
	Query string `json:"query"`
	Sort  string `json:"sort"`
}

type ProjectionPayload struct {
	Query string         `json:"query"`
	Sort  string         `json:"sort"`
	Notes []*domain.Note `json:"notes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
