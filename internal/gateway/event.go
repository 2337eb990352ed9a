package gateway

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event types carried over the consultation socket
const (
	EventJoined  = "joined"
	EventLeft    = "left"
	EventMessage = "message"
	EventTyping  = "typing"
	EventRead    = "read"
	EventStarted = "started"
	EventEnded   = "ended"
	EventError   = "error"
)

// Event is the wire format for every frame on the consultation socket,
// both directions.
type Event struct {
	Type           string          `json:"type"`
	ConsultationID uuid.UUID       `json:"consultation_id"`
	SenderID       uuid.UUID       `json:"sender_id,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// envelope wraps an event with its origin instance so fan-out over the
// broker does not echo frames back to the instance that produced them.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}
