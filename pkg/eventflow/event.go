package eventflow

import (
	"time"

	"github.com/google/uuid"
)

// Event is one unit of data flowing through a pipeline.
// Events are immutable once created - derive new events instead of
// mutating. The completion protocol treats the payload as opaque.
type Event struct {
	// ID uniquely identifies this event.
	ID string `json:"id"`

	// CorrelationID groups an event with the events derived from it.
	// Defaults to the event's own ID at the root of a chain.
	CorrelationID string `json:"correlation_id"`

	// Timestamp is when the event was created.
	Timestamp time.Time `json:"timestamp"`

	// Payload is the event data, opaque to the completion protocol.
	Payload any `json:"payload,omitempty"`
}

// EventOption configures event creation.
type EventOption func(*Event)

// WithEventID sets a specific event ID (default: auto-generated UUID).
func WithEventID(id string) EventOption {
	return func(e *Event) {
		e.ID = id
	}
}

// WithCorrelationID sets the correlation ID.
func WithCorrelationID(id string) EventOption {
	return func(e *Event) {
		e.CorrelationID = id
	}
}

// NewEvent creates an event with the given payload.
// The correlation ID defaults to the event's own ID.
func NewEvent(payload any, opts ...EventOption) *Event {
	e := &Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Payload:   payload,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.CorrelationID == "" {
		e.CorrelationID = e.ID
	}
	return e
}

// NewChildEvent creates an event derived from parent, inheriting its
// correlation ID.
func NewChildEvent(parent *Event, payload any, opts ...EventOption) *Event {
	parentOpts := []EventOption{WithCorrelationID(parent.CorrelationID)}
	return NewEvent(payload, append(parentOpts, opts...)...)
}
