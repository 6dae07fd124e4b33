package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/peekmark/internal/event/topic"
)

// Event represents an event in the system.
type Event[T any] struct {
	// Type is the hierarchical event type (e.g., "reveal.revealed").
	Type topic.Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEvent creates a new event with the given type and payload.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// TopicProvider is implemented by types that can provide their topic.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// PayloadOf extracts the typed payload of a type-erased event.
func PayloadOf[T any](event any) (T, bool) {
	if e, ok := event.(Event[T]); ok {
		return e.Payload, true
	}
	var zero T
	return zero, false
}
