package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EventType string

const (
	// EventTypeStart is published before the model is called.
	EventTypeStart EventType = "start"
	// EventTypeFinal carries a genuine model reply.
	EventTypeFinal EventType = "final"
	// EventTypeError carries the fault text that replaces a reply.
	EventTypeError EventType = "error"
)

// Event is a single inference lifecycle notification.
// It is serialized as JSON when published on the watermill bus.
type Event struct {
	Type     EventType     `json:"type"`
	Text     string        `json:"text,omitempty"`
	Metadata EventMetadata `json:"meta"`
}

func NewStartEvent(metadata EventMetadata) Event {
	return Event{Type: EventTypeStart, Metadata: metadata}
}

func NewFinalEvent(metadata EventMetadata, text string) Event {
	return Event{Type: EventTypeFinal, Text: text, Metadata: metadata}
}

func NewErrorEvent(metadata EventMetadata, text string) Event {
	return Event{Type: EventTypeError, Text: text, Metadata: metadata}
}

func (e Event) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type))
	if e.Text != "" {
		ev.Int("text_len", len(e.Text))
	}
	ev.Object("meta", e.Metadata)
}

func NewEventFromJson(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, errors.Wrap(err, "could not unmarshal event")
	}
	switch e.Type {
	case EventTypeStart, EventTypeFinal, EventTypeError:
	default:
		return Event{}, errors.Errorf("unknown event type %q", e.Type)
	}
	return e, nil
}

// NewEventMetadata stamps a fresh id and the current time.
func NewEventMetadata(sessionID string, inferenceID string) EventMetadata {
	return EventMetadata{
		ID:          uuid.New(),
		SessionID:   sessionID,
		InferenceID: inferenceID,
		Time:        time.Now(),
	}
}
