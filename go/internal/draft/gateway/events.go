package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/draftroom/go/internal/draft/events"
)

// DraftEvent is the message pushed to WebSocket clients
type DraftEvent struct {
	ID        string          `json:"id"`
	DraftID   string          `json:"draft_id"`
	Type      EventType       `json:"type"`
	Sequence  int64           `json:"sequence,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of draft event
type EventType string

const (
	EventTypeDraftCreated   EventType = EventType(events.DraftCreated)
	EventTypeDraftStarted   EventType = EventType(events.DraftStarted)
	EventTypePickMade       EventType = EventType(events.PickMade)
	EventTypeDraftPaused    EventType = EventType(events.DraftPaused)
	EventTypeDraftResumed   EventType = EventType(events.DraftResumed)
	EventTypeDraftCompleted EventType = EventType(events.DraftCompleted)
	EventTypeDraftCancelled EventType = EventType(events.DraftCancelled)
	EventTypeDraftFailed    EventType = EventType(events.DraftFailed)
	// EventTypeStateSync carries a full DraftStateResponse on connect and on request.
	EventTypeStateSync EventType = "StateSync"
)

// FromEvent converts a log event into a client message. The DraftCreated payload carries
// the whole pool and is trimmed to the settings clients need.
func FromEvent(ev events.Event) (*DraftEvent, error) {
	data := ev.Payload
	if ev.Type == events.DraftCreated {
		var p events.DraftCreatedPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		p.Pool = nil
		b, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		data = b
	}

	return &DraftEvent{
		ID:        ev.ID.String(),
		DraftID:   ev.DraftID.String(),
		Type:      EventType(ev.Type),
		Sequence:  ev.Sequence,
		Timestamp: ev.OccurredAt,
		Data:      data,
	}, nil
}

// StateSyncEvent wraps a state view for a client resync.
func StateSyncEvent(state *DraftStateResponse) (*DraftEvent, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return &DraftEvent{
		DraftID:   state.DraftID,
		Type:      EventTypeStateSync,
		Sequence:  state.Version,
		Timestamp: state.ServerTime,
		Data:      data,
	}, nil
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *DraftEvent) (any, error) {
	var out any
	switch event.Type {
	case EventTypeDraftCreated:
		out = &events.DraftCreatedPayload{}
	case EventTypeDraftStarted:
		out = &events.DraftStartedPayload{}
	case EventTypePickMade:
		out = &events.PickMadePayload{}
	case EventTypeDraftPaused:
		out = &events.DraftPausedPayload{}
	case EventTypeDraftResumed:
		out = &events.DraftResumedPayload{}
	case EventTypeDraftCompleted:
		out = &events.DraftCompletedPayload{}
	case EventTypeDraftCancelled:
		out = &events.DraftCancelledPayload{}
	case EventTypeDraftFailed:
		out = &events.DraftFailedPayload{}
	case EventTypeStateSync:
		out = &DraftStateResponse{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", event.Type)
	}
	if err := json.Unmarshal(event.Data, out); err != nil {
		return nil, err
	}
	return out, nil
}
