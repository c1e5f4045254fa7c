package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names an event kind. The string is also the outbox event_type and the bus subject suffix.
type Type string

const (
	DraftCreated   Type = "DraftCreated"
	DraftStarted   Type = "DraftStarted"
	PickMade       Type = "PickMade"
	DraftPaused    Type = "DraftPaused"
	DraftResumed   Type = "DraftResumed"
	DraftCompleted Type = "DraftCompleted"
	DraftCancelled Type = "DraftCancelled"
	DraftFailed    Type = "DraftFailed"
)

// Event is one entry of a draft's append-only log.
// Sequence is dense per draft starting at 1. Overall is set on PickMade only.
type Event struct {
	ID         uuid.UUID       `json:"eventId"`
	DraftID    uuid.UUID       `json:"draftId"`
	Sequence   int64           `json:"sequence"`
	Type       Type            `json:"eventType"`
	Overall    int             `json:"overall,omitempty"`
	OccurredAt time.Time       `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
}

// New builds an event with a marshalled payload.
func New(draftID uuid.UUID, seq int64, typ Type, at time.Time, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	ev := Event{
		ID:         uuid.New(),
		DraftID:    draftID,
		Sequence:   seq,
		Type:       typ,
		OccurredAt: at,
		Payload:    raw,
	}
	if p, ok := payload.(PickMadePayload); ok {
		ev.Overall = p.OverallPick
	}
	return ev, nil
}

// Decode unmarshals the payload into out.
func (e Event) Decode(out any) error {
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

// Subject is the bus subject the event is published on.
func (e Event) Subject() string {
	return SubjectPrefix + string(e.Type)
}

// SubjectPrefix is shared by every draft event subject.
const SubjectPrefix = "draft.events."
