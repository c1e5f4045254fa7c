package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
)

// OutboxEvent is a committed draft event waiting to be relayed to the bus.
// ID is the event id, so the bus can drop duplicates.
type OutboxEvent struct {
	ID         uuid.UUID       `json:"id"`
	DraftID    uuid.UUID       `json:"draft_id"`
	Sequence   int64           `json:"sequence"`
	EventType  string          `json:"event_type"`
	Overall    int             `json:"overall,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
	SentAt     *time.Time      `json:"sent_at,omitempty"`
}

// Event rebuilds the log event the row was written for.
func (e OutboxEvent) Event() events.Event {
	return events.Event{
		ID:         e.ID,
		DraftID:    e.DraftID,
		Sequence:   e.Sequence,
		Type:       events.Type(e.EventType),
		Overall:    e.Overall,
		OccurredAt: e.OccurredAt,
		Payload:    e.Payload,
	}
}
