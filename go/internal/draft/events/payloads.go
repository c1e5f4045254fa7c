package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// Event payload types that are shared between the engine, the relay and the gateway

// DraftCreatedPayload carries everything replay needs to rebuild a draft from nothing.
type DraftCreatedPayload struct {
	LeagueID         uuid.UUID            `json:"league_id"`
	Mode             models.DraftMode     `json:"mode"`
	Rounds           int                  `json:"rounds"`
	PickTimeLimitSec int                  `json:"pick_time_limit_sec"`
	Participants     []models.Participant `json:"participants"`
	Pool             []models.PoolEntry   `json:"pool"`
	CreatedAt        time.Time            `json:"created_at"`
}

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	Mode        models.DraftMode `json:"mode"`
	StartedAt   time.Time        `json:"started_at"`
	Deadline    time.Time        `json:"deadline"`
	SeatOnClock int              `json:"seat_on_clock"`
	TotalRounds int              `json:"total_rounds"`
	TotalPicks  int              `json:"total_picks"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	TeamID      uuid.UUID `json:"team_id"`
	TeamName    string    `json:"team_name,omitempty"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name,omitempty"`
	Position    string    `json:"position,omitempty"`
	Seat        int       `json:"seat"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"`
	OverallPick int       `json:"overall_pick"`
	Autopick    bool      `json:"autopick"`
	MadeAt      time.Time `json:"made_at"`
	// NextDeadline is unset when the pick completed the draft.
	NextDeadline   *time.Time `json:"next_deadline,omitempty"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
}

// ToPick converts the payload into the pick it records.
func (p PickMadePayload) ToPick(draftID uuid.UUID) models.Pick {
	return models.Pick{
		DraftID:     draftID,
		OverallPick: p.OverallPick,
		Round:       p.Round,
		Pick:        p.Pick,
		Seat:        p.Seat,
		TeamID:      p.TeamID,
		PlayerID:    p.PlayerID,
		Position:    p.Position,
		Autopick:    p.Autopick,
		PickedAt:    p.MadeAt,
	}
}

// DraftPausedPayload is the payload for a DraftPaused event
type DraftPausedPayload struct {
	PausedAt  time.Time     `json:"paused_at"`
	Remaining time.Duration `json:"remaining"`
	Reason    string        `json:"reason,omitempty"`
}

// DraftResumedPayload is the payload for a DraftResumed event
type DraftResumedPayload struct {
	ResumedAt time.Time `json:"resumed_at"`
	Deadline  time.Time `json:"deadline"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	CompletedAt   time.Time     `json:"completed_at"`
	Duration      time.Duration `json:"duration"`
	TotalPicks    int           `json:"total_picks"`
	AutopickCount int           `json:"autopick_count"`
}

// DraftCancelledPayload is the payload for a DraftCancelled event
type DraftCancelledPayload struct {
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// DraftFailedPayload is the payload for a DraftFailed event
type DraftFailedPayload struct {
	FailedAt    time.Time `json:"failed_at"`
	OverallPick int       `json:"overall_pick"`
	Error       string    `json:"error"`
}
