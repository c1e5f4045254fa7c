package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftMode defines how turn order is generated.
type DraftMode string

const (
	DraftModeSnake   DraftMode = "snake"
	DraftModeAuction DraftMode = "auction"
)

// Valid reports whether the mode is one the engine can order.
func (m DraftMode) Valid() bool {
	return m == DraftModeSnake || m == DraftModeAuction
}

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusPending   DraftStatus = "pending"
	DraftStatusActive    DraftStatus = "active"
	DraftStatusPaused    DraftStatus = "paused"
	DraftStatusComplete  DraftStatus = "complete"
	DraftStatusCancelled DraftStatus = "cancelled"
	DraftStatusFailed    DraftStatus = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s DraftStatus) Terminal() bool {
	switch s {
	case DraftStatusComplete, DraftStatusCancelled, DraftStatusFailed:
		return true
	}
	return false
}

// DraftSettings holds the immutable configuration of a draft.
type DraftSettings struct {
	Rounds           int `json:"rounds"`
	PickTimeLimitSec int `json:"pick_time_limit_sec"`
}

// PickTimeLimit returns the per-pick clock as a duration.
func (s DraftSettings) PickTimeLimit() time.Duration {
	return time.Duration(s.PickTimeLimitSec) * time.Second
}

// Draft represents one live draft session and its counters.
type Draft struct {
	ID               uuid.UUID     `json:"id"`
	LeagueID         uuid.UUID     `json:"league_id"`
	Mode             DraftMode     `json:"mode"`
	Status           DraftStatus   `json:"status"`
	Settings         DraftSettings `json:"settings"`
	ParticipantCount int           `json:"participant_count"`

	CurrentOverall int        `json:"current_overall"`
	CurrentRound   int        `json:"current_round"`
	SeatOnClock    int        `json:"seat_on_clock"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	// Remaining is the frozen clock while paused.
	Remaining time.Duration `json:"remaining,omitempty"`

	AutopickCount int    `json:"autopick_count"`
	LastError     string `json:"last_error,omitempty"`
	Version       int64  `json:"version"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TotalPicks is rounds multiplied by participants.
func (d Draft) TotalPicks() int {
	return d.Settings.Rounds * d.ParticipantCount
}

// DraftState is a point-in-time read of a draft and everything derived from its log.
type DraftState struct {
	Draft        Draft         `json:"draft"`
	Participants []Participant `json:"participants"`
	Picks        []Pick        `json:"picks"`
	Available    []PoolEntry   `json:"available"`
}
