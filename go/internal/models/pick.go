package models

import (
	"time"

	"github.com/google/uuid"
)

// Pick represents a single accepted selection. Picks are never mutated.
type Pick struct {
	DraftID     uuid.UUID `json:"draft_id"`
	OverallPick int       `json:"overall_pick"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"` // pick number in the round
	Seat        int       `json:"seat"`
	TeamID      uuid.UUID `json:"team_id"`
	PlayerID    string    `json:"player_id"`
	Position    string    `json:"position,omitempty"`
	Autopick    bool      `json:"autopick"`
	PickedAt    time.Time `json:"picked_at"`
}
