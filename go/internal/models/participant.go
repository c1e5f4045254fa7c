package models

import "github.com/google/uuid"

// ControllerKind says who acts for a seat.
type ControllerKind string

const (
	ControllerHuman ControllerKind = "human"
	ControllerBot   ControllerKind = "bot"
)

// Participant is one seat in the draft. Seat is fixed for the lifetime of the draft.
type Participant struct {
	Seat       int            `json:"seat"`
	TeamID     uuid.UUID      `json:"team_id"`
	TeamName   string         `json:"team_name"`
	Controller ControllerKind `json:"controller"`
	// Connected is presence for the UI only.
	Connected bool `json:"connected"`
}
