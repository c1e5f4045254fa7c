// Package validator decides whether a proposed pick may be accepted.
// Validate never mutates anything; the caller commits on success.
package validator

//go:generate mockgen -package=mocks -destination=mocks/mock_roster.go github.com/mcdev12/draftroom/go/internal/draft/validator RosterChecker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// Rejection is a machine readable reason a pick was refused.
type Rejection string

func (r Rejection) Error() string {
	return string(r)
}

const (
	ErrNotActive     Rejection = "NotActive"
	ErrOutOfTurn     Rejection = "OutOfTurn"
	ErrPlayerTaken   Rejection = "PlayerTaken"
	ErrRosterInvalid Rejection = "RosterInvalid"
)

// RosterChecker defines what the validator needs from the roster service
type RosterChecker interface {
	IsLegal(ctx context.Context, draftID, teamID uuid.UUID, playerID string) (bool, error)
}

// Pool answers availability questions about the draft's player pool.
type Pool interface {
	IsAvailable(playerID string) bool
}

// Proposal is a seat asking to take a player.
type Proposal struct {
	Seat     int
	TeamID   uuid.UUID
	PlayerID string
}

// Validator runs the ordered acceptance checks.
type Validator struct {
	roster RosterChecker
}

// New creates a Validator. A nil roster skips the legality check.
func New(roster RosterChecker) *Validator {
	return &Validator{roster: roster}
}

// Validate returns nil when the proposal may be accepted, a Rejection when it may not,
// or a wrapped error when the roster collaborator failed. The first failing check wins.
func (v *Validator) Validate(ctx context.Context, draft models.Draft, pool Pool, p Proposal) error {
	if draft.Status != models.DraftStatusActive {
		return ErrNotActive
	}

	// past the last slot only the completion is outstanding
	if draft.CurrentOverall < 1 || draft.CurrentOverall > draft.TotalPicks() {
		return ErrNotActive
	}

	if p.Seat != turnorder.SeatForPick(draft.CurrentOverall, draft.ParticipantCount, draft.Mode) {
		return ErrOutOfTurn
	}

	// unknown players are not available either
	if !pool.IsAvailable(p.PlayerID) {
		return ErrPlayerTaken
	}

	if v.roster == nil {
		return nil
	}
	ok, err := v.roster.IsLegal(ctx, draft.ID, p.TeamID, p.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to check roster legality: %w", err)
	}
	if !ok {
		return ErrRosterInvalid
	}
	return nil
}

// IsRejection reports whether err is one of the pick rejections.
func IsRejection(err error) (Rejection, bool) {
	r, ok := err.(Rejection)
	return r, ok
}
