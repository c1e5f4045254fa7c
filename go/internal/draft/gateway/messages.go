package gateway

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// ParticipantMessage is a seat in a CreateDraft call.
type ParticipantMessage struct {
	Seat       int    `json:"seat"`
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name,omitempty"`
	Controller string `json:"controller,omitempty"`
}

type CreateDraftRequest struct {
	DraftID          string               `json:"draft_id,omitempty"`
	LeagueID         string               `json:"league_id,omitempty"`
	Mode             string               `json:"mode"`
	Rounds           int                  `json:"rounds"`
	PickTimeLimitSec int                  `json:"pick_time_limit_sec"`
	Participants     []ParticipantMessage `json:"participants,omitempty"`
	BotCount         int                  `json:"bot_count,omitempty"`
}

// DraftRequest addresses one draft. Reason is recorded on pause and cancel.
type DraftRequest struct {
	DraftID string `json:"draft_id"`
	Reason  string `json:"reason,omitempty"`
}

type SubmitPickRequest struct {
	DraftID        string `json:"draft_id"`
	Seat           int    `json:"seat,omitempty"`
	PlayerID       string `json:"player_id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type SubmitPickResponse struct {
	Pick models.Pick `json:"pick"`
}

type ResultsResponse struct {
	Results orchestrator.Results `json:"results"`
}

func (r *CreateDraftRequest) toEngine() (orchestrator.CreateDraftRequest, error) {
	out := orchestrator.CreateDraftRequest{
		Mode:             models.DraftMode(r.Mode),
		Rounds:           r.Rounds,
		PickTimeLimitSec: r.PickTimeLimitSec,
		BotCount:         r.BotCount,
	}
	var err error
	if out.ID, err = parseOptionalUUID(r.DraftID); err != nil {
		return out, fmt.Errorf("invalid draft_id: %w", err)
	}
	if out.LeagueID, err = parseOptionalUUID(r.LeagueID); err != nil {
		return out, fmt.Errorf("invalid league_id: %w", err)
	}

	for _, p := range r.Participants {
		teamID, err := uuid.Parse(p.TeamID)
		if err != nil {
			return out, fmt.Errorf("invalid team_id for seat %d: %w", p.Seat, err)
		}
		out.Participants = append(out.Participants, models.Participant{
			Seat:       p.Seat,
			TeamID:     teamID,
			TeamName:   p.TeamName,
			Controller: models.ControllerKind(p.Controller),
		})
	}
	return out, nil
}

func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
