package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/mcdev12/draftroom/go/internal/roster"
)

// SeatResult is one seat's haul.
type SeatResult struct {
	Seat      int            `json:"seat"`
	TeamID    uuid.UUID      `json:"team_id"`
	TeamName  string         `json:"team_name"`
	Picks     []models.Pick  `json:"picks"`
	Positions map[string]int `json:"positions"`
	Autopicks int            `json:"autopicks"`
}

// Results summarizes a draft by seat.
type Results struct {
	DraftID       uuid.UUID          `json:"draft_id"`
	Status        models.DraftStatus `json:"status"`
	TotalPicks    int                `json:"total_picks"`
	AutopickCount int                `json:"autopick_count"`
	Seats         []SeatResult       `json:"seats"`
}

// Results groups the picks made so far by seat.
func (o *Orchestrator) Results(ctx context.Context, draftID uuid.UUID) (Results, error) {
	state, err := o.GetState(ctx, draftID)
	if err != nil {
		return Results{}, err
	}
	return Summarize(state), nil
}

// Summarize builds Results from any state snapshot.
func Summarize(state models.DraftState) Results {
	res := Results{
		DraftID:       state.Draft.ID,
		Status:        state.Draft.Status,
		TotalPicks:    len(state.Picks),
		AutopickCount: state.Draft.AutopickCount,
		Seats:         make([]SeatResult, len(state.Participants)),
	}
	for i, p := range state.Participants {
		res.Seats[i] = SeatResult{
			Seat:      p.Seat,
			TeamID:    p.TeamID,
			TeamName:  p.TeamName,
			Positions: make(map[string]int),
		}
	}
	for _, pick := range state.Picks {
		if pick.Seat < 1 || pick.Seat > len(res.Seats) {
			continue
		}
		seat := &res.Seats[pick.Seat-1]
		seat.Picks = append(seat.Picks, pick)
		seat.Positions[pick.Position]++
		if pick.Autopick {
			seat.Autopicks++
		}
	}
	return res
}

func seatForOverall(d models.Draft, overall int) int {
	return turnorder.SeatForPick(overall, d.ParticipantCount, d.Mode)
}

func botSeats(n int) []models.Participant {
	return roster.Bots(n)
}

func validateParticipants(participants []models.Participant) error {
	_, err := roster.New(participants)
	return err
}

// dedupePool keeps the first entry for each player id.
func dedupePool(pool []models.PoolEntry) []models.PoolEntry {
	seen := make(map[string]bool, len(pool))
	out := make([]models.PoolEntry, 0, len(pool))
	for _, p := range pool {
		if p.PlayerID == "" || seen[p.PlayerID] {
			continue
		}
		seen[p.PlayerID] = true
		out = append(out, p)
	}
	return out
}
