package gateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/clock"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/models"
)

const defaultRecentPicks = 10

// DraftStateResponse is the client view of a draft
type DraftStateResponse struct {
	DraftID        string             `json:"draft_id"`
	LeagueID       string             `json:"league_id,omitempty"`
	Mode           string             `json:"mode"`
	Status         string             `json:"status"`
	Version        int64              `json:"version"`
	CurrentPick    *CurrentPickInfo   `json:"current_pick,omitempty"`
	RecentPicks    []RecentPickInfo   `json:"recent_picks"`
	TimeRemaining  *int               `json:"time_remaining_sec,omitempty"`
	TotalPicks     int                `json:"total_picks"`
	CompletedPicks int                `json:"completed_picks"`
	AutopickCount  int                `json:"autopick_count"`
	LastError      string             `json:"last_error,omitempty"`
	Participants   []ParticipantInfo  `json:"participants"`
	Available      []models.PoolEntry `json:"available"`
	StartedAt      *time.Time         `json:"started_at,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	ServerTime     time.Time          `json:"server_time"`
}

// CurrentPickInfo represents the current pick on the clock
type CurrentPickInfo struct {
	Seat        int        `json:"seat"`
	TeamID      string     `json:"team_id"`
	TeamName    string     `json:"team_name"`
	Controller  string     `json:"controller"`
	Round       int        `json:"round"`
	Pick        int        `json:"pick"`
	OverallPick int        `json:"overall_pick"`
	TimeoutAt   *time.Time `json:"timeout_at,omitempty"`
	TimePerPick int        `json:"time_per_pick_sec"`
}

// RecentPickInfo represents a recently made pick
type RecentPickInfo struct {
	Seat        int       `json:"seat"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	PlayerID    string    `json:"player_id"`
	Position    string    `json:"position"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"`
	OverallPick int       `json:"overall_pick"`
	Autopick    bool      `json:"autopick"`
	MadeAt      time.Time `json:"made_at"`
}

type ParticipantInfo struct {
	Seat       int    `json:"seat"`
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	Controller string `json:"controller"`
	Connected  bool   `json:"connected"`
}

// NewDraftStateResponse builds the view at server time now. Remaining time comes from
// the deadline while active and from the frozen remainder while paused.
func NewDraftStateResponse(state models.DraftState, now time.Time, recent int) *DraftStateResponse {
	d := state.Draft
	resp := &DraftStateResponse{
		DraftID:        d.ID.String(),
		Mode:           string(d.Mode),
		Status:         string(d.Status),
		Version:        d.Version,
		RecentPicks:    []RecentPickInfo{},
		TotalPicks:     d.TotalPicks(),
		CompletedPicks: len(state.Picks),
		AutopickCount:  d.AutopickCount,
		LastError:      d.LastError,
		Participants:   make([]ParticipantInfo, len(state.Participants)),
		Available:      state.Available,
		StartedAt:      d.StartedAt,
		CompletedAt:    d.CompletedAt,
		ServerTime:     now,
	}
	if resp.Available == nil {
		resp.Available = []models.PoolEntry{}
	}
	if d.LeagueID != uuid.Nil {
		resp.LeagueID = d.LeagueID.String()
	}

	names := make(map[int]models.Participant, len(state.Participants))
	for i, p := range state.Participants {
		names[p.Seat] = p
		resp.Participants[i] = ParticipantInfo{
			Seat:       p.Seat,
			TeamID:     p.TeamID.String(),
			TeamName:   p.TeamName,
			Controller: string(p.Controller),
			Connected:  p.Connected,
		}
	}

	if d.SeatOnClock > 0 && (d.Status == models.DraftStatusActive || d.Status == models.DraftStatusPaused) {
		p := names[d.SeatOnClock]
		resp.CurrentPick = &CurrentPickInfo{
			Seat:        d.SeatOnClock,
			TeamID:      p.TeamID.String(),
			TeamName:    p.TeamName,
			Controller:  string(p.Controller),
			Round:       d.CurrentRound,
			Pick:        turnorder.PickInRound(d.CurrentOverall, d.ParticipantCount),
			OverallPick: d.CurrentOverall,
			TimeoutAt:   d.Deadline,
			TimePerPick: d.Settings.PickTimeLimitSec,
		}

		var remaining int
		switch {
		case d.Status == models.DraftStatusPaused:
			remaining = int(d.Remaining.Seconds())
		case d.Deadline != nil:
			remaining = int(clock.Remaining(*d.Deadline, now).Seconds())
		}
		resp.TimeRemaining = &remaining
	}

	start := len(state.Picks) - recent
	if start < 0 {
		start = 0
	}
	for i := len(state.Picks) - 1; i >= start; i-- {
		pick := state.Picks[i]
		resp.RecentPicks = append(resp.RecentPicks, RecentPickInfo{
			Seat:        pick.Seat,
			TeamID:      pick.TeamID.String(),
			TeamName:    names[pick.Seat].TeamName,
			PlayerID:    pick.PlayerID,
			Position:    pick.Position,
			Round:       pick.Round,
			Pick:        pick.Pick,
			OverallPick: pick.OverallPick,
			Autopick:    pick.Autopick,
			MadeAt:      pick.PickedAt,
		})
	}
	return resp
}
