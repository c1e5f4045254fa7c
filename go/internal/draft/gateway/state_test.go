package gateway

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewState(status models.DraftStatus, picks int) models.DraftState {
	now := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)
	deadline := now.Add(20 * time.Second)
	state := models.DraftState{
		Draft: models.Draft{
			ID:               uuid.New(),
			Mode:             models.DraftModeSnake,
			Status:           status,
			Settings:         models.DraftSettings{Rounds: 3, PickTimeLimitSec: 30},
			ParticipantCount: 4,
			CurrentOverall:   picks + 1,
			CurrentRound:     picks/4 + 1,
			SeatOnClock:      4,
			Deadline:         &deadline,
			Remaining:        12 * time.Second,
		},
	}
	for seat := 1; seat <= 4; seat++ {
		state.Participants = append(state.Participants, models.Participant{
			Seat:       seat,
			TeamID:     uuid.New(),
			TeamName:   "Team",
			Controller: models.ControllerHuman,
			Connected:  seat == 4,
		})
	}
	for i := 1; i <= picks; i++ {
		state.Picks = append(state.Picks, models.Pick{OverallPick: i, Seat: i, PlayerID: "p", PickedAt: now})
	}
	return state
}

func TestNewDraftStateResponse(t *testing.T) {
	now := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		status        models.DraftStatus
		wantRemaining *int
		wantCurrent   bool
	}{
		{name: "active counts down from the deadline", status: models.DraftStatusActive, wantRemaining: ptr(20), wantCurrent: true},
		{name: "paused shows the frozen remainder", status: models.DraftStatusPaused, wantRemaining: ptr(12), wantCurrent: true},
		{name: "complete has no clock", status: models.DraftStatusComplete},
		{name: "pending has no clock", status: models.DraftStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewDraftStateResponse(viewState(tt.status, 3), now, defaultRecentPicks)

			assert.Equal(t, string(tt.status), resp.Status)
			assert.Equal(t, 12, resp.TotalPicks)
			assert.Equal(t, 3, resp.CompletedPicks)
			assert.Equal(t, tt.wantRemaining, resp.TimeRemaining)
			if !tt.wantCurrent {
				assert.Nil(t, resp.CurrentPick)
				return
			}
			require.NotNil(t, resp.CurrentPick)
			assert.Equal(t, 4, resp.CurrentPick.Seat)
			assert.Equal(t, 4, resp.CurrentPick.OverallPick)
			assert.Equal(t, 4, resp.CurrentPick.Pick)
			assert.Equal(t, 30, resp.CurrentPick.TimePerPick)
		})
	}
}

func TestNewDraftStateResponseRecentPicks(t *testing.T) {
	now := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)
	resp := NewDraftStateResponse(viewState(models.DraftStatusActive, 4), now, 2)

	require.Len(t, resp.RecentPicks, 2)
	assert.Equal(t, 4, resp.RecentPicks[0].OverallPick)
	assert.Equal(t, 3, resp.RecentPicks[1].OverallPick)
	assert.True(t, resp.Participants[3].Connected)
	assert.Empty(t, resp.LeagueID)
	assert.NotNil(t, resp.Available)
}

func TestFromEventTrimsPool(t *testing.T) {
	draftID := uuid.New()
	ev, err := events.New(draftID, 1, events.DraftCreated, time.Now(), events.DraftCreatedPayload{
		Mode:   models.DraftModeSnake,
		Rounds: 2,
		Pool:   []models.PoolEntry{{PlayerID: "p1"}, {PlayerID: "p2"}},
	})
	require.NoError(t, err)

	msg, err := FromEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, EventTypeDraftCreated, msg.Type)
	assert.Equal(t, draftID.String(), msg.DraftID)
	assert.Equal(t, int64(1), msg.Sequence)

	parsed, err := ParseEventPayload(msg)
	require.NoError(t, err)
	created, ok := parsed.(*events.DraftCreatedPayload)
	require.True(t, ok)
	assert.Empty(t, created.Pool)
	assert.Equal(t, 2, created.Rounds)
}

func TestFromEventKeepsPickPayload(t *testing.T) {
	ev, err := events.New(uuid.New(), 5, events.PickMade, time.Now(), events.PickMadePayload{
		PlayerID:    "p9",
		Seat:        2,
		OverallPick: 3,
	})
	require.NoError(t, err)

	msg, err := FromEvent(ev)
	require.NoError(t, err)
	parsed, err := ParseEventPayload(msg)
	require.NoError(t, err)
	pick := parsed.(*events.PickMadePayload)
	assert.Equal(t, "p9", pick.PlayerID)
	assert.Equal(t, 3, pick.OverallPick)
}

func TestParseEventPayloadUnknownType(t *testing.T) {
	_, err := ParseEventPayload(&DraftEvent{Type: "Bogus", Data: []byte(`{}`)})
	assert.Error(t, err)
}

func ptr(v int) *int { return &v }
