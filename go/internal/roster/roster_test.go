package roster

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrdersSeats(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r, err := New([]models.Participant{
		{Seat: 3, TeamID: c, Controller: models.ControllerBot},
		{Seat: 1, TeamID: a},
		{Seat: 2, TeamID: b, Controller: models.ControllerHuman},
	})
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	p, ok := r.Seat(1)
	require.True(t, ok)
	assert.Equal(t, a, p.TeamID)
	assert.Equal(t, models.ControllerHuman, p.Controller)

	seat, ok := r.SeatForTeam(c)
	require.True(t, ok)
	assert.Equal(t, 3, seat)

	_, ok = r.Seat(0)
	assert.False(t, ok)
	_, ok = r.Seat(4)
	assert.False(t, ok)
}

func TestNewRejectsBadRosters(t *testing.T) {
	dup := uuid.New()
	tests := []struct {
		name         string
		participants []models.Participant
	}{
		{"empty", nil},
		{"gap", []models.Participant{{Seat: 1, TeamID: uuid.New()}, {Seat: 3, TeamID: uuid.New()}}},
		{"duplicate seat", []models.Participant{{Seat: 1, TeamID: uuid.New()}, {Seat: 1, TeamID: uuid.New()}}},
		{"duplicate team", []models.Participant{{Seat: 1, TeamID: dup}, {Seat: 2, TeamID: dup}}},
		{"no team", []models.Participant{{Seat: 1}}},
		{"bad controller", []models.Participant{{Seat: 1, TeamID: uuid.New(), Controller: "robot"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.participants)
			assert.Error(t, err)
		})
	}
}

func TestBots(t *testing.T) {
	bots := Bots(4)
	r, err := New(bots)
	require.NoError(t, err)
	for seat := 1; seat <= 4; seat++ {
		p, ok := r.Seat(seat)
		require.True(t, ok)
		assert.Equal(t, models.ControllerBot, p.Controller)
	}
}

func TestPresenceDoesNotLeakThroughCopies(t *testing.T) {
	r, err := New(Bots(2))
	require.NoError(t, err)

	require.True(t, r.SetPresence(2, true))
	assert.False(t, r.SetPresence(5, true))

	snapshot := r.Participants()
	snapshot[1].Connected = false

	p, _ := r.Seat(2)
	assert.True(t, p.Connected)
}
