package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsOverallForPicks(t *testing.T) {
	draftID := uuid.New()
	at := time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC)

	ev, err := New(draftID, 7, PickMade, at, PickMadePayload{PlayerID: "p1", OverallPick: 5, Seat: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, ev.Overall)
	assert.Equal(t, int64(7), ev.Sequence)
	assert.Equal(t, "draft.events.PickMade", ev.Subject())

	var p PickMadePayload
	require.NoError(t, ev.Decode(&p))
	assert.Equal(t, "p1", p.PlayerID)
	assert.Equal(t, 4, p.Seat)

	started, err := New(draftID, 2, DraftStarted, at, DraftStartedPayload{Deadline: at.Add(time.Minute)})
	require.NoError(t, err)
	assert.Zero(t, started.Overall)
}

func TestDecodeBadPayload(t *testing.T) {
	ev := Event{Type: DraftPaused, Payload: []byte("{")}
	var p DraftPausedPayload
	err := ev.Decode(&p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DraftPaused")
}
