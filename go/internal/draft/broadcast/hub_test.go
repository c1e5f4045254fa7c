package broadcast

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRoutesByDraft(t *testing.T) {
	h := NewHub()
	a, b := uuid.New(), uuid.New()

	subA := h.Subscribe(a, 4)
	subB := h.Subscribe(b, 4)
	all := h.Subscribe(uuid.Nil, 4)
	defer subA.Close()
	defer subB.Close()
	defer all.Close()

	h.Publish(events.Event{DraftID: a, Sequence: 1, Type: events.DraftStarted})

	require.Len(t, subA.C, 1)
	assert.Len(t, subB.C, 0)
	require.Len(t, all.C, 1)

	ev := <-subA.C
	assert.Equal(t, int64(1), ev.Sequence)
}

func TestSlowSubscriberDropsWithoutBlocking(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	sub := h.Subscribe(id, 1)
	defer sub.Close()

	for i := 1; i <= 3; i++ {
		h.Publish(events.Event{DraftID: id, Sequence: int64(i)})
	}

	assert.Equal(t, int64(2), sub.Dropped())
	ev := <-sub.C
	assert.Equal(t, int64(1), ev.Sequence)
}

func TestCloseRemovesAndClosesChannel(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	sub := h.Subscribe(id, 0)
	require.Equal(t, 1, h.Count(id))

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, h.Count(id))

	_, open := <-sub.C
	assert.False(t, open)

	h.Publish(events.Event{DraftID: id})
}
