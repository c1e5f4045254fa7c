package clock

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, 12*time.Second, Remaining(now.Add(12*time.Second), now))
	assert.Equal(t, time.Duration(0), Remaining(now, now))
	assert.Equal(t, time.Duration(0), Remaining(now.Add(-time.Second), now))
}

func TestExpired(t *testing.T) {
	deadline := time.Date(2025, 9, 7, 13, 0, 30, 0, time.UTC)

	assert.False(t, Expired(deadline, deadline, 0))
	assert.True(t, Expired(deadline, deadline.Add(time.Millisecond), 0))
	assert.False(t, Expired(deadline, deadline.Add(2*time.Second), 3*time.Second))
	assert.True(t, Expired(deadline, deadline.Add(4*time.Second), 3*time.Second))
}

func TestStopAndDrain(t *testing.T) {
	fc := clockwork.NewFakeClock()

	pending := fc.NewTimer(time.Minute)
	StopAndDrain(pending)
	fc.Advance(2 * time.Minute)
	select {
	case <-pending.Chan():
		t.Fatal("stopped timer fired")
	default:
	}

	fired := fc.NewTimer(time.Second)
	fc.Advance(time.Second)
	StopAndDrain(fired)
	select {
	case <-fired.Chan():
		t.Fatal("fired timer was not drained")
	default:
	}
}
