package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the interface we use for time operations.
// In production, use NewReal(). In tests, a clockwork.FakeClock.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
}

// NewReal returns the wall clock.
func NewReal() Clock {
	return clockwork.NewRealClock()
}

// Remaining returns how much of a pick window is left at now, floored at zero.
func Remaining(deadline, now time.Time) time.Duration {
	if d := deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Expired reports whether now is past deadline plus grace.
func Expired(deadline, now time.Time, grace time.Duration) bool {
	return now.After(deadline.Add(grace))
}

// StopAndDrain stops a timer and drains its channel if it already fired.
func StopAndDrain(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
