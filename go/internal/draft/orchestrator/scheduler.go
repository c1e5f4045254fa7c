package orchestrator

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftroom/go/internal/draft/clock"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// armClockLocked schedules the one-shot timer for the pick on the clock.
// Bot seats fire after the bot delay; human seats at the deadline plus grace.
func (o *Orchestrator) armClockLocked(inst *instance) {
	st := inst.state
	d := st.draft
	if d.Status != models.DraftStatusActive || d.Deadline == nil {
		return
	}

	wait := clock.Remaining(*d.Deadline, o.clock.Now()) + o.graceFor(st, d.SeatOnClock)
	if p, ok := st.roster.Seat(d.SeatOnClock); ok && p.Controller == models.ControllerBot && o.cfg.BotPickDelay < wait {
		wait = o.cfg.BotPickDelay
	}
	o.scheduleLocked(inst, d.CurrentOverall, wait)
}

func (o *Orchestrator) graceFor(st *draftState, seat int) time.Duration {
	if p, ok := st.roster.Seat(seat); ok && p.Controller == models.ControllerBot {
		return 0
	}
	return o.cfg.LateGrace
}

// scheduleLocked starts the draft's single timer. A second timer while one is live is a bug.
func (o *Orchestrator) scheduleLocked(inst *instance, overall int, d time.Duration) {
	draftID := inst.state.draft.ID
	if inst.timer != nil {
		panic(fmt.Sprintf("draft %s: timer for pick %d scheduled while timer for pick %d is live",
			draftID, overall, inst.timerOverall))
	}

	inst.timerGen++
	gen := inst.timerGen
	timer := o.clock.NewTimer(d)
	cancel := make(chan struct{})
	inst.timer = timer
	inst.timerCancel = cancel
	inst.timerOverall = overall

	// Start goroutine to wait for timer and enqueue work
	go func(t clockwork.Timer) {
		select {
		case <-t.Chan():
			select {
			case o.workCh <- timeout{draftID: draftID, overall: overall, gen: gen}:
				log.Debug().Str("draft_id", draftID.String()).Int("overall_pick", overall).Msg("timer fired - enqueued for processing")
			case <-cancel:
			case <-o.stopped:
			}
		case <-cancel:
		case <-o.stopped:
		}
	}(timer)

	log.Debug().
		Str("draft_id", draftID.String()).
		Int("overall_pick", overall).
		Dur("duration", d).
		Msg("scheduled one-shot timer")
}

// cancelTimerLocked stops the draft's timer if one is live.
func (o *Orchestrator) cancelTimerLocked(inst *instance) {
	if inst.timer == nil {
		return
	}
	clock.StopAndDrain(inst.timer)
	close(inst.timerCancel)
	inst.timer = nil
	inst.timerCancel = nil
	// a fired timer already in workCh is now stale
	inst.timerGen++
}

// scheduleRetryLocked re-arms the timer with exponential backoff after a failed engine-driven commit.
func (o *Orchestrator) scheduleRetryLocked(inst *instance) {
	o.cancelTimerLocked(inst)

	backoff := o.cfg.RetryBackoff << uint(min(inst.retries, 16))
	if backoff > o.cfg.MaxRetryBackoff || backoff <= 0 {
		backoff = o.cfg.MaxRetryBackoff
	}
	inst.retries++

	log.Warn().
		Str("draft_id", inst.state.draft.ID.String()).
		Int("attempt", inst.retries).
		Dur("backoff", backoff).
		Msg("retrying draft transition")
	o.scheduleLocked(inst, inst.state.draft.CurrentOverall, backoff)
}
