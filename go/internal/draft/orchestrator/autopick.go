package orchestrator

import (
	"context"
	"errors"

	"github.com/mcdev12/draftroom/go/internal/draft/autopick"
	"github.com/mcdev12/draftroom/go/internal/draft/validator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// onClockExpiredLocked handles a pick whose time ran out, or a completion that still needs committing.
func (o *Orchestrator) onClockExpiredLocked(ctx context.Context, inst *instance) {
	d := inst.state.draft
	if d.Status != models.DraftStatusActive {
		return
	}
	if pastLastPick(d) {
		o.completeLocked(ctx, inst)
		return
	}
	o.autopickLocked(ctx, inst)
}

// autopickLocked chooses for the seat on the clock and runs the normal acceptance routine.
// Candidates the roster refuses are excluded and the strategy asked again.
func (o *Orchestrator) autopickLocked(ctx context.Context, inst *instance) {
	st := inst.state
	d := st.draft
	participant, _ := st.roster.Seat(d.SeatOnClock)

	strat := o.strat
	if participant.Controller == models.ControllerBot {
		strat = o.botStrat
	}

	exclude := make(map[string]bool)
	for {
		playerID, err := strat.Choose(ctx, autopick.Request{
			DraftID:   d.ID,
			Seat:      d.SeatOnClock,
			TeamID:    participant.TeamID,
			Available: st.availableList(),
			Exclude:   exclude,
		})
		if errors.Is(err, autopick.ErrPoolExhausted) {
			o.failLocked(ctx, inst, err)
			return
		}
		if err != nil {
			log.Error().Err(err).Str("draft_id", d.ID.String()).Msg("auto-pick strategy failed")
			o.scheduleRetryLocked(inst)
			return
		}

		_, err = o.acceptPickLocked(ctx, inst, d.SeatOnClock, playerID, true, "")
		if err == nil {
			return
		}

		r, rejected := validator.IsRejection(err)
		switch {
		case rejected && (r == validator.ErrPlayerTaken || r == validator.ErrRosterInvalid):
			log.Debug().
				Str("draft_id", d.ID.String()).
				Str("player_id", playerID).
				Str("reason", string(r)).
				Msg("auto-pick candidate refused, trying next")
			exclude[playerID] = true
		case rejected:
			// the slot moved on
			return
		default:
			log.Error().Err(err).Str("draft_id", d.ID.String()).Int("overall_pick", d.CurrentOverall).Msg("auto-pick failed")
			o.scheduleRetryLocked(inst)
			return
		}
	}
}
