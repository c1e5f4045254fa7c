package orchestrator

import (
	"context"
	"fmt"

	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/draft/validator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// commitLocked appends an event and, only once it is stored, applies it and fans it out.
// On error nothing changed.
func (o *Orchestrator) commitLocked(ctx context.Context, inst *instance, typ events.Type, payload any) (events.Event, error) {
	st := inst.state
	ev, err := events.New(st.draft.ID, st.draft.Version+1, typ, o.clock.Now(), payload)
	if err != nil {
		return events.Event{}, err
	}

	next := st.draft
	if err := applyHeader(&next, ev); err != nil {
		return events.Event{}, fmt.Errorf("failed to apply %s: %w", typ, err)
	}

	if err := o.store.AppendEvent(ctx, ev, next); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", ev.DraftID.String()).
			Str("event_type", string(typ)).
			Int64("sequence", ev.Sequence).
			Msg("failed to append event")
		return events.Event{}, fmt.Errorf("%w: %s: %w", ErrPersistence, typ, err)
	}

	if err := st.apply(ev); err != nil {
		// the stored log and memory disagree; nothing safe can continue
		panic(fmt.Sprintf("draft %s: stored event %d cannot be applied: %v", ev.DraftID, ev.Sequence, err))
	}
	inst.retries = 0

	o.hub.Publish(ev)
	o.saveSnapshot(st.snapshot())
	return ev, nil
}

// acceptPickLocked is the one acceptance routine for human picks and autopicks.
func (o *Orchestrator) acceptPickLocked(ctx context.Context, inst *instance, seat int, playerID string, auto bool, key string) (models.Pick, error) {
	st := inst.state
	participant, ok := st.roster.Seat(seat)
	if !ok {
		return models.Pick{}, validator.ErrOutOfTurn
	}

	if err := o.validator.Validate(ctx, st.draft, st, validator.Proposal{
		Seat:     seat,
		TeamID:   participant.TeamID,
		PlayerID: playerID,
	}); err != nil {
		return models.Pick{}, err
	}

	d := st.draft
	now := o.clock.Now()
	overall := d.CurrentOverall
	entry := st.poolIndex[playerID]

	payload := events.PickMadePayload{
		TeamID:         participant.TeamID,
		TeamName:       participant.TeamName,
		PlayerID:       playerID,
		PlayerName:     entry.Name,
		Position:       entry.Position,
		Seat:           seat,
		Round:          turnorder.RoundForPick(overall, d.ParticipantCount),
		Pick:           turnorder.PickInRound(overall, d.ParticipantCount),
		OverallPick:    overall,
		Autopick:       auto,
		MadeAt:         now,
		IdempotencyKey: key,
	}
	if overall < d.TotalPicks() {
		next := pickDeadline(d, now)
		payload.NextDeadline = &next
	}

	if _, err := o.commitLocked(ctx, inst, events.PickMade, payload); err != nil {
		return models.Pick{}, err
	}
	o.cancelTimerLocked(inst)

	log.Info().
		Str("draft_id", d.ID.String()).
		Int("overall_pick", overall).
		Int("seat", seat).
		Str("player_id", playerID).
		Bool("autopick", auto).
		Msg("pick accepted")

	pick := st.picks[len(st.picks)-1]
	if pastLastPick(st.draft) {
		o.completeLocked(ctx, inst)
	} else {
		o.armClockLocked(inst)
	}
	return pick, nil
}

// completeLocked closes a draft whose last pick is in. A failed append is retried by the scheduler.
func (o *Orchestrator) completeLocked(ctx context.Context, inst *instance) {
	d := inst.state.draft
	now := o.clock.Now()

	payload := events.DraftCompletedPayload{
		CompletedAt:   now,
		TotalPicks:    len(inst.state.picks),
		AutopickCount: d.AutopickCount,
	}
	if d.StartedAt != nil {
		payload.Duration = now.Sub(*d.StartedAt)
	}

	if _, err := o.commitLocked(ctx, inst, events.DraftCompleted, payload); err != nil {
		log.Error().Err(err).Str("draft_id", d.ID.String()).Msg("failed to complete draft, will retry")
		o.scheduleRetryLocked(inst)
		return
	}
	o.onTerminalLocked(inst)

	log.Info().
		Str("draft_id", d.ID.String()).
		Dur("duration", payload.Duration).
		Int("total_picks", payload.TotalPicks).
		Int("autopick_count", payload.AutopickCount).
		Msg("draft completed")
}

// failLocked halts a draft that cannot continue.
func (o *Orchestrator) failLocked(ctx context.Context, inst *instance, cause error) {
	d := inst.state.draft
	if _, err := o.commitLocked(ctx, inst, events.DraftFailed, events.DraftFailedPayload{
		FailedAt:    o.clock.Now(),
		OverallPick: d.CurrentOverall,
		Error:       cause.Error(),
	}); err != nil {
		log.Error().Err(err).Str("draft_id", d.ID.String()).Msg("failed to record draft failure, will retry")
		o.scheduleRetryLocked(inst)
		return
	}
	o.onTerminalLocked(inst)

	log.Error().
		Err(cause).
		Str("draft_id", d.ID.String()).
		Int("overall_pick", d.CurrentOverall).
		Msg("draft failed")
}

// onTerminalLocked releases what a finished draft holds. The draft leaves memory;
// later reads replay it from the store.
func (o *Orchestrator) onTerminalLocked(inst *instance) {
	o.cancelTimerLocked(inst)
	draftID := inst.state.draft.ID

	o.mu.Lock()
	if o.drafts[draftID] == inst {
		delete(o.drafts, draftID)
	}
	o.mu.Unlock()

	o.background(func(ctx context.Context) {
		if o.archiver != nil {
			evs, err := o.store.LoadEvents(ctx, draftID)
			if err != nil {
				log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to load events for archive")
			} else if err := o.archiver.Archive(ctx, draftID, evs); err != nil {
				log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to archive draft")
			}
		}
		if o.leaser != nil {
			if err := o.leaser.Release(ctx, draftID, o.instanceID); err != nil {
				log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("failed to release draft lease")
			}
		}
	})
}

func (o *Orchestrator) saveSnapshot(state models.DraftState) {
	if o.snapshots == nil {
		return
	}
	o.background(func(ctx context.Context) {
		if err := o.snapshots.SaveSnapshot(ctx, state); err != nil {
			log.Warn().Err(err).Str("draft_id", state.Draft.ID.String()).Msg("failed to save draft snapshot")
		}
	})
}

// background runs best-effort work off the draft lock. Nothing starts once shutdown began.
func (o *Orchestrator) background(fn func(ctx context.Context)) {
	o.bgMu.Lock()
	defer o.bgMu.Unlock()
	select {
	case <-o.stopped:
		log.Debug().Msg("engine stopped, skipping side effect")
		return
	default:
	}

	o.bg.Add(1)
	go func() {
		defer o.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), o.cfg.SideEffectWait)
		defer cancel()
		fn(ctx)
	}()
}
