package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// instance returns the live draft, loading it from the store on first use.
func (o *Orchestrator) instance(ctx context.Context, draftID uuid.UUID) (*instance, error) {
	o.mu.RLock()
	inst, ok := o.drafts[draftID]
	o.mu.RUnlock()
	if ok {
		return inst, nil
	}
	return o.load(ctx, draftID)
}

// load replays a draft from its log and takes ownership of its clock.
func (o *Orchestrator) load(ctx context.Context, draftID uuid.UUID) (*instance, error) {
	evs, err := o.store.LoadEvents(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	if len(evs) == 0 {
		return nil, ErrDraftNotFound
	}
	st, err := replay(evs)
	if err != nil {
		return nil, err
	}

	if o.leaser != nil && !st.draft.Status.Terminal() {
		held, err := o.leaser.Acquire(ctx, draftID, o.instanceID)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire draft lease: %w", err)
		}
		if !held {
			return nil, ErrNotOwner
		}
	}

	// finished drafts are read straight from the log and not kept
	if st.draft.Status.Terminal() {
		return &instance{state: st}, nil
	}

	o.mu.Lock()
	if existing, ok := o.drafts[draftID]; ok {
		o.mu.Unlock()
		return existing, nil
	}
	inst := &instance{state: st}
	o.drafts[draftID] = inst
	o.mu.Unlock()

	inst.mu.Lock()
	if pastLastPick(st.draft) {
		// the last pick is in but the completion never landed
		o.completeLocked(ctx, inst)
	} else {
		o.armClockLocked(inst)
	}
	inst.mu.Unlock()

	log.Info().
		Str("draft_id", draftID.String()).
		Str("status", string(st.draft.Status)).
		Int("overall_pick", st.draft.CurrentOverall).
		Int("events", len(evs)).
		Msg("draft loaded from log")
	return inst, nil
}

// Recover loads every non-terminal draft in the store and re-arms its clock from the
// persisted deadline. A draft whose deadline passed while down is picked for at once.
func (o *Orchestrator) Recover(ctx context.Context) error {
	ids, err := o.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active drafts: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.numWorkers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := o.instance(gctx, id)
			if errors.Is(err, ErrNotOwner) {
				log.Info().Str("draft_id", id.String()).Msg("draft owned elsewhere, skipping")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to recover draft %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Int("drafts", len(ids)).Str("instance", o.instanceID).Msg("recovery complete")
	return nil
}

// Replay folds a log into a state with the same routine the live engine uses.
func Replay(evs []events.Event) (models.DraftState, error) {
	st, err := replay(evs)
	if err != nil {
		return models.DraftState{}, err
	}
	return st.snapshot(), nil
}
