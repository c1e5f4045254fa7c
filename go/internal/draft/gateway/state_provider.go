package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// StateProvider interface defines how the gateway reads a draft
type StateProvider interface {
	GetState(ctx context.Context, draftID uuid.UUID) (models.DraftState, error)
}

// ActiveLister lists drafts that are not terminal
type ActiveLister interface {
	ListActive(ctx context.Context) ([]uuid.UUID, error)
}

// SnapshotStore is the snapshot cache the read side prefers
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, draftID uuid.UUID) (*models.DraftState, error)
	SaveSnapshot(ctx context.Context, state models.DraftState) error
}

// EventLoader reads a draft's full log
type EventLoader interface {
	LoadEvents(ctx context.Context, draftID uuid.UUID) ([]events.Event, error)
}

// SnapshotStateProvider serves state from the snapshot cache and falls back to replaying
// the log, refilling the cache on the way out.
type SnapshotStateProvider struct {
	snapshots SnapshotStore
	log       EventLoader
}

func NewSnapshotStateProvider(snapshots SnapshotStore, loader EventLoader) *SnapshotStateProvider {
	return &SnapshotStateProvider{snapshots: snapshots, log: loader}
}

func (p *SnapshotStateProvider) GetState(ctx context.Context, draftID uuid.UUID) (models.DraftState, error) {
	if p.snapshots != nil {
		state, err := p.snapshots.GetSnapshot(ctx, draftID)
		if err == nil {
			return *state, nil
		}
		log.Debug().Err(err).Str("draft_id", draftID.String()).Msg("snapshot miss, replaying log")
	}

	evs, err := p.log.LoadEvents(ctx, draftID)
	if err != nil {
		return models.DraftState{}, fmt.Errorf("failed to load events: %w", err)
	}
	if len(evs) == 0 {
		return models.DraftState{}, orchestrator.ErrDraftNotFound
	}
	state, err := orchestrator.Replay(evs)
	if err != nil {
		if errors.Is(err, orchestrator.ErrDraftNotFound) {
			return models.DraftState{}, err
		}
		return models.DraftState{}, fmt.Errorf("failed to replay draft: %w", err)
	}

	if p.snapshots != nil {
		if err := p.snapshots.SaveSnapshot(ctx, state); err != nil {
			log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("failed to refill snapshot")
		}
	}
	return state, nil
}
