package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/mcdev12/draftroom/go/internal/draft/outbox OutboxRepository

// OutboxRepository defines what the app layer needs from the repository
type OutboxRepository interface {
	FetchUnsentOutbox(ctx context.Context, limit int) ([]OutboxEvent, error)
	FetchOutboxByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error)
	CountUnsentBefore(ctx context.Context, draftID uuid.UUID, sequence int64) (int, error)
	CountUnsent(ctx context.Context) (int, error)
	MarkOutboxSent(ctx context.Context, id uuid.UUID) error
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}

// App handles outbox business logic
type App struct {
	repo OutboxRepository
}

// NewApp creates a new outbox App
func NewApp(repo OutboxRepository) *App {
	return &App{
		repo: repo,
	}
}

// FetchUnsentEvents fetches unsent outbox events, oldest first and in sequence order per draft
func (a *App) FetchUnsentEvents(ctx context.Context, limit int) ([]OutboxEvent, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	events, err := a.repo.FetchUnsentOutbox(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent events: %w", err)
	}

	if len(events) > 0 {
		log.Debug().
			Int("count", len(events)).
			Msg("fetched unsent outbox events")
	}

	return events, nil
}

// MarkEventSent marks an outbox event as sent
func (a *App) MarkEventSent(ctx context.Context, eventID uuid.UUID) error {
	if err := a.repo.MarkOutboxSent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to mark event as sent: %w", err)
	}

	log.Debug().
		Str("event_id", eventID.String()).
		Msg("marked outbox event as sent")

	return nil
}

// GetEventByID fetches an unsent outbox event. ErrEventNotFound means someone already sent it.
func (a *App) GetEventByID(ctx context.Context, eventID uuid.UUID) (*OutboxEvent, error) {
	event, err := a.repo.FetchOutboxByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch event by ID: %w", err)
	}

	return event, nil
}

// HasEarlierUnsent reports whether the draft has unsent events before this one.
func (a *App) HasEarlierUnsent(ctx context.Context, event OutboxEvent) (bool, error) {
	if event.Sequence <= 1 {
		return false, nil
	}
	n, err := a.repo.CountUnsentBefore(ctx, event.DraftID, event.Sequence)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PendingCount returns the number of unsent events
func (a *App) PendingCount(ctx context.Context) (int, error) {
	return a.repo.CountUnsent(ctx)
}

// PurgeSent deletes sent rows older than the retention window
func (a *App) PurgeSent(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	n, err := a.repo.PurgeSent(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("purged", n).Dur("retention", retention).Msg("purged sent outbox events")
	}
	return n, nil
}

// ProcessUnsentEvents processes one batch of unsent events in order. Processing of a draft stops
// at its first failure so later events are not sent ahead of it.
func (a *App) ProcessUnsentEvents(ctx context.Context, batchSize int, processor func(event OutboxEvent) error) (int, error) {
	events, err := a.FetchUnsentEvents(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unsent events: %w", err)
	}

	processedCount := 0
	errorCount := 0
	blocked := make(map[uuid.UUID]bool)

	for _, event := range events {
		if blocked[event.DraftID] {
			continue
		}
		if err := processor(event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to process event")
			blocked[event.DraftID] = true
			errorCount++
			continue
		}

		if err := a.MarkEventSent(ctx, event.ID); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Msg("failed to mark event as sent after processing")
			errorCount++
			continue
		}

		processedCount++
	}

	if processedCount > 0 || errorCount > 0 {
		log.Info().
			Int("processed", processedCount).
			Int("errors", errorCount).
			Int("total", len(events)).
			Msg("processed unsent events batch")
	}

	return processedCount, nil
}
