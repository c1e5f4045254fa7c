package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/mcdev12/draftroom/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"
)

var (
	// ErrNotFound is returned when a draft has no rows.
	ErrNotFound = errors.New("draft not found")
	// ErrConflict is returned when an append collides with an existing sequence, slot or player.
	ErrConflict = errors.New("event conflicts with the draft log")
)

// DefaultNotifyChannel is the channel the outbox relay LISTENs on.
const DefaultNotifyChannel = "draft_outbox_events"

//go:embed schema.sql
var schema string

// Migrate creates the draft tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply draft schema: %w", err)
	}
	return nil
}

// Repository is the Postgres event store.
type Repository struct {
	db            *sql.DB
	queries       *Queries
	notifyChannel string
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:            db,
		queries:       New(db),
		notifyChannel: DefaultNotifyChannel,
	}
}

// AppendEvent writes the event, the derived header row and the outbox row in one transaction,
// then notifies the relay. Nothing is written when any step fails.
func (r *Repository) AppendEvent(ctx context.Context, ev events.Event, draft models.Draft) error {
	params := insertEventParams{
		ID:         ev.ID,
		DraftID:    ev.DraftID,
		Sequence:   ev.Sequence,
		EventType:  string(ev.Type),
		Payload:    ev.Payload,
		OccurredAt: ev.OccurredAt,
	}

	var participants pqtype.NullRawMessage
	switch ev.Type {
	case events.PickMade:
		var p events.PickMadePayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		params.Overall = sqlutil.ToSqlInt32Direct(p.OverallPick)
		params.TeamID = sqlutil.ToNullUUID(&p.TeamID)
		params.PlayerID = sqlutil.ToSqlString(&p.PlayerID)
	case events.DraftCreated:
		var p events.DraftCreatedPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		raw, err := json.Marshal(p.Participants)
		if err != nil {
			return fmt.Errorf("failed to marshal participants: %w", err)
		}
		participants = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	header, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft header: %w", err)
	}
	var leagueID *uuid.UUID
	if draft.LeagueID != uuid.Nil {
		leagueID = &draft.LeagueID
	}

	err = sqlutil.Run(ctx, r.db, func(tx *sql.Tx) *Queries { return New(tx) }, func(q *Queries) error {
		if err := q.InsertEvent(ctx, params); err != nil {
			return fmt.Errorf("failed to insert %s event: %w", ev.Type, mapConflict(err))
		}
		if err := q.UpsertDraft(ctx, upsertDraftParams{
			ID:           draft.ID,
			LeagueID:     sqlutil.ToNullUUID(leagueID),
			Status:       string(draft.Status),
			Version:      draft.Version,
			Draft:        header,
			Participants: participants,
		}); err != nil {
			return fmt.Errorf("failed to upsert draft header: %w", err)
		}
		if err := q.InsertOutbox(ctx, ev.ID, ev.DraftID, ev.Sequence, string(ev.Type), ev.Payload); err != nil {
			return fmt.Errorf("failed to insert %s outbox event: %w", ev.Type, err)
		}
		// delivered on commit
		return q.NotifyOutbox(ctx, r.notifyChannel, ev.ID)
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("draft_id", ev.DraftID.String()).
		Str("event_type", string(ev.Type)).
		Int64("sequence", ev.Sequence).
		Msg("event appended")
	return nil
}

// LoadEvents returns the draft's log in sequence order.
func (r *Repository) LoadEvents(ctx context.Context, draftID uuid.UUID) ([]events.Event, error) {
	rows, err := r.queries.ListEvents(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	out := make([]events.Event, len(rows))
	for i, row := range rows {
		var overall int
		if v := sqlutil.FromSqlInt32(row.Overall); v != nil {
			overall = *v
		}
		out[i] = events.Event{
			ID:         row.ID,
			DraftID:    row.DraftID,
			Sequence:   row.Sequence,
			Type:       events.Type(row.EventType),
			Overall:    overall,
			OccurredAt: row.OccurredAt,
			Payload:    row.Payload,
		}
	}
	return out, nil
}

// LoadState returns the derived header row. It may lag the log; replay is authoritative.
func (r *Repository) LoadState(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	raw, _, err := r.queries.GetDraft(ctx, draftID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	var d models.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft header: %w", err)
	}
	return &d, nil
}

// ListActive returns the drafts that still need a live engine.
func (r *Repository) ListActive(ctx context.Context) ([]uuid.UUID, error) {
	statuses := []string{
		string(models.DraftStatusPending),
		string(models.DraftStatusActive),
		string(models.DraftStatusPaused),
	}
	ids, err := r.queries.ListDraftsByStatus(ctx, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list active drafts: %w", err)
	}
	return ids, nil
}

// TeamPicks returns the picks a team made in one draft, in overall order.
func (r *Repository) TeamPicks(ctx context.Context, draftID, teamID uuid.UUID) ([]models.Pick, error) {
	payloads, drafts, err := r.queries.ListTeamPicks(ctx, draftID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team picks: %w", err)
	}
	picks := make([]models.Pick, 0, len(payloads))
	for i, raw := range payloads {
		var p events.PickMadePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal PickMade payload: %w", err)
		}
		picks = append(picks, p.ToPick(drafts[i]))
	}
	return picks, nil
}

func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	return err
}
