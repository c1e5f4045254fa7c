package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrEventNotFound is returned when an outbox row is missing or already sent.
var ErrEventNotFound = errors.New("outbox event not found or already sent")

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{
		db: db,
	}
}

// occurred_at and overall come from the event row the outbox entry was written with.
const selectOutbox = `
SELECT o.id, o.draft_id, o.sequence, o.event_type, COALESCE(e.overall, 0), o.payload,
       COALESCE(e.occurred_at, o.created_at), o.created_at
FROM draft_outbox o
LEFT JOIN draft_events e ON e.id = o.id`

const fetchUnsentOutbox = selectOutbox + `
WHERE o.sent_at IS NULL
ORDER BY o.created_at, o.draft_id, o.sequence
LIMIT $1`

const fetchOutboxByID = selectOutbox + `
WHERE o.id = $1 AND o.sent_at IS NULL`

const countUnsentBefore = `
SELECT COUNT(*) FROM draft_outbox
WHERE draft_id = $1 AND sequence < $2 AND sent_at IS NULL`

const countUnsent = `SELECT COUNT(*) FROM draft_outbox WHERE sent_at IS NULL`

const markOutboxSent = `UPDATE draft_outbox SET sent_at = now() WHERE id = $1 AND sent_at IS NULL`

const purgeSent = `DELETE FROM draft_outbox WHERE sent_at IS NOT NULL AND sent_at < $1`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutbox(row rowScanner) (OutboxEvent, error) {
	var ev OutboxEvent
	var payload []byte
	err := row.Scan(
		&ev.ID, &ev.DraftID, &ev.Sequence, &ev.EventType, &ev.Overall, &payload,
		&ev.OccurredAt, &ev.CreatedAt,
	)
	ev.Payload = payload
	return ev, err
}

func (r *Repository) FetchUnsentOutbox(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, fetchUnsentOutbox, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		ev, err := scanOutbox(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
	}
	return out, nil
}

func (r *Repository) FetchOutboxByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error) {
	ev, err := scanOutbox(r.db.QueryRowContext(ctx, fetchOutboxByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to fetch outbox event by ID: %w", err)
	}
	return &ev, nil
}

func (r *Repository) CountUnsentBefore(ctx context.Context, draftID uuid.UUID, sequence int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUnsentBefore, draftID, sequence).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count earlier unsent events: %w", err)
	}
	return n, nil
}

func (r *Repository) CountUnsent(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUnsent).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unsent events: %w", err)
	}
	return n, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, markOutboxSent, id); err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}

func (r *Repository) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeSent, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sent outbox events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged outbox events: %w", err)
	}
	return n, nil
}
