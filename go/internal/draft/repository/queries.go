package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements against the draft tables.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type insertEventParams struct {
	ID         uuid.UUID
	DraftID    uuid.UUID
	Sequence   int64
	EventType  string
	Overall    sql.NullInt32
	TeamID     uuid.NullUUID
	PlayerID   sql.NullString
	Payload    json.RawMessage
	OccurredAt time.Time
}

const insertEvent = `
INSERT INTO draft_events (id, draft_id, sequence, event_type, overall, team_id, player_id, payload, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (q *Queries) InsertEvent(ctx context.Context, arg insertEventParams) error {
	_, err := q.db.ExecContext(ctx, insertEvent,
		arg.ID, arg.DraftID, arg.Sequence, arg.EventType, arg.Overall,
		arg.TeamID, arg.PlayerID, []byte(arg.Payload), arg.OccurredAt,
	)
	return err
}

type upsertDraftParams struct {
	ID           uuid.UUID
	LeagueID     uuid.NullUUID
	Status       string
	Version      int64
	Draft        json.RawMessage
	Participants pqtype.NullRawMessage
}

// Version guards against a stale writer overwriting a newer header.
const upsertDraft = `
INSERT INTO drafts (id, league_id, status, version, draft, participants)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    status       = EXCLUDED.status,
    version      = EXCLUDED.version,
    draft        = EXCLUDED.draft,
    participants = COALESCE(EXCLUDED.participants, drafts.participants),
    updated_at   = now()
WHERE drafts.version < EXCLUDED.version`

func (q *Queries) UpsertDraft(ctx context.Context, arg upsertDraftParams) error {
	_, err := q.db.ExecContext(ctx, upsertDraft,
		arg.ID, arg.LeagueID, arg.Status, arg.Version, []byte(arg.Draft), arg.Participants,
	)
	return err
}

const insertOutbox = `
INSERT INTO draft_outbox (id, draft_id, sequence, event_type, payload)
VALUES ($1, $2, $3, $4, $5)`

func (q *Queries) InsertOutbox(ctx context.Context, id, draftID uuid.UUID, seq int64, eventType string, payload json.RawMessage) error {
	_, err := q.db.ExecContext(ctx, insertOutbox, id, draftID, seq, eventType, []byte(payload))
	return err
}

const notifyOutbox = `SELECT pg_notify($1, $2)`

func (q *Queries) NotifyOutbox(ctx context.Context, channel string, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, notifyOutbox, channel, id.String())
	return err
}

const listEvents = `
SELECT id, draft_id, sequence, event_type, overall, payload, occurred_at
FROM draft_events
WHERE draft_id = $1
ORDER BY sequence`

type eventRow struct {
	ID         uuid.UUID
	DraftID    uuid.UUID
	Sequence   int64
	EventType  string
	Overall    sql.NullInt32
	Payload    []byte
	OccurredAt time.Time
}

func (q *Queries) ListEvents(ctx context.Context, draftID uuid.UUID) ([]eventRow, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []eventRow
	for rows.Next() {
		var i eventRow
		if err := rows.Scan(&i.ID, &i.DraftID, &i.Sequence, &i.EventType, &i.Overall, &i.Payload, &i.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getDraft = `SELECT draft, participants FROM drafts WHERE id = $1`

func (q *Queries) GetDraft(ctx context.Context, id uuid.UUID) ([]byte, pqtype.NullRawMessage, error) {
	var (
		draft        []byte
		participants pqtype.NullRawMessage
	)
	err := q.db.QueryRowContext(ctx, getDraft, id).Scan(&draft, &participants)
	return draft, participants, err
}

const listDraftsByStatus = `SELECT id FROM drafts WHERE status = ANY($1) ORDER BY updated_at`

func (q *Queries) ListDraftsByStatus(ctx context.Context, statuses interface{}) ([]uuid.UUID, error) {
	rows, err := q.db.QueryContext(ctx, listDraftsByStatus, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const listTeamPicks = `
SELECT payload, draft_id
FROM draft_events
WHERE draft_id = $1 AND team_id = $2 AND event_type = 'PickMade'
ORDER BY overall`

func (q *Queries) ListTeamPicks(ctx context.Context, draftID, teamID uuid.UUID) ([][]byte, []uuid.UUID, error) {
	rows, err := q.db.QueryContext(ctx, listTeamPicks, draftID, teamID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		payloads [][]byte
		drafts   []uuid.UUID
	)
	for rows.Next() {
		var (
			p []byte
			d uuid.UUID
		)
		if err := rows.Scan(&p, &d); err != nil {
			return nil, nil, err
		}
		payloads = append(payloads, p)
		drafts = append(drafts, d)
	}
	return payloads, drafts, rows.Err()
}
