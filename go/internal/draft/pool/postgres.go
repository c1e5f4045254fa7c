package pool

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mcdev12/draftroom/go/internal/models"
)

//go:embed schema.sql
var schema string

var ErrPlayerNotFound = errors.New("player not found")

// DB is the part of pgxpool.Pool the source uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Postgres reads pools and rankings from the pool_players table.
type Postgres struct {
	db DB
}

func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the pool tables.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate pool schema: %w", err)
	}
	return nil
}

const rankedForLeague = `
SELECT player_id, full_name, position, team, rank, adp
FROM pool_players
WHERE league_id = (
    SELECT COALESCE(
        (SELECT league_id FROM pool_players WHERE league_id = $1 LIMIT 1),
        '00000000-0000-0000-0000-000000000000'::uuid)
)
ORDER BY rank, player_id`

// Rankings returns the ranked pool for a draft's league, falling back to the default pool.
func (p *Postgres) Rankings(ctx context.Context, draftID uuid.UUID) ([]models.RankedPlayer, error) {
	var leagueID uuid.UUID
	err := p.db.QueryRow(ctx, `SELECT COALESCE(league_id, '00000000-0000-0000-0000-000000000000'::uuid) FROM drafts WHERE id = $1`, draftID).Scan(&leagueID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up draft league: %w", err)
	}
	return p.ranked(ctx, leagueID)
}

// Pool returns the draftable players for a league in rank order.
func (p *Postgres) Pool(ctx context.Context, leagueID uuid.UUID) ([]models.PoolEntry, error) {
	ranked, err := p.ranked(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.PoolEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = r.PoolEntry
	}
	return entries, nil
}

func (p *Postgres) ranked(ctx context.Context, leagueID uuid.UUID) ([]models.RankedPlayer, error) {
	rows, err := p.db.Query(ctx, rankedForLeague, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool: %w", err)
	}
	players, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RankedPlayer, error) {
		var r models.RankedPlayer
		err := row.Scan(&r.PlayerID, &r.Name, &r.Position, &r.Team, &r.Rank, &r.ADP)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan pool: %w", err)
	}
	return players, nil
}

// GetPlayer looks a player up in any pool.
func (p *Postgres) GetPlayer(ctx context.Context, playerID string) (*models.PoolEntry, error) {
	var e models.PoolEntry
	err := p.db.QueryRow(ctx, `
		SELECT player_id, full_name, position, team
		FROM pool_players WHERE player_id = $1
		ORDER BY league_id LIMIT 1`, playerID).
		Scan(&e.PlayerID, &e.Name, &e.Position, &e.Team)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &e, nil
}

// Upsert writes ranked players into a league's pool. It returns inserted and updated counts.
func (p *Postgres) Upsert(ctx context.Context, leagueID uuid.UUID, players []models.RankedPlayer) (inserted, updated int, err error) {
	batch := &pgx.Batch{}
	for _, r := range players {
		batch.Queue(`
			INSERT INTO pool_players (league_id, player_id, full_name, position, team, rank, adp)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (league_id, player_id) DO UPDATE
			SET full_name = EXCLUDED.full_name, position = EXCLUDED.position,
			    team = EXCLUDED.team, rank = EXCLUDED.rank, adp = EXCLUDED.adp
			RETURNING (xmax = 0)`,
			leagueID, r.PlayerID, r.Name, r.Position, r.Team, r.Rank, r.ADP)
	}

	results := p.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, r := range players {
		var fresh bool
		if err := results.QueryRow().Scan(&fresh); err != nil {
			return inserted, updated, fmt.Errorf("failed to upsert player %s: %w", r.PlayerID, err)
		}
		if fresh {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, nil
}
