package pool

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres when DRAFTROOM_TEST_DSN is set.
func TestPostgresPool(t *testing.T) {
	dsn := os.Getenv("DRAFTROOM_TEST_DSN")
	if dsn == "" {
		t.Skip("DRAFTROOM_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	src := NewPostgres(db)
	require.NoError(t, src.Migrate(ctx))

	league := uuid.New()
	players := []models.RankedPlayer{
		{PoolEntry: models.PoolEntry{PlayerID: "t-qb", Name: "QB", Position: "QB"}, Rank: 2},
		{PoolEntry: models.PoolEntry{PlayerID: "t-rb", Name: "RB", Position: "RB"}, Rank: 1},
	}
	inserted, updated, err := src.Upsert(ctx, league, players)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 0, updated)

	_, updated, err = src.Upsert(ctx, league, players[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	entries, err := src.Pool(ctx, league)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "t-rb", entries[0].PlayerID)

	p, err := src.GetPlayer(ctx, "t-qb")
	require.NoError(t, err)
	assert.Equal(t, "QB", p.Position)
}
