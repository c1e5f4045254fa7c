package pool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poolYAML = `
players:
  - {id: rb1, name: Running Back One, position: RB, team: SF, rank: 2, adp: 2.4}
  - {id: wr1, name: Receiver One, position: WR, team: MIN, rank: 1, adp: 1.1}
  - {id: k1, name: Kicker, position: K, team: BAL}
  - {id: qb1, name: Quarterback One, position: QB, team: KC, rank: 3}
`

func TestParseAndOrder(t *testing.T) {
	players, err := Parse([]byte(poolYAML))
	require.NoError(t, err)
	require.Len(t, players, 4)

	s := NewStatic(players)
	ctx := context.Background()

	ranked, err := s.Rankings(ctx, uuid.New())
	require.NoError(t, err)
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.PlayerID
	}
	assert.Equal(t, []string{"wr1", "rb1", "qb1", "k1"}, ids)

	entries, err := s.Pool(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "wr1", entries[0].PlayerID)
	assert.Equal(t, "WR", entries[0].Position)

	p, err := s.GetPlayer(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "K", p.Position)

	_, err = s.GetPlayer(ctx, "nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestParseRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing position", "players:\n  - {id: a}\n"},
		{"missing id", "players:\n  - {position: QB}\n"},
		{"duplicate", "players:\n  - {id: a, position: QB}\n  - {id: a, position: RB}\n"},
		{"not yaml", "players: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(poolYAML), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	ranked, err := s.Rankings(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, ranked, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
