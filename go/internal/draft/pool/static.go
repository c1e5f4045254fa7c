package pool

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a pool file.
type File struct {
	Players []FilePlayer `yaml:"players"`
}

type FilePlayer struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Position string  `yaml:"position"`
	Team     string  `yaml:"team"`
	Rank     int     `yaml:"rank"`
	ADP      float64 `yaml:"adp"`
}

// Static serves one fixed ranked pool to every league.
type Static struct {
	ranked []models.RankedPlayer
	byID   map[string]models.PoolEntry
}

// NewStatic orders players by rank. Unranked players go last in the given order.
func NewStatic(players []models.RankedPlayer) *Static {
	ranked := make([]models.RankedPlayer, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].Rank, ranked[j].Rank
		if ri <= 0 || rj <= 0 {
			return ri > 0 && rj <= 0
		}
		return ri < rj
	})

	byID := make(map[string]models.PoolEntry, len(ranked))
	for _, r := range ranked {
		byID[r.PlayerID] = r.PoolEntry
	}
	return &Static{ranked: ranked, byID: byID}
}

// Parse reads a pool file's YAML.
func Parse(data []byte) ([]models.RankedPlayer, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse pool file: %w", err)
	}

	seen := make(map[string]bool, len(f.Players))
	players := make([]models.RankedPlayer, 0, len(f.Players))
	for i, p := range f.Players {
		if p.ID == "" || p.Position == "" {
			return nil, fmt.Errorf("player %d: id and position are required", i+1)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("player %s listed twice", p.ID)
		}
		seen[p.ID] = true
		players = append(players, models.RankedPlayer{
			PoolEntry: models.PoolEntry{PlayerID: p.ID, Name: p.Name, Position: p.Position, Team: p.Team},
			Rank:      p.Rank,
			ADP:       p.ADP,
		})
	}
	return players, nil
}

// LoadFile builds a Static source from a YAML file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool file: %w", err)
	}
	players, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewStatic(players), nil
}

func (s *Static) Pool(_ context.Context, _ uuid.UUID) ([]models.PoolEntry, error) {
	entries := make([]models.PoolEntry, len(s.ranked))
	for i, r := range s.ranked {
		entries[i] = r.PoolEntry
	}
	return entries, nil
}

func (s *Static) Rankings(_ context.Context, _ uuid.UUID) ([]models.RankedPlayer, error) {
	out := make([]models.RankedPlayer, len(s.ranked))
	copy(out, s.ranked)
	return out, nil
}

func (s *Static) GetPlayer(_ context.Context, playerID string) (*models.PoolEntry, error) {
	e, ok := s.byID[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &e, nil
}
