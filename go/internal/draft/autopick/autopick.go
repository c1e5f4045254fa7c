// Package autopick chooses a player for a seat whose clock ran out, or for a bot seat.
package autopick

//go:generate mockgen -package=mocks -destination=mocks/mock_autopick.go github.com/mcdev12/draftroom/go/internal/draft/autopick RankingSource,NeedsProvider

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrPoolExhausted means there is nothing left to choose from. It is fatal for the draft.
var ErrPoolExhausted = errors.New("player pool exhausted")

// Request is the view of the draft a strategy chooses from.
type Request struct {
	DraftID uuid.UUID
	Seat    int
	TeamID  uuid.UUID
	// Available is in pool order.
	Available []models.PoolEntry
	// Exclude holds players that already failed acceptance for this pick.
	Exclude map[string]bool
}

func (r Request) candidates() []models.PoolEntry {
	if len(r.Exclude) == 0 {
		return r.Available
	}
	out := make([]models.PoolEntry, 0, len(r.Available))
	for _, p := range r.Available {
		if !r.Exclude[p.PlayerID] {
			out = append(out, p)
		}
	}
	return out
}

// Strategy picks a player id from the request's available players.
type Strategy interface {
	Choose(ctx context.Context, req Request) (string, error)
}

// RankingSource defines what autopick needs from the rankings provider
type RankingSource interface {
	Rankings(ctx context.Context, draftID uuid.UUID) ([]models.RankedPlayer, error)
}

// NeedsProvider defines what autopick needs from the roster service
type NeedsProvider interface {
	OpenNeeds(ctx context.Context, draftID, teamID uuid.UUID) ([]string, error)
}

// RankedStrategy takes the best ranked player at an open roster need,
// falling back to the best ranked player at any position.
type RankedStrategy struct {
	rankings RankingSource
	needs    NeedsProvider
}

// NewRankedStrategy creates the default strategy. needs may be nil.
func NewRankedStrategy(rankings RankingSource, needs NeedsProvider) *RankedStrategy {
	return &RankedStrategy{rankings: rankings, needs: needs}
}

// Choose implements Strategy.
func (s *RankedStrategy) Choose(ctx context.Context, req Request) (string, error) {
	ordered, err := s.ordered(ctx, req)
	if err != nil {
		return "", err
	}
	if len(ordered) == 0 {
		return "", ErrPoolExhausted
	}

	if s.needs != nil {
		needs, err := s.needs.OpenNeeds(ctx, req.DraftID, req.TeamID)
		if err != nil {
			// needs only refine the choice
			log.Warn().Err(err).Str("draft_id", req.DraftID.String()).Int("seat", req.Seat).Msg("failed to load open needs")
		}
		for _, pos := range needs {
			for _, p := range ordered {
				if p.Position == pos {
					return p.PlayerID, nil
				}
			}
		}
	}
	return ordered[0].PlayerID, nil
}

// ordered returns the candidates in ranking order, unranked players last in pool order.
func (s *RankedStrategy) ordered(ctx context.Context, req Request) ([]models.PoolEntry, error) {
	candidates := req.candidates()
	if len(candidates) == 0 {
		return nil, nil
	}

	var ranked []models.RankedPlayer
	if s.rankings != nil {
		var err error
		ranked, err = s.rankings.Rankings(ctx, req.DraftID)
		if err != nil {
			return nil, fmt.Errorf("failed to load rankings: %w", err)
		}
	}

	byID := make(map[string]models.PoolEntry, len(candidates))
	for _, p := range candidates {
		byID[p.PlayerID] = p
	}

	out := make([]models.PoolEntry, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, r := range ranked {
		if p, ok := byID[r.PlayerID]; ok && !seen[r.PlayerID] {
			out = append(out, p)
			seen[r.PlayerID] = true
		}
	}
	for _, p := range candidates {
		if !seen[p.PlayerID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// RandomStrategy chooses at random among the best TopK ranked players. Used for bot seats.
type RandomStrategy struct {
	ranked *RankedStrategy
	topK   int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStrategy constructs a RandomStrategy with its own seed.
func NewRandomStrategy(rankings RankingSource, topK int, seed int64) *RandomStrategy {
	if topK < 1 {
		topK = 1
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomStrategy{
		ranked: NewRankedStrategy(rankings, nil),
		topK:   topK,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Choose implements Strategy. The rng is shared across drafts.
func (s *RandomStrategy) Choose(ctx context.Context, req Request) (string, error) {
	ordered, err := s.ranked.ordered(ctx, req)
	if err != nil {
		return "", err
	}
	if len(ordered) == 0 {
		return "", ErrPoolExhausted
	}
	k := s.topK
	if k > len(ordered) {
		k = len(ordered)
	}
	s.mu.Lock()
	choice := ordered[s.rng.Intn(k)]
	s.mu.Unlock()

	log.Debug().
		Str("draft_id", req.DraftID.String()).
		Int("seat", req.Seat).
		Str("player_id", choice.PlayerID).
		Msg("bot picked player")
	return choice.PlayerID, nil
}

// PoolOrder is a Strategy with no rankings: the first available player in pool order.
type PoolOrder struct{}

// Choose implements Strategy.
func (PoolOrder) Choose(_ context.Context, req Request) (string, error) {
	c := req.candidates()
	if len(c) == 0 {
		return "", ErrPoolExhausted
	}
	return c[0].PlayerID, nil
}
