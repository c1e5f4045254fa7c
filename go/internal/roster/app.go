package roster

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/mcdev12/draftroom/go/internal/roster PickRepository,PlayersRepository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// PickRepository defines what the app layer needs to know about a team's drafted players
type PickRepository interface {
	TeamPicks(ctx context.Context, draftID, teamID uuid.UUID) ([]models.Pick, error)
}

// PlayersRepository defines what the app layer needs from the player pool for validation
type PlayersRepository interface {
	GetPlayer(ctx context.Context, playerID string) (*models.PoolEntry, error)
}

// App answers roster legality and needs questions for the draft engine
type App struct {
	picks   PickRepository
	players PlayersRepository
	limits  Limits
}

// NewApp creates a new roster App
func NewApp(picks PickRepository, players PlayersRepository, limits Limits) *App {
	return &App{
		picks:   picks,
		players: players,
		limits:  limits,
	}
}

// IsLegal reports whether adding playerID keeps the team's roster in this draft within limits.
func (a *App) IsLegal(ctx context.Context, draftID, teamID uuid.UUID, playerID string) (bool, error) {
	player, err := a.players.GetPlayer(ctx, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}

	counts, total, err := a.positionCounts(ctx, draftID, teamID)
	if err != nil {
		return false, err
	}

	if a.limits.Size > 0 && total >= a.limits.Size {
		log.Debug().Str("team_id", teamID.String()).Int("size", total).Msg("roster full")
		return false, nil
	}

	max, limited := a.limits.Max[player.Position]
	if limited && counts[player.Position] >= max {
		log.Debug().
			Str("team_id", teamID.String()).
			Str("position", player.Position).
			Int("count", counts[player.Position]).
			Msg("position limit reached")
		return false, nil
	}
	return true, nil
}

// OpenNeeds returns positions still below their minimum, most-needed first.
func (a *App) OpenNeeds(ctx context.Context, draftID, teamID uuid.UUID) ([]string, error) {
	counts, _, err := a.positionCounts(ctx, draftID, teamID)
	if err != nil {
		return nil, err
	}

	type need struct {
		position string
		missing  int
	}
	var needs []need
	for pos, min := range a.limits.Min {
		if missing := min - counts[pos]; missing > 0 {
			needs = append(needs, need{pos, missing})
		}
	}
	sort.Slice(needs, func(i, j int) bool {
		if needs[i].missing != needs[j].missing {
			return needs[i].missing > needs[j].missing
		}
		return needs[i].position < needs[j].position
	})

	out := make([]string, len(needs))
	for i, n := range needs {
		out[i] = n.position
	}
	return out, nil
}

func (a *App) positionCounts(ctx context.Context, draftID, teamID uuid.UUID) (map[string]int, int, error) {
	picks, err := a.picks.TeamPicks(ctx, draftID, teamID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get team picks: %w", err)
	}
	counts := make(map[string]int)
	for _, p := range picks {
		counts[p.Position]++
	}
	return counts, len(picks), nil
}
