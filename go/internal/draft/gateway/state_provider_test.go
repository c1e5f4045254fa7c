package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/cache"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/draft/repository"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type SnapshotStateProviderTestSuite struct {
	suite.Suite
	ctx       context.Context
	mr        *miniredis.Miniredis
	client    *redis.Client
	snapshots *cache.Snapshots
	store     *repository.Memory
	orch      *orchestrator.Orchestrator
}

func (s *SnapshotStateProviderTestSuite) SetupTest() {
	s.ctx = context.Background()
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.snapshots, err = cache.NewSnapshots(&cache.Config{RedisClient: s.client, SnapshotTTL: time.Hour})
	s.Require().NoError(err)

	s.store = repository.NewMemory()
	s.orch = orchestrator.NewOrchestrator(orchestrator.Deps{Store: s.store}, orchestrator.DefaultConfig())
}

func (s *SnapshotStateProviderTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestSnapshotStateProviderTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotStateProviderTestSuite))
}

func (s *SnapshotStateProviderTestSuite) createDraft() uuid.UUID {
	state, err := s.orch.CreateDraft(s.ctx, orchestrator.CreateDraftRequest{
		Mode:             models.DraftModeSnake,
		Rounds:           2,
		PickTimeLimitSec: 60,
		Participants: []models.Participant{
			{Seat: 1, TeamID: uuid.New(), TeamName: "Team 1", Controller: models.ControllerHuman},
			{Seat: 2, TeamID: uuid.New(), TeamName: "Team 2", Controller: models.ControllerHuman},
		},
		Pool: []models.PoolEntry{
			{PlayerID: "p1", Position: "QB"},
			{PlayerID: "p2", Position: "RB"},
			{PlayerID: "p3", Position: "WR"},
			{PlayerID: "p4", Position: "TE"},
		},
	})
	s.Require().NoError(err)
	return state.Draft.ID
}

func (s *SnapshotStateProviderTestSuite) TestReplaysAndRefillsCache() {
	id := s.createDraft()
	_, err := s.orch.StartDraft(s.ctx, id)
	s.Require().NoError(err)
	_, err = s.orch.SubmitPick(s.ctx, id, 1, "p2", "")
	s.Require().NoError(err)
	live, err := s.orch.GetState(s.ctx, id)
	s.Require().NoError(err)

	_, err = s.snapshots.GetSnapshot(s.ctx, id)
	s.Require().ErrorIs(err, cache.ErrSnapshotNotFound)

	provider := NewSnapshotStateProvider(s.snapshots, s.store)
	state, err := provider.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(live.Draft.Version, state.Draft.Version)
	s.Equal(live.Draft.SeatOnClock, state.Draft.SeatOnClock)
	s.Require().Len(state.Picks, 1)
	s.Equal("p2", state.Picks[0].PlayerID)
	s.Len(state.Available, 3)

	cached, err := s.snapshots.GetSnapshot(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(live.Draft.Version, cached.Draft.Version)
}

func (s *SnapshotStateProviderTestSuite) TestPrefersSnapshot() {
	id := s.createDraft()
	state, err := s.orch.GetState(s.ctx, id)
	s.Require().NoError(err)
	state.Draft.LastError = "from cache"
	s.Require().NoError(s.snapshots.SaveSnapshot(s.ctx, state))

	provider := NewSnapshotStateProvider(s.snapshots, s.store)
	got, err := provider.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("from cache", got.Draft.LastError)
}

func (s *SnapshotStateProviderTestSuite) TestUnknownDraft() {
	provider := NewSnapshotStateProvider(s.snapshots, s.store)
	_, err := provider.GetState(s.ctx, uuid.New())
	s.ErrorIs(err, orchestrator.ErrDraftNotFound)
}

func (s *SnapshotStateProviderTestSuite) TestWorksWithoutCache() {
	id := s.createDraft()
	provider := NewSnapshotStateProvider(nil, s.store)
	state, err := provider.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.DraftStatusPending, state.Draft.Status)
}
