package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type CacheTestSuite struct {
	suite.Suite
	mr        *miniredis.Miniredis
	client    *redis.Client
	snapshots *Snapshots
	leases    *Leases
	ctx       context.Context
}

func (s *CacheTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.ctx = context.Background()

	cfg := &Config{RedisClient: s.client, SnapshotTTL: time.Hour, LeaseTTL: 10 * time.Second}
	s.snapshots, err = NewSnapshots(cfg)
	s.Require().NoError(err)
	s.leases, err = NewLeases(cfg)
	s.Require().NoError(err)
}

func (s *CacheTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func stateAt(id uuid.UUID, version int64, overall int) models.DraftState {
	return models.DraftState{
		Draft: models.Draft{
			ID:             id,
			Status:         models.DraftStatusActive,
			Version:        version,
			CurrentOverall: overall,
		},
		Participants: []models.Participant{{Seat: 1, TeamID: uuid.New(), TeamName: "Team 1"}},
	}
}

func (s *CacheTestSuite) TestSaveAndGetSnapshot() {
	id := uuid.New()
	s.Require().NoError(s.snapshots.SaveSnapshot(s.ctx, stateAt(id, 3, 2)))

	got, err := s.snapshots.GetSnapshot(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(3), got.Draft.Version)
	s.Equal(2, got.Draft.CurrentOverall)
	s.Len(got.Participants, 1)

	s.True(s.mr.Exists(snapshotKey(id)))
	s.Equal(time.Hour, s.mr.TTL(snapshotKey(id)))
}

func (s *CacheTestSuite) TestOlderSnapshotDoesNotOverwrite() {
	id := uuid.New()
	s.Require().NoError(s.snapshots.SaveSnapshot(s.ctx, stateAt(id, 5, 4)))
	s.Require().NoError(s.snapshots.SaveSnapshot(s.ctx, stateAt(id, 4, 3)))

	got, err := s.snapshots.GetSnapshot(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(5), got.Draft.Version)

	s.Require().NoError(s.snapshots.SaveSnapshot(s.ctx, stateAt(id, 6, 5)))
	got, err = s.snapshots.GetSnapshot(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(5, got.Draft.CurrentOverall)
}

func (s *CacheTestSuite) TestSnapshotNotFound() {
	_, err := s.snapshots.GetSnapshot(s.ctx, uuid.New())
	s.ErrorIs(err, ErrSnapshotNotFound)

	id := uuid.New()
	s.Require().NoError(s.snapshots.SaveSnapshot(s.ctx, stateAt(id, 1, 0)))
	s.Require().NoError(s.snapshots.DeleteSnapshot(s.ctx, id))
	_, err = s.snapshots.GetSnapshot(s.ctx, id)
	s.ErrorIs(err, ErrSnapshotNotFound)
}

func (s *CacheTestSuite) TestLeaseLifecycle() {
	id := uuid.New()

	ok, err := s.leases.Acquire(s.ctx, id, "a")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.leases.Acquire(s.ctx, id, "b")
	s.Require().NoError(err)
	s.False(ok, "second owner must not take a held lease")

	ok, err = s.leases.Acquire(s.ctx, id, "a")
	s.Require().NoError(err)
	s.True(ok, "re-acquire by the holder extends")

	owner, err := s.leases.Owner(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("a", owner)

	// release by a non-owner is a no-op
	s.Require().NoError(s.leases.Release(s.ctx, id, "b"))
	owner, err = s.leases.Owner(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("a", owner)

	s.Require().NoError(s.leases.Release(s.ctx, id, "a"))
	owner, err = s.leases.Owner(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(owner)

	ok, err = s.leases.Acquire(s.ctx, id, "b")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *CacheTestSuite) TestLeaseExpiresWithoutRenewal() {
	id := uuid.New()

	ok, err := s.leases.Acquire(s.ctx, id, "a")
	s.Require().NoError(err)
	s.Require().True(ok)

	s.mr.FastForward(5 * time.Second)
	held, err := s.leases.Renew(s.ctx, id, "a")
	s.Require().NoError(err)
	s.True(held)
	s.Equal(10*time.Second, s.mr.TTL(leaseKey(id)))

	s.mr.FastForward(11 * time.Second)
	held, err = s.leases.Renew(s.ctx, id, "a")
	s.Require().NoError(err)
	s.False(held)

	ok, err = s.leases.Acquire(s.ctx, id, "b")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *CacheTestSuite) TestNewSnapshotsValidatesConfig() {
	_, err := NewSnapshots(nil)
	s.Error(err)
	_, err = NewSnapshots(&Config{})
	s.Error(err)
	_, err = NewLeases(&Config{})
	s.Error(err)
}
