package autopick

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/autopick/mocks"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AutopickTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockRankings *mocks.MockRankingSource
	mockNeeds    *mocks.MockNeedsProvider
	ctx          context.Context
	req          Request
	rankings     []models.RankedPlayer
}

func (s *AutopickTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRankings = mocks.NewMockRankingSource(s.mockCtrl)
	s.mockNeeds = mocks.NewMockNeedsProvider(s.mockCtrl)
	s.ctx = context.Background()

	pool := []models.PoolEntry{
		{PlayerID: "wr1", Position: "WR"},
		{PlayerID: "rb1", Position: "RB"},
		{PlayerID: "qb1", Position: "QB"},
		{PlayerID: "te1", Position: "TE"},
		{PlayerID: "k1", Position: "K"},
	}
	s.req = Request{DraftID: uuid.New(), Seat: 3, TeamID: uuid.New(), Available: pool}
	s.rankings = []models.RankedPlayer{
		{PoolEntry: models.PoolEntry{PlayerID: "rb1", Position: "RB"}, Rank: 1},
		{PoolEntry: models.PoolEntry{PlayerID: "gone", Position: "RB"}, Rank: 2},
		{PoolEntry: models.PoolEntry{PlayerID: "wr1", Position: "WR"}, Rank: 3},
		{PoolEntry: models.PoolEntry{PlayerID: "qb1", Position: "QB"}, Rank: 4},
		{PoolEntry: models.PoolEntry{PlayerID: "te1", Position: "TE"}, Rank: 5},
	}
}

func (s *AutopickTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *AutopickTestSuite) TestRanked_PrefersOpenNeed() {
	s.mockRankings.EXPECT().Rankings(s.ctx, s.req.DraftID).Return(s.rankings, nil)
	s.mockNeeds.EXPECT().OpenNeeds(s.ctx, s.req.DraftID, s.req.TeamID).Return([]string{"QB"}, nil)

	got, err := NewRankedStrategy(s.mockRankings, s.mockNeeds).Choose(s.ctx, s.req)
	s.Require().NoError(err)
	s.Equal("qb1", got)
}

func (s *AutopickTestSuite) TestRanked_FallsBackToBestAvailable() {
	s.mockRankings.EXPECT().Rankings(s.ctx, s.req.DraftID).Return(s.rankings, nil)
	s.mockNeeds.EXPECT().OpenNeeds(s.ctx, s.req.DraftID, s.req.TeamID).Return([]string{"DEF"}, nil)

	got, err := NewRankedStrategy(s.mockRankings, s.mockNeeds).Choose(s.ctx, s.req)
	s.Require().NoError(err)
	s.Equal("rb1", got)
}

func (s *AutopickTestSuite) TestRanked_NeedsErrorStillPicks() {
	s.mockRankings.EXPECT().Rankings(s.ctx, s.req.DraftID).Return(s.rankings, nil)
	s.mockNeeds.EXPECT().OpenNeeds(s.ctx, s.req.DraftID, s.req.TeamID).Return(nil, errors.New("down"))

	got, err := NewRankedStrategy(s.mockRankings, s.mockNeeds).Choose(s.ctx, s.req)
	s.Require().NoError(err)
	s.Equal("rb1", got)
}

func (s *AutopickTestSuite) TestRanked_ExcludedAndUnranked() {
	s.mockRankings.EXPECT().Rankings(s.ctx, s.req.DraftID).Return(s.rankings, nil)
	s.req.Exclude = map[string]bool{"rb1": true, "wr1": true, "qb1": true, "te1": true}

	got, err := NewRankedStrategy(s.mockRankings, nil).Choose(s.ctx, s.req)
	s.Require().NoError(err)
	s.Equal("k1", got)
}

func (s *AutopickTestSuite) TestRanked_Exhausted() {
	s.req.Available = nil

	_, err := NewRankedStrategy(s.mockRankings, s.mockNeeds).Choose(s.ctx, s.req)
	s.Require().ErrorIs(err, ErrPoolExhausted)
}

func (s *AutopickTestSuite) TestRanked_RankingsError() {
	s.mockRankings.EXPECT().Rankings(s.ctx, s.req.DraftID).Return(nil, errors.New("db down"))

	_, err := NewRankedStrategy(s.mockRankings, s.mockNeeds).Choose(s.ctx, s.req)
	s.Require().Error(err)
	s.NotErrorIs(err, ErrPoolExhausted)
}

func (s *AutopickTestSuite) TestRandom_StaysInTopK() {
	s.mockRankings.EXPECT().Rankings(s.ctx, s.req.DraftID).Return(s.rankings, nil).AnyTimes()

	strat := NewRandomStrategy(s.mockRankings, 2, 42)
	for i := 0; i < 50; i++ {
		got, err := strat.Choose(s.ctx, s.req)
		s.Require().NoError(err)
		s.Contains([]string{"rb1", "wr1"}, got)
	}
}

func (s *AutopickTestSuite) TestRandom_SameSeedSameChoices() {
	s.mockRankings.EXPECT().Rankings(s.ctx, s.req.DraftID).Return(s.rankings, nil).AnyTimes()

	a := NewRandomStrategy(s.mockRankings, 4, 7)
	b := NewRandomStrategy(s.mockRankings, 4, 7)
	for i := 0; i < 10; i++ {
		x, err := a.Choose(s.ctx, s.req)
		s.Require().NoError(err)
		y, err := b.Choose(s.ctx, s.req)
		s.Require().NoError(err)
		s.Equal(x, y)
	}
}

func (s *AutopickTestSuite) TestPoolOrder() {
	got, err := PoolOrder{}.Choose(s.ctx, s.req)
	s.Require().NoError(err)
	s.Equal("wr1", got)

	_, err = PoolOrder{}.Choose(s.ctx, Request{})
	s.Require().ErrorIs(err, ErrPoolExhausted)
}

func TestAutopickSuite(t *testing.T) {
	suite.Run(t, new(AutopickTestSuite))
}
