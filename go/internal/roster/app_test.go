package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/mcdev12/draftroom/go/internal/roster/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RosterAppTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockPicks   *mocks.MockPickRepository
	mockPlayers *mocks.MockPlayersRepository
	app         *App
	ctx         context.Context
	draftID     uuid.UUID
	teamID      uuid.UUID
}

func (s *RosterAppTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockPicks = mocks.NewMockPickRepository(s.mockCtrl)
	s.mockPlayers = mocks.NewMockPlayersRepository(s.mockCtrl)
	s.app = NewApp(s.mockPicks, s.mockPlayers, Limits{
		Max:  map[string]int{"QB": 1, "RB": 3},
		Min:  map[string]int{"QB": 1, "RB": 2, "WR": 2},
		Size: 5,
	})
	s.ctx = context.Background()
	s.draftID = uuid.New()
	s.teamID = uuid.New()
}

func (s *RosterAppTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func picks(positions ...string) []models.Pick {
	out := make([]models.Pick, len(positions))
	for i, pos := range positions {
		out[i] = models.Pick{OverallPick: i + 1, Position: pos}
	}
	return out
}

func (s *RosterAppTestSuite) TestIsLegal_UnderLimit() {
	s.mockPlayers.EXPECT().GetPlayer(s.ctx, "qb1").Return(&models.PoolEntry{PlayerID: "qb1", Position: "QB"}, nil)
	s.mockPicks.EXPECT().TeamPicks(s.ctx, s.draftID, s.teamID).Return(picks("RB"), nil)

	ok, err := s.app.IsLegal(s.ctx, s.draftID, s.teamID, "qb1")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *RosterAppTestSuite) TestIsLegal_PositionFull() {
	s.mockPlayers.EXPECT().GetPlayer(s.ctx, "qb2").Return(&models.PoolEntry{PlayerID: "qb2", Position: "QB"}, nil)
	s.mockPicks.EXPECT().TeamPicks(s.ctx, s.draftID, s.teamID).Return(picks("QB"), nil)

	ok, err := s.app.IsLegal(s.ctx, s.draftID, s.teamID, "qb2")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RosterAppTestSuite) TestIsLegal_UnlimitedPosition() {
	s.mockPlayers.EXPECT().GetPlayer(s.ctx, "wr1").Return(&models.PoolEntry{PlayerID: "wr1", Position: "WR"}, nil)
	s.mockPicks.EXPECT().TeamPicks(s.ctx, s.draftID, s.teamID).Return(picks("WR", "WR", "WR"), nil)

	ok, err := s.app.IsLegal(s.ctx, s.draftID, s.teamID, "wr1")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *RosterAppTestSuite) TestIsLegal_RosterFull() {
	s.mockPlayers.EXPECT().GetPlayer(s.ctx, "wr9").Return(&models.PoolEntry{PlayerID: "wr9", Position: "WR"}, nil)
	s.mockPicks.EXPECT().TeamPicks(s.ctx, s.draftID, s.teamID).Return(picks("WR", "WR", "WR", "RB", "QB"), nil)

	ok, err := s.app.IsLegal(s.ctx, s.draftID, s.teamID, "wr9")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RosterAppTestSuite) TestIsLegal_LookupError() {
	s.mockPlayers.EXPECT().GetPlayer(s.ctx, "ghost").Return(nil, errors.New("not found"))

	_, err := s.app.IsLegal(s.ctx, s.draftID, s.teamID, "ghost")
	s.Require().Error(err)
	s.Contains(err.Error(), "ghost")
}

func (s *RosterAppTestSuite) TestIsLegal_PicksError() {
	s.mockPlayers.EXPECT().GetPlayer(s.ctx, "rb1").Return(&models.PoolEntry{PlayerID: "rb1", Position: "RB"}, nil)
	s.mockPicks.EXPECT().TeamPicks(s.ctx, s.draftID, s.teamID).Return(nil, errors.New("db down"))

	_, err := s.app.IsLegal(s.ctx, s.draftID, s.teamID, "rb1")
	s.Require().Error(err)
}

func (s *RosterAppTestSuite) TestOpenNeeds_MostMissingFirst() {
	s.mockPicks.EXPECT().TeamPicks(s.ctx, s.draftID, s.teamID).Return(picks("WR"), nil)

	needs, err := s.app.OpenNeeds(s.ctx, s.draftID, s.teamID)
	s.Require().NoError(err)
	s.Equal([]string{"RB", "QB", "WR"}, needs)
}

func (s *RosterAppTestSuite) TestOpenNeeds_AllFilled() {
	s.mockPicks.EXPECT().TeamPicks(s.ctx, s.draftID, s.teamID).Return(picks("QB", "RB", "RB", "WR", "WR"), nil)

	needs, err := s.app.OpenNeeds(s.ctx, s.draftID, s.teamID)
	s.Require().NoError(err)
	s.Empty(needs)
}

func TestRosterAppSuite(t *testing.T) {
	suite.Run(t, new(RosterAppTestSuite))
}
