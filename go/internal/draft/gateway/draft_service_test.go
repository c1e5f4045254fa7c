package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/broadcast"
	"github.com/mcdev12/draftroom/go/internal/draft/gateway/mocks"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/draft/validator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DraftServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	engine  *mocks.MockEngine
	auth    *Authenticator
	server  *httptest.Server
	draftID uuid.UUID
}

func (s *DraftServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.engine = mocks.NewMockEngine(s.ctrl)

	var err error
	s.auth, err = NewAuthenticator("test-secret", "draftroom")
	s.Require().NoError(err)
	s.draftID = uuid.New()

	svc, err := NewService(DefaultConfig(), Deps{
		States: s.engine,
		Engine: s.engine,
		Source: NewHubFeed(broadcast.NewHub(), 1),
		Auth:   s.auth,
	})
	s.Require().NoError(err)
	s.server = httptest.NewServer(svc.Handler())
}

func (s *DraftServiceTestSuite) TearDownTest() {
	s.server.Close()
	s.ctrl.Finish()
}

func TestDraftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DraftServiceTestSuite))
}

func (s *DraftServiceTestSuite) token(seat int, role string) string {
	tok, err := s.auth.Issue(s.draftID, seat, role, time.Hour)
	s.Require().NoError(err)
	return tok
}

func (s *DraftServiceTestSuite) submit(token string, req *SubmitPickRequest) (*connect.Response[SubmitPickResponse], error) {
	client := connect.NewClient[SubmitPickRequest, SubmitPickResponse](
		s.server.Client(),
		s.server.URL+DraftServiceSubmitPickProcedure,
		connect.WithCodec(JSONCodec{}),
	)
	r := connect.NewRequest(req)
	if token != "" {
		r.Header().Set("Authorization", "Bearer "+token)
	}
	return client.CallUnary(context.Background(), r)
}

func (s *DraftServiceTestSuite) TestSubmitPickUsesSeatFromToken() {
	want := models.Pick{DraftID: s.draftID, Seat: 2, PlayerID: "p7", OverallPick: 2}
	s.engine.EXPECT().
		SubmitPick(gomock.Any(), s.draftID, 2, "p7", "k-1").
		Return(want, nil)

	resp, err := s.submit(s.token(2, RolePlayer), &SubmitPickRequest{
		DraftID:        s.draftID.String(),
		PlayerID:       "p7",
		IdempotencyKey: "k-1",
	})
	s.Require().NoError(err)
	s.Equal("p7", resp.Msg.Pick.PlayerID)
	s.Equal(2, resp.Msg.Pick.Seat)
}

func (s *DraftServiceTestSuite) TestSubmitPickAuthorization() {
	tests := []struct {
		name  string
		token func() string
		seat  int
		code  connect.Code
	}{
		{
			name:  "missing token",
			token: func() string { return "" },
			code:  connect.CodeUnauthenticated,
		},
		{
			name:  "other seat",
			token: func() string { return s.token(2, RolePlayer) },
			seat:  3,
			code:  connect.CodePermissionDenied,
		},
		{
			name: "other draft",
			token: func() string {
				tok, err := s.auth.Issue(uuid.New(), 2, RolePlayer, time.Hour)
				s.Require().NoError(err)
				return tok
			},
			code: connect.CodePermissionDenied,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.submit(tt.token(), &SubmitPickRequest{
				DraftID:  s.draftID.String(),
				Seat:     tt.seat,
				PlayerID: "p1",
			})
			s.Require().Error(err)
			s.Equal(tt.code, connect.CodeOf(err))
		})
	}
}

func (s *DraftServiceTestSuite) TestBadTokenIsRejectedBeforeTheService() {
	_, err := s.submit("not-a-token", &SubmitPickRequest{DraftID: s.draftID.String(), PlayerID: "p1"})
	s.Require().Error(err)
	s.Equal(connect.CodeUnauthenticated, connect.CodeOf(err))
}

func (s *DraftServiceTestSuite) TestRejectionsMapToCodes() {
	tests := []struct {
		name   string
		err    error
		code   connect.Code
		reason string
	}{
		{"out of turn", validator.ErrOutOfTurn, connect.CodeAborted, "OutOfTurn"},
		{"player taken", validator.ErrPlayerTaken, connect.CodeAlreadyExists, "PlayerTaken"},
		{"not active", validator.ErrNotActive, connect.CodeFailedPrecondition, "NotActive"},
		{"roster invalid", validator.ErrRosterInvalid, connect.CodeFailedPrecondition, "RosterInvalid"},
		{"unknown draft", orchestrator.ErrDraftNotFound, connect.CodeNotFound, ""},
		{"store down", orchestrator.ErrPersistence, connect.CodeUnavailable, ""},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.engine.EXPECT().
				SubmitPick(gomock.Any(), s.draftID, 1, "p1", "").
				Return(models.Pick{}, tt.err)

			_, err := s.submit(s.token(1, RolePlayer), &SubmitPickRequest{DraftID: s.draftID.String(), PlayerID: "p1"})
			s.Require().Error(err)
			s.Equal(tt.code, connect.CodeOf(err))

			var cerr *connect.Error
			s.Require().True(errors.As(err, &cerr))
			s.Equal(tt.reason, cerr.Meta().Get(RejectReasonHeader))
		})
	}
}

func (s *DraftServiceTestSuite) TestCreateDraftRequiresCommissioner() {
	client := connect.NewClient[CreateDraftRequest, DraftStateResponse](
		s.server.Client(),
		s.server.URL+DraftServiceCreateDraftProcedure,
		connect.WithCodec(JSONCodec{}),
	)
	body := &CreateDraftRequest{Mode: "snake", Rounds: 2, PickTimeLimitSec: 30, BotCount: 4}

	req := connect.NewRequest(body)
	req.Header().Set("Authorization", "Bearer "+s.token(1, RolePlayer))
	_, err := client.CallUnary(context.Background(), req)
	s.Require().Error(err)
	s.Equal(connect.CodePermissionDenied, connect.CodeOf(err))

	created := models.DraftState{Draft: models.Draft{
		ID:               s.draftID,
		Mode:             models.DraftModeSnake,
		Status:           models.DraftStatusPending,
		Settings:         models.DraftSettings{Rounds: 2, PickTimeLimitSec: 30},
		ParticipantCount: 4,
	}}
	s.engine.EXPECT().
		CreateDraft(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req orchestrator.CreateDraftRequest) (models.DraftState, error) {
			s.Equal(models.DraftModeSnake, req.Mode)
			s.Equal(4, req.BotCount)
			return created, nil
		})

	commissioner, err := s.auth.Issue(uuid.Nil, 0, RoleCommissioner, time.Hour)
	s.Require().NoError(err)
	req = connect.NewRequest(body)
	req.Header().Set("Authorization", "Bearer "+commissioner)
	resp, err := client.CallUnary(context.Background(), req)
	s.Require().NoError(err)
	s.Equal(s.draftID.String(), resp.Msg.DraftID)
	s.Equal("pending", resp.Msg.Status)
	s.Equal(8, resp.Msg.TotalPicks)
}

func (s *DraftServiceTestSuite) TestPauseRejectsInvalidTransition() {
	s.engine.EXPECT().
		Pause(gomock.Any(), s.draftID, "lunch").
		Return(models.DraftState{}, orchestrator.ErrInvalidTransition)

	client := connect.NewClient[DraftRequest, DraftStateResponse](
		s.server.Client(),
		s.server.URL+DraftServicePauseDraftProcedure,
		connect.WithCodec(JSONCodec{}),
	)
	req := connect.NewRequest(&DraftRequest{DraftID: s.draftID.String(), Reason: "lunch"})
	req.Header().Set("Authorization", "Bearer "+s.token(0, RoleCommissioner))
	_, err := client.CallUnary(context.Background(), req)
	s.Require().Error(err)
	s.Equal(connect.CodeFailedPrecondition, connect.CodeOf(err))
}

func (s *DraftServiceTestSuite) TestRESTSubmitPick() {
	post := func(token string, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/drafts/"+s.draftID.String()+"/picks", bytes.NewBufferString(body))
		s.Require().NoError(err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := s.server.Client().Do(req)
		s.Require().NoError(err)
		return resp
	}

	s.engine.EXPECT().
		SubmitPick(gomock.Any(), s.draftID, 3, "p2", "").
		Return(models.Pick{DraftID: s.draftID, Seat: 3, PlayerID: "p2"}, nil)
	resp := post(s.token(3, RolePlayer), `{"player_id":"p2"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
	var created SubmitPickResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))
	s.Equal("p2", created.Pick.PlayerID)

	s.engine.EXPECT().
		SubmitPick(gomock.Any(), s.draftID, 3, "p2", "").
		Return(models.Pick{}, validator.ErrPlayerTaken)
	resp = post(s.token(3, RolePlayer), `{"player_id":"p2"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("PlayerTaken", resp.Header.Get(RejectReasonHeader))

	resp = post("", `{"player_id":"p2"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = post(s.token(3, RolePlayer), `{}`)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *DraftServiceTestSuite) TestReadsAreOpen() {
	s.engine.EXPECT().
		GetState(gomock.Any(), s.draftID).
		Return(models.DraftState{Draft: models.Draft{ID: s.draftID, Status: models.DraftStatusActive}}, nil)

	resp, err := s.server.Client().Get(s.server.URL + "/api/drafts/" + s.draftID.String() + "/state")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var view DraftStateResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&view))
	s.Equal("active", view.Status)
}
