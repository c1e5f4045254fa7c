package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/draft/repository"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/stretchr/testify/suite"
)

// ServiceTestSuite runs the gateway in front of a real engine.
type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	orch    *orchestrator.Orchestrator
	server  *httptest.Server
	draftID uuid.UUID
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	store := repository.NewMemory()
	s.orch = orchestrator.NewOrchestrator(orchestrator.Deps{Store: store}, orchestrator.DefaultConfig())
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_ = s.orch.RunScheduler(s.ctx)
	}()

	svc, err := NewService(DefaultConfig(), Deps{
		States:   s.orch,
		Active:   store,
		Engine:   s.orch,
		Presence: s.orch.SetPresence,
		Source:   NewHubFeed(s.orch.Hub(), 64),
	})
	s.Require().NoError(err)
	go func() {
		_ = svc.Start(s.ctx)
	}()
	s.server = httptest.NewServer(svc.Handler())

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
	s.draftID = state.Draft.ID
	_, err = s.orch.StartDraft(s.ctx, s.draftID)
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
	<-s.done
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) dial(seat string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws/drafts/" + s.draftID.String()
	if seat != "" {
		url += "?seat=" + seat
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	resp.Body.Close()
	return conn
}

// next reads messages until one of the given type arrives.
func (s *ServiceTestSuite) next(conn *websocket.Conn, typ EventType) *DraftEvent {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		var msg DraftEvent
		s.Require().NoError(conn.ReadJSON(&msg))
		if msg.Type == typ {
			return &msg
		}
	}
}

func (s *ServiceTestSuite) connected(seat int) bool {
	state, err := s.orch.GetState(s.ctx, s.draftID)
	s.Require().NoError(err)
	for _, p := range state.Participants {
		if p.Seat == seat {
			return p.Connected
		}
	}
	return false
}

func (s *ServiceTestSuite) TestSocketReceivesSyncThenEvents() {
	conn := s.dial("1")
	defer conn.Close()

	sync := s.next(conn, EventTypeStateSync)
	parsed, err := ParseEventPayload(sync)
	s.Require().NoError(err)
	view := parsed.(*DraftStateResponse)
	s.Equal("active", view.Status)
	s.Require().NotNil(view.CurrentPick)
	s.Equal(1, view.CurrentPick.Seat)

	s.Eventually(func() bool { return s.connected(1) }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(
		s.server.URL+"/api/drafts/"+s.draftID.String()+"/picks",
		"application/json",
		bytes.NewBufferString(`{"seat":1,"player_id":"p2"}`),
	)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	made := s.next(conn, EventTypePickMade)
	s.Equal(s.draftID.String(), made.DraftID)
	var pick struct {
		PlayerID string `json:"player_id"`
		Seat     int    `json:"seat"`
	}
	s.Require().NoError(json.Unmarshal(made.Data, &pick))
	s.Equal("p2", pick.PlayerID)
	s.Equal(1, pick.Seat)

	s.Require().NoError(conn.WriteJSON(map[string]string{"type": "sync"}))
	resync := s.next(conn, EventTypeStateSync)
	parsed, err = ParseEventPayload(resync)
	s.Require().NoError(err)
	view = parsed.(*DraftStateResponse)
	s.Equal(1, view.CompletedPicks)
	s.Equal(2, view.CurrentPick.Seat)
}

func (s *ServiceTestSuite) TestPresenceFollowsConnections() {
	first := s.dial("2")
	second := s.dial("2")
	s.next(first, EventTypeStateSync)
	s.next(second, EventTypeStateSync)
	s.Eventually(func() bool { return s.connected(2) }, 2*time.Second, 10*time.Millisecond)

	first.Close()
	s.Never(func() bool { return !s.connected(2) }, 200*time.Millisecond, 20*time.Millisecond)

	second.Close()
	s.Eventually(func() bool { return !s.connected(2) }, 2*time.Second, 10*time.Millisecond)
}

func (s *ServiceTestSuite) TestSpectatorsDoNotTouchPresence() {
	conn := s.dial("")
	defer conn.Close()
	s.next(conn, EventTypeStateSync)

	s.False(s.connected(1))
	s.False(s.connected(2))
}

func (s *ServiceTestSuite) TestActiveDraftsAndStats() {
	conn := s.dial("")
	defer conn.Close()
	s.next(conn, EventTypeStateSync)

	resp, err := http.Get(s.server.URL + "/api/drafts/active")
	s.Require().NoError(err)
	defer resp.Body.Close()
	var summaries []DraftSummary
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&summaries))
	s.Require().Len(summaries, 1)
	s.Equal(s.draftID.String(), summaries[0].DraftID)
	s.Equal(2, summaries[0].TotalTeams)

	s.Eventually(func() bool {
		resp, err := http.Get(s.server.URL + "/ws/stats")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var stats ConnectionStats
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			return false
		}
		return stats.TotalConnections == 1 && stats.DraftConnections[s.draftID.String()] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *ServiceTestSuite) TestUnknownDraftState() {
	resp, err := http.Get(s.server.URL + "/api/drafts/" + uuid.NewString() + "/state")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
