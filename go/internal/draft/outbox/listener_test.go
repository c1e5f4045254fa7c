package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/outbox"
	"github.com/mcdev12/draftroom/go/internal/draft/outbox/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// recordingPublisher fails its first failures calls.
type recordingPublisher struct {
	mu        sync.Mutex
	failures  int
	published []outbox.OutboxEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev outbox.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("nats: timeout")
	}
	p.published = append(p.published, ev)
	return nil
}

func (p *recordingPublisher) ids() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uuid.UUID, len(p.published))
	for i, ev := range p.published {
		out[i] = ev.ID
	}
	return out
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeConn bool

func (f fakeConn) IsConnected() bool { return bool(f) }

type ListenerTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockCtrl  *gomock.Controller
	mockRepo  *mocks.MockOutboxRepository
	app       *outbox.App
	publisher *recordingPublisher
	counters  *outbox.Counters
	listener  *outbox.Listener
}

func (s *ListenerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = mocks.NewMockOutboxRepository(s.mockCtrl)
	s.app = outbox.NewApp(s.mockRepo)
	s.publisher = &recordingPublisher{}
	s.counters = outbox.NewCounters()

	cfg := outbox.DefaultListenerConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.MaxRetries = 3
	cfg.BatchSize = 50
	s.listener = outbox.NewPollingListener(s.app, outbox.NewMetricPublisher(s.publisher, s.counters), s.counters, cfg)
}

func (s *ListenerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestListenerTestSuite(t *testing.T) {
	suite.Run(t, new(ListenerTestSuite))
}

func (s *ListenerTestSuite) TestNotificationPublishesAndMarks() {
	ev := outboxEvent(uuid.New(), 3, "PickMade")
	s.mockRepo.EXPECT().FetchOutboxByID(s.ctx, ev.ID).Return(&ev, nil)
	s.mockRepo.EXPECT().CountUnsentBefore(s.ctx, ev.DraftID, int64(3)).Return(0, nil)
	s.mockRepo.EXPECT().MarkOutboxSent(s.ctx, ev.ID).Return(nil)

	s.Require().NoError(s.listener.HandleNotification(s.ctx, ev.ID.String()))
	s.Equal([]uuid.UUID{ev.ID}, s.publisher.ids())

	processed, last := s.listener.Stats()
	s.Equal(uint64(1), processed)
	s.False(last.IsZero())
	s.Equal(uint64(1), s.counters.Snapshot().ByType["PickMade"])
}

func (s *ListenerTestSuite) TestNotificationForSentEventIsIgnored() {
	id := uuid.New()
	s.mockRepo.EXPECT().FetchOutboxByID(s.ctx, id).Return(nil, outbox.ErrEventNotFound)

	s.Require().NoError(s.listener.HandleNotification(s.ctx, id.String()))
	s.Empty(s.publisher.ids())
}

func (s *ListenerTestSuite) TestNotificationWithBadPayload() {
	s.Error(s.listener.HandleNotification(s.ctx, "not-a-uuid"))
}

func (s *ListenerTestSuite) TestNotificationBehindBacklogRelaysInOrder() {
	draftID := uuid.New()
	ev2 := outboxEvent(draftID, 2, "DraftStarted")
	ev3 := outboxEvent(draftID, 3, "PickMade")

	gomock.InOrder(
		s.mockRepo.EXPECT().FetchOutboxByID(s.ctx, ev3.ID).Return(&ev3, nil),
		s.mockRepo.EXPECT().CountUnsentBefore(s.ctx, draftID, int64(3)).Return(1, nil),
		s.mockRepo.EXPECT().FetchUnsentOutbox(s.ctx, 50).Return([]outbox.OutboxEvent{ev2, ev3}, nil),
		s.mockRepo.EXPECT().MarkOutboxSent(s.ctx, ev2.ID).Return(nil),
		s.mockRepo.EXPECT().MarkOutboxSent(s.ctx, ev3.ID).Return(nil),
		s.mockRepo.EXPECT().CountUnsent(s.ctx).Return(0, nil),
	)

	s.Require().NoError(s.listener.HandleNotification(s.ctx, ev3.ID.String()))
	s.Equal([]uuid.UUID{ev2.ID, ev3.ID}, s.publisher.ids())
	s.Equal(uint64(1), s.counters.Snapshot().Batches)
}

func (s *ListenerTestSuite) TestPublishRetriesUntilSuccess() {
	s.publisher.failures = 2
	ev := outboxEvent(uuid.New(), 1, "DraftCreated")
	s.mockRepo.EXPECT().FetchOutboxByID(s.ctx, ev.ID).Return(&ev, nil)
	s.mockRepo.EXPECT().MarkOutboxSent(s.ctx, ev.ID).Return(nil)

	s.Require().NoError(s.listener.HandleNotification(s.ctx, ev.ID.String()))
	s.Equal([]uuid.UUID{ev.ID}, s.publisher.ids())

	snap := s.counters.Snapshot()
	s.Equal(uint64(2), snap.Failed)
	s.Equal(uint64(2), snap.Retries)
	s.Equal(uint64(1), snap.Published)
}

func (s *ListenerTestSuite) TestPublishGivesUpAfterMaxRetries() {
	s.publisher.failures = 10
	ev := outboxEvent(uuid.New(), 1, "DraftCreated")
	s.mockRepo.EXPECT().FetchOutboxByID(s.ctx, ev.ID).Return(&ev, nil)

	err := s.listener.HandleNotification(s.ctx, ev.ID.String())
	s.Error(err)
	s.Empty(s.publisher.ids())
}

func (s *ListenerTestSuite) TestPollingListenerDrainsOnStart() {
	ev := outboxEvent(uuid.New(), 1, "DraftCreated")
	s.mockRepo.EXPECT().FetchUnsentOutbox(gomock.Any(), 50).Return([]outbox.OutboxEvent{ev}, nil)
	s.mockRepo.EXPECT().FetchUnsentOutbox(gomock.Any(), 50).Return(nil, nil).AnyTimes()
	s.mockRepo.EXPECT().MarkOutboxSent(gomock.Any(), ev.ID).Return(nil)
	s.mockRepo.EXPECT().CountUnsent(gomock.Any()).Return(0, nil).AnyTimes()
	s.mockRepo.EXPECT().PurgeSent(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- s.listener.Start(ctx) }()

	s.Eventually(func() bool { return len(s.publisher.ids()) == 1 }, time.Second, 5*time.Millisecond)
	s.Eventually(s.listener.Running, time.Second, 5*time.Millisecond)

	cancel()
	s.Require().NoError(<-done)
	s.False(s.listener.Running())
}

func (s *ListenerTestSuite) TestHealthCheck() {
	s.mockRepo.EXPECT().CountUnsent(s.ctx).Return(3, nil).Times(2)

	// not started
	checker := outbox.NewRealtimeHealthChecker(s.listener, s.app, fakePinger{}, fakeConn(true), time.Minute)
	status := checker.Check(s.ctx)
	s.False(status.Healthy)
	s.False(status.ListenerActive)
	s.True(status.DatabaseConnected)
	s.True(status.NATSConnected)
	s.Equal(3, status.PendingEvents)

	checker = outbox.NewRealtimeHealthChecker(s.listener, s.app, fakePinger{err: errors.New("refused")}, fakeConn(false), time.Minute)
	status = checker.Check(s.ctx)
	s.False(status.DatabaseConnected)
	s.False(status.NATSConnected)
	s.Len(status.Errors, 3)

	exporter := outbox.NewMetricsExporter(outbox.NewRealtimeHealthChecker(s.listener, s.app, fakePinger{}, nil, time.Minute), s.counters)
	text := exporter.Export(s.ctx)
	s.Contains(text, "outbox_pending_events 3")
	s.Contains(text, "outbox_listener_active 0")
}
