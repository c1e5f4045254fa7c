package outbox

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector defines the interface for collecting outbox metrics
type MetricsCollector interface {
	RecordEventProcessed(eventType string, success bool, duration time.Duration)
	RecordBatchProcessed(count int, duration time.Duration)
	RecordOutboxLag(lag int)
	RecordPublishAttempt(eventType string, attempt int, success bool)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) RecordEventProcessed(eventType string, success bool, duration time.Duration) {
}
func (n *NoOpMetricsCollector) RecordBatchProcessed(count int, duration time.Duration) {}
func (n *NoOpMetricsCollector) RecordOutboxLag(lag int)                              {}
func (n *NoOpMetricsCollector) RecordPublishAttempt(eventType string, attempt int, success bool) {
}

// MetricPublisher wraps an EventPublisher with metrics collection
type MetricPublisher struct {
	publisher EventPublisher
	metrics   MetricsCollector
}

func NewMetricPublisher(publisher EventPublisher, metrics MetricsCollector) *MetricPublisher {
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	start := time.Now()

	err := p.publisher.Publish(ctx, event)

	p.metrics.RecordEventProcessed(event.EventType, err == nil, time.Since(start))
	return err
}

// Counters is an in-process MetricsCollector read by the health endpoint.
type Counters struct {
	published     atomic.Uint64
	failed        atomic.Uint64
	retries       atomic.Uint64
	batches       atomic.Uint64
	lag           atomic.Int64
	lastPublished atomic.Int64 // unix nanos

	mu     sync.Mutex
	byType map[string]uint64
}

func NewCounters() *Counters {
	return &Counters{byType: make(map[string]uint64)}
}

func (c *Counters) RecordEventProcessed(eventType string, success bool, duration time.Duration) {
	if !success {
		c.failed.Add(1)
		return
	}
	c.published.Add(1)
	c.lastPublished.Store(time.Now().UnixNano())

	c.mu.Lock()
	c.byType[eventType]++
	c.mu.Unlock()
}

func (c *Counters) RecordBatchProcessed(count int, duration time.Duration) {
	c.batches.Add(1)
}

func (c *Counters) RecordOutboxLag(lag int) {
	c.lag.Store(int64(lag))
}

func (c *Counters) RecordPublishAttempt(eventType string, attempt int, success bool) {
	if attempt > 1 {
		c.retries.Add(1)
	}
}

// Snapshot is a copy of the counters.
type Snapshot struct {
	Published     uint64            `json:"published"`
	Failed        uint64            `json:"failed"`
	Retries       uint64            `json:"retries"`
	Batches       uint64            `json:"batches"`
	Lag           int64             `json:"lag"`
	LastPublished time.Time         `json:"last_published"`
	ByType        map[string]uint64 `json:"by_type"`
}

func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Published: c.published.Load(),
		Failed:    c.failed.Load(),
		Retries:   c.retries.Load(),
		Batches:   c.batches.Load(),
		Lag:       c.lag.Load(),
		ByType:    make(map[string]uint64),
	}
	if ns := c.lastPublished.Load(); ns > 0 {
		s.LastPublished = time.Unix(0, ns)
	}
	c.mu.Lock()
	for k, v := range c.byType {
		s.ByType[k] = v
	}
	c.mu.Unlock()
	return s
}
