package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthStatus struct {
	Healthy           bool      `json:"healthy"`
	LastEventTime     time.Time `json:"last_event_time"`
	EventsProcessed   uint64    `json:"events_processed"`
	PendingEvents     int       `json:"pending_events"`
	DatabaseConnected bool      `json:"database_connected"`
	NATSConnected     bool      `json:"nats_connected"`
	ListenerActive    bool      `json:"listener_active"`
	Errors            []string  `json:"errors"`
}

type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Connected is satisfied by *nats.Conn.
type Connected interface {
	IsConnected() bool
}

type RealtimeHealthChecker struct {
	listener  *Listener
	app       *App
	db        Pinger
	natsConn  Connected
	threshold time.Duration // How long without events before unhealthy
}

func NewRealtimeHealthChecker(listener *Listener, app *App, db Pinger, natsConn Connected, threshold time.Duration) *RealtimeHealthChecker {
	return &RealtimeHealthChecker{
		listener:  listener,
		app:       app,
		db:        db,
		natsConn:  natsConn,
		threshold: threshold,
	}
}

func (h *RealtimeHealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	status.EventsProcessed, status.LastEventTime = h.listener.Stats()

	if err := h.db.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
	} else {
		status.DatabaseConnected = true
	}

	if h.natsConn != nil {
		status.NATSConnected = h.natsConn.IsConnected()
		if !status.NATSConnected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	status.ListenerActive = h.listener.Running()
	if !status.ListenerActive {
		status.Healthy = false
		status.Errors = append(status.Errors, "listener not active")
	}

	if status.DatabaseConnected {
		pending, err := h.app.PendingCount(ctx)
		if err != nil {
			status.Errors = append(status.Errors, fmt.Sprintf("failed to count pending events: %v", err))
		} else {
			status.PendingEvents = pending
			if pending > 1000 {
				status.Errors = append(status.Errors, fmt.Sprintf("high pending event count: %d", pending))
			}
		}
	}

	// Only stale when something is waiting
	if status.PendingEvents > 0 && !status.LastEventTime.IsZero() {
		since := time.Since(status.LastEventTime)
		if since > h.threshold {
			status.Healthy = false
			status.Errors = append(status.Errors, fmt.Sprintf("no events processed for %s", since))
		}
	}

	return status
}

func (h *RealtimeHealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error().Err(err).Msg("failed to encode health status")
	}
}

// MetricsExporter renders health and counters in the Prometheus text format
type MetricsExporter struct {
	checker  HealthChecker
	counters *Counters
}

func NewMetricsExporter(checker HealthChecker, counters *Counters) *MetricsExporter {
	return &MetricsExporter{checker: checker, counters: counters}
}

func boolGauge(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (e *MetricsExporter) Export(ctx context.Context) string {
	status := e.checker.Check(ctx)

	var b strings.Builder
	gauge := func(name, help string, value any) {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s gauge\n%s %v\n", name, help, name, name, value)
	}
	counter := func(name, help string, value uint64) {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, value)
	}

	gauge("outbox_healthy", "Whether the outbox relay is healthy", boolGauge(status.Healthy))
	gauge("outbox_pending_events", "Current number of pending events", status.PendingEvents)
	gauge("outbox_database_connected", "Whether database is connected", boolGauge(status.DatabaseConnected))
	gauge("outbox_nats_connected", "Whether NATS is connected", boolGauge(status.NATSConnected))
	gauge("outbox_listener_active", "Whether the listener is active", boolGauge(status.ListenerActive))
	gauge("outbox_last_event_timestamp", "Unix timestamp of last processed event", status.LastEventTime.Unix())
	counter("outbox_events_processed_total", "Total number of events processed", status.EventsProcessed)

	if e.counters != nil {
		snap := e.counters.Snapshot()
		counter("outbox_publish_failures_total", "Publish calls that failed", snap.Failed)
		counter("outbox_publish_retries_total", "Publish attempts after the first", snap.Retries)
		counter("outbox_batches_total", "Fallback and backlog batches processed", snap.Batches)

		types := make([]string, 0, len(snap.ByType))
		for t := range snap.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		b.WriteString("# HELP outbox_published_total Events published by type\n# TYPE outbox_published_total counter\n")
		for _, t := range types {
			fmt.Fprintf(&b, "outbox_published_total{event_type=%q} %d\n", t, snap.ByType[t])
		}
	}
	return b.String()
}

func (e *MetricsExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if _, err := w.Write([]byte(e.Export(ctx))); err != nil {
		log.Error().Err(err).Msg("failed to write metrics")
	}
}
