package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type ListenerConfig struct {
	DatabaseURL      string        `yaml:"-"`                 // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel    string        `yaml:"notify_channel"`    // Channel name to LISTEN on
	FallbackInterval time.Duration `yaml:"fallback_interval"` // How often to poll for missed events
	MaxRetries       int           `yaml:"max_retries"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	BatchSize        int           `yaml:"batch_size"` // Max events to fetch per batch
	Retention        time.Duration `yaml:"retention"`  // Sent rows older than this are purged; 0 keeps them
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		DatabaseURL:      "",
		NotifyChannel:    "draft_outbox_events",
		FallbackInterval: 30 * time.Second,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
		PingInterval:     90 * time.Second,
		BatchSize:        100,
		Retention:        7 * 24 * time.Hour,
	}
}

// Listener relays outbox rows to the bus. NOTIFY gives low latency; the fallback poll picks up
// anything a dropped notification missed.
type Listener struct {
	app       *App
	listener  *pq.Listener
	publisher EventPublisher
	metrics   MetricsCollector
	cfg       ListenerConfig

	running   atomic.Bool
	processed atomic.Uint64
	lastEvent atomic.Int64
}

func NewListener(app *App, publisher EventPublisher, metrics MetricsCollector, cfg ListenerConfig) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for notifications")

	out := newListener(app, publisher, metrics, cfg)
	out.listener = l
	return out, nil
}

// NewPollingListener relays on the fallback poll alone, for connections that cannot LISTEN.
func NewPollingListener(app *App, publisher EventPublisher, metrics MetricsCollector, cfg ListenerConfig) *Listener {
	return newListener(app, publisher, metrics, cfg)
}

func newListener(app *App, publisher EventPublisher, metrics MetricsCollector, cfg ListenerConfig) *Listener {
	if metrics == nil {
		metrics = &NoOpMetricsCollector{}
	}
	defaults := DefaultListenerConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.FallbackInterval <= 0 {
		cfg.FallbackInterval = defaults.FallbackInterval
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaults.PingInterval
	}
	return &Listener{
		app:       app,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
	}
}

func (l *Listener) Start(ctx context.Context) error {
	log.Info().
		Str("channel", l.cfg.NotifyChannel).
		Dur("ping_interval", l.cfg.PingInterval).
		Dur("fallback_interval", l.cfg.FallbackInterval).
		Msg("listener started")

	l.running.Store(true)
	defer l.running.Store(false)

	// drain whatever piled up while we were down
	if err := l.processUnsent(ctx); err != nil {
		log.Error().Err(err).Msg("failed to process unsent events on startup")
	}

	// a nil channel never fires, leaving the poll in charge
	var notify <-chan *pq.Notification
	if l.listener != nil {
		notify = l.listener.Notify
	}

	pingTicker := time.NewTicker(l.cfg.PingInterval)
	fallbackTicker := time.NewTicker(l.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("listener shutting down")
			return l.Stop()
		case note := <-notify:
			if note == nil {
				// reconnected; notifications sent meanwhile are lost
				if err := l.processUnsent(ctx); err != nil {
					log.Error().Err(err).Msg("failed to process unsent events after reconnect")
				}
				continue
			}
			if err := l.HandleNotification(ctx, note.Extra); err != nil {
				log.Error().Err(err).Msg("failed to handle notification")
			}
		case <-fallbackTicker.C:
			if err := l.processUnsent(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process unsent events")
			}
			if _, err := l.app.PurgeSent(ctx, l.cfg.Retention); err != nil {
				log.Error().Err(err).Msg("failed to purge sent events")
			}
		case <-pingTicker.C:
			if l.listener == nil {
				continue
			}
			if err := l.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

func (l *Listener) Stop() error {
	if l.listener == nil {
		return nil
	}
	return l.listener.Close()
}

// Running reports whether Start is looping.
func (l *Listener) Running() bool {
	return l.running.Load()
}

// Stats returns how many events were relayed and when the last one went out.
func (l *Listener) Stats() (uint64, time.Time) {
	var last time.Time
	if ns := l.lastEvent.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return l.processed.Load(), last
}

// HandleNotification handles a pg listen notification. Extra is the outbox event id.
// If earlier events of the same draft are still unsent the whole backlog goes out in order instead.
func (l *Listener) HandleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}

	event, err := l.app.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			log.Debug().Str("event_id", id.String()).Msg("notified event already sent")
			return nil
		}
		return fmt.Errorf("failed to fetch outbox event: %w", err)
	}

	behind, err := l.app.HasEarlierUnsent(ctx, *event)
	if err != nil {
		return fmt.Errorf("failed to check ordering: %w", err)
	}
	if behind {
		log.Debug().
			Str("draft_id", event.DraftID.String()).
			Int64("sequence", event.Sequence).
			Msg("earlier events pending, relaying backlog")
		return l.processUnsent(ctx)
	}

	if err := l.publishWithRetry(ctx, *event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := l.app.MarkEventSent(ctx, id); err != nil {
		return err
	}

	log.Info().Str("event_id", id.String()).Msg("published and marked event as sent")
	return nil
}

// processUnsent relays one batch of unsent events.
func (l *Listener) processUnsent(ctx context.Context) error {
	start := time.Now()
	n, err := l.app.ProcessUnsentEvents(ctx, l.cfg.BatchSize, func(event OutboxEvent) error {
		return l.publishWithRetry(ctx, event)
	})
	if err != nil {
		return err
	}
	l.metrics.RecordBatchProcessed(n, time.Since(start))

	if pending, err := l.app.PendingCount(ctx); err == nil {
		l.metrics.RecordOutboxLag(pending)
	}
	return nil
}

// publishWithRetry attempts to publish an outbox event with a linear backoff.
func (l *Listener) publishWithRetry(ctx context.Context, event OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= l.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := l.cfg.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := l.publisher.Publish(ctx, event)
		l.metrics.RecordPublishAttempt(event.EventType, attempt+1, err == nil)
		if err != nil {
			lastErr = err
			log.Error().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}

		l.processed.Add(1)
		l.lastEvent.Store(time.Now().UnixNano())
		if attempt > 0 {
			log.Info().
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("publish succeeded after retry")
		}
		return nil
	}

	// All attempts exhausted
	return fmt.Errorf("publish failed after %d attempts: %w", l.cfg.MaxRetries+1, lastErr)
}
