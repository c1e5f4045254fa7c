package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/mcdev12/draftroom/go/internal/config"
	"github.com/mcdev12/draftroom/go/internal/draft/outbox"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	cfg.SetupLogging()

	// signal‐aware context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	log.Info().Str("dsn", cfg.Database.Redacted()).Msg("connected to database")

	// JetStream publisher
	publisher, err := outbox.NewJetStreamPublisher(ctx, cfg.NATS.Publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("create JetStream publisher")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("close publisher")
		}
	}()

	counters := outbox.NewCounters()
	app := outbox.NewApp(outbox.NewRepository(db))

	listener, err := outbox.NewListener(app, outbox.NewMetricPublisher(publisher, counters), counters, cfg.Outbox)
	if err != nil {
		log.Fatal().Err(err).Msg("create outbox listener")
	}

	checker := outbox.NewRealtimeHealthChecker(listener, app, db, publisher.Conn(), 5*time.Minute)
	mux := http.NewServeMux()
	mux.Handle("/health", checker)
	mux.Handle("/metrics", outbox.NewMetricsExporter(checker, counters))
	server := &http.Server{
		Addr:         cfg.Server.OutboxAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msg("starting realtime listener")
		return listener.Start(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("health server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("outbox relay exited unexpectedly")
		return
	}
	log.Info().Msg("graceful shutdown complete")
}
