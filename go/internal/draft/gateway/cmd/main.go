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
	"github.com/mcdev12/draftroom/go/internal/draft/cache"
	"github.com/mcdev12/draftroom/go/internal/draft/gateway"
	"github.com/mcdev12/draftroom/go/internal/draft/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Read-side gateway: JetStream in, WebSocket out. Commands stay with the engine.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	store := repository.NewRepository(db)

	// Snapshots first, replay from the log on a miss
	var snapshots gateway.SnapshotStore
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		cached, err := cache.NewSnapshots(&cache.Config{RedisClient: client, SnapshotTTL: cfg.Redis.SnapshotTTL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up snapshot cache")
		}
		snapshots = cached
	}

	consumer, err := gateway.NewEventConsumer(ctx, cfg.NATS.Consumer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up event consumer")
	}
	defer consumer.Stop()

	var auth *gateway.Authenticator
	if cfg.Auth.Secret != "" {
		if auth, err = gateway.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer); err != nil {
			log.Fatal().Err(err).Msg("failed to set up auth")
		}
	}

	gatewayService, err := gateway.NewService(gateway.Config{
		ConnectionConfig: cfg.Gateway,
		JetStreamConfig:  cfg.NATS.Consumer,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	}, gateway.Deps{
		States: gateway.NewSnapshotStateProvider(snapshots, store),
		Active: store,
		Source: consumer,
		Auth:   auth,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway service")
	}

	log.Info().
		Str("nats_url", cfg.NATS.Consumer.URL).
		Str("addr", cfg.Server.GatewayAddr).
		Bool("snapshots", snapshots != nil).
		Msg("starting draft gateway")

	server := &http.Server{
		Addr:              cfg.Server.GatewayAddr,
		Handler:           gatewayService.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gatewayService.Start(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
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
		log.Error().Err(err).Msg("gateway stopped with error")
		return
	}
	log.Info().Msg("draft gateway shutdown complete")
}
