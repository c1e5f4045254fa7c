package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/draftroom/go/internal/config"
	"github.com/mcdev12/draftroom/go/internal/draft/archive"
	"github.com/mcdev12/draftroom/go/internal/draft/autopick"
	"github.com/mcdev12/draftroom/go/internal/draft/cache"
	"github.com/mcdev12/draftroom/go/internal/draft/gateway"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/draft/pool"
	"github.com/mcdev12/draftroom/go/internal/draft/repository"
	"github.com/mcdev12/draftroom/go/internal/roster"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// playerPool is what both pool sources offer the engine, the roster and the autopick.
type playerPool interface {
	orchestrator.PoolSource
	autopick.RankingSource
	roster.PlayersRepository
}

type Services struct {
	Engine  *orchestrator.Orchestrator
	Gateway *gateway.Service

	closers []func()
}

// Close releases the pool and cache clients in reverse order.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func setupServices(ctx context.Context, cfg *config.Config, database *sql.DB) (*Services, error) {
	// Wire up dependency injection chain
	// Database → event store → roster/autopick → engine → gateway
	s := &Services{}
	store := repository.NewRepository(database)

	players, err := setupPool(ctx, cfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}

	rosterApp := roster.NewApp(store, players, cfg.Roster)

	var strategy autopick.Strategy
	switch cfg.Autopick.Strategy {
	case config.StrategyRandom:
		strategy = autopick.NewRandomStrategy(players, cfg.Autopick.BotTopK, cfg.Autopick.Seed)
	default:
		strategy = autopick.NewRankedStrategy(players, rosterApp)
	}

	deps := orchestrator.Deps{
		Store:    store,
		Pool:     players,
		Roster:   rosterApp,
		Strategy: strategy,
		Bots:     autopick.NewRandomStrategy(players, cfg.Autopick.BotTopK, cfg.Autopick.Seed),
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { client.Close() })

		cacheCfg := &cache.Config{
			RedisClient: client,
			SnapshotTTL: cfg.Redis.SnapshotTTL,
			LeaseTTL:    cfg.Redis.LeaseTTL,
		}
		snapshots, err := cache.NewSnapshots(cacheCfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		leases, err := cache.NewLeases(cacheCfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		deps.Snapshots = snapshots
		deps.Leaser = leases
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis snapshots and leases enabled")
	}

	if cfg.Archive.Enabled {
		archiver, err := archive.NewFromConfig(ctx, cfg.Archive.Config)
		if err != nil {
			s.Close()
			return nil, err
		}
		deps.Archiver = archiver
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("draft archive enabled")
	}

	s.Engine = orchestrator.NewOrchestrator(deps, cfg.Engine)

	auth, err := setupAuth(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	gatewayCfg := gateway.Config{
		ConnectionConfig: cfg.Gateway,
		JetStreamConfig:  cfg.NATS.Consumer,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	}
	s.Gateway, err = gateway.NewService(gatewayCfg, gateway.Deps{
		States:   s.Engine,
		Active:   store,
		Engine:   s.Engine,
		Presence: s.Engine.SetPresence,
		Source:   gateway.NewHubFeed(s.Engine.Hub(), gatewayCfg.ConnectionConfig.SendBuffer),
		Auth:     auth,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create gateway service: %w", err)
	}
	return s, nil
}

func setupPool(ctx context.Context, cfg *config.Config, s *Services) (playerPool, error) {
	if cfg.Pool.Source == config.PoolSourceFile {
		static, err := pool.LoadFile(cfg.Pool.File)
		if err != nil {
			return nil, err
		}
		entries, _ := static.Pool(ctx, uuid.Nil)
		log.Info().Str("file", cfg.Pool.File).Int("players", len(entries)).Msg("loaded player pool")
		return static, nil
	}

	db, err := pgxpool.New(ctx, cfg.Pool.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pool database: %w", err)
	}
	s.closers = append(s.closers, db.Close)

	source := pool.NewPostgres(db)
	if err := source.Migrate(ctx); err != nil {
		return nil, err
	}
	return source, nil
}

func setupAuth(cfg *config.Config) (*gateway.Authenticator, error) {
	if cfg.Auth.Secret == "" {
		log.Warn().Msg("JWT_SECRET not set, seat claims are not enforced")
		return nil, nil
	}
	return gateway.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer)
}
