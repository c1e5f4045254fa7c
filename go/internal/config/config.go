// Package config loads service configuration from a YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/draftroom/go/internal/dbconfig"
	"github.com/mcdev12/draftroom/go/internal/draft/archive"
	"github.com/mcdev12/draftroom/go/internal/draft/gateway"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/draft/outbox"
	"github.com/mcdev12/draftroom/go/internal/roster"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	StrategyRanked = "ranked"
	StrategyRandom = "random"

	PoolSourcePostgres = "postgres"
	PoolSourceFile     = "file"
)

type Config struct {
	Log      LogConfig                `yaml:"log"`
	Server   ServerConfig             `yaml:"server"`
	Engine   orchestrator.Config      `yaml:"engine"`
	Autopick AutopickConfig           `yaml:"autopick"`
	Roster   roster.Limits            `yaml:"roster"`
	Pool     PoolConfig               `yaml:"pool"`
	Redis    RedisConfig              `yaml:"redis"`
	NATS     NATSConfig               `yaml:"nats"`
	Archive  ArchiveConfig            `yaml:"archive"`
	Auth     AuthConfig               `yaml:"auth"`
	Outbox   outbox.ListenerConfig    `yaml:"outbox"`
	Gateway  gateway.ConnectionConfig `yaml:"gateway"`

	Database dbconfig.Config `yaml:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	GatewayAddr     string        `yaml:"gateway_addr"`
	OutboxAddr      string        `yaml:"outbox_addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type AutopickConfig struct {
	// Strategy drives timed-out human seats: ranked or random.
	Strategy string `yaml:"strategy"`
	// BotTopK is how deep into the rankings bot seats pick at random.
	BotTopK int   `yaml:"bot_top_k"`
	Seed    int64 `yaml:"seed"`
}

type PoolConfig struct {
	Source string `yaml:"source"`
	File   string `yaml:"file"`
	// DatabaseURL defaults to the main database.
	DatabaseURL string `yaml:"-"`
}

type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"-"`
	DB          int           `yaml:"db"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
	LeaseTTL    time.Duration `yaml:"lease_ttl"`
}

type NATSConfig struct {
	Publisher outbox.JetStreamConfig          `yaml:"publisher"`
	Consumer  gateway.JetStreamConsumerConfig `yaml:"consumer"`
}

type ArchiveConfig struct {
	Enabled        bool `yaml:"enabled"`
	archive.Config `yaml:",inline"`
}

type AuthConfig struct {
	Secret   string        `yaml:"-"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Default returns a config that runs locally against default ports.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Pretty: true},
		Server: ServerConfig{
			Addr:            ":8080",
			GatewayAddr:     ":8081",
			OutboxAddr:      ":8082",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Engine:   orchestrator.DefaultConfig(),
		Autopick: AutopickConfig{Strategy: StrategyRanked, BotTopK: 3},
		Roster:   roster.DefaultLimits(),
		Pool:     PoolConfig{Source: PoolSourcePostgres},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			SnapshotTTL: 24 * time.Hour,
			LeaseTTL:    30 * time.Second,
		},
		NATS: NATSConfig{
			Publisher: outbox.DefaultJetStreamConfig(),
			Consumer:  gateway.DefaultJetStreamConsumerConfig(),
		},
		Archive: ArchiveConfig{Config: archive.Config{Prefix: "drafts"}},
		Auth:    AuthConfig{Issuer: "draftroom", TokenTTL: 12 * time.Hour},
		Outbox:  outbox.DefaultListenerConfig(),
		Gateway: gateway.DefaultConnectionConfig(),
	}
}

// Load reads .env, then the YAML file at path (if any), then environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Database = dbconfig.NewConfigFromEnv()
	c.Outbox.DatabaseURL = c.Database.DSN()
	c.Pool.DatabaseURL = getEnv("POOL_DATABASE_URL", c.Database.DSN())

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if port := os.Getenv("GATEWAY_PORT"); port != "" {
		c.Server.GatewayAddr = ":" + port
	}
	if port := os.Getenv("OUTBOX_PORT"); port != "" {
		c.Server.OutboxAddr = ":" + port
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	if url := os.Getenv("NATS_URL"); url != "" {
		c.NATS.Publisher.URL = url
		c.NATS.Consumer.URL = url
	}

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", c.Redis.Enabled)

	c.Archive.Bucket = getEnv("ARCHIVE_BUCKET", c.Archive.Bucket)
	c.Archive.Endpoint = getEnv("ARCHIVE_ENDPOINT", c.Archive.Endpoint)
	c.Archive.Region = getEnv("AWS_REGION", c.Archive.Region)
	c.Archive.AccessKeyID = getEnv("ARCHIVE_ACCESS_KEY_ID", c.Archive.AccessKeyID)
	c.Archive.SecretAccessKey = getEnv("ARCHIVE_SECRET_ACCESS_KEY", c.Archive.SecretAccessKey)
	c.Archive.Enabled = getEnvAsBool("ARCHIVE_ENABLED", c.Archive.Enabled)

	c.Auth.Secret = getEnv("JWT_SECRET", c.Auth.Secret)

	c.Pool.File = getEnv("POOL_FILE", c.Pool.File)
	c.Pool.Source = getEnv("POOL_SOURCE", c.Pool.Source)

	c.Engine.Workers = getEnvAsInt("ENGINE_WORKERS", c.Engine.Workers)
	c.Outbox.FallbackInterval = getEnvAsDuration("FALLBACK_INTERVAL", c.Outbox.FallbackInterval)
}

// Validate reports the first setting the services cannot start with.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.Engine.Workers < 0 {
		return errors.New("engine.workers cannot be negative")
	}
	switch c.Autopick.Strategy {
	case StrategyRanked, StrategyRandom:
	default:
		return fmt.Errorf("unknown autopick strategy %q", c.Autopick.Strategy)
	}
	switch c.Pool.Source {
	case PoolSourcePostgres:
	case PoolSourceFile:
		if c.Pool.File == "" {
			return errors.New("pool.file is required when pool.source is file")
		}
	default:
		return fmt.Errorf("unknown pool source %q", c.Pool.Source)
	}
	for pos, min := range c.Roster.Min {
		if max, ok := c.Roster.Max[pos]; ok && max < min {
			return fmt.Errorf("roster minimum for %s exceeds its maximum", pos)
		}
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return errors.New("archive.bucket is required when the archive is enabled")
	}
	return nil
}

// SetupLogging applies the log section to the global zerolog logger.
func (c *Config) SetupLogging() {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
