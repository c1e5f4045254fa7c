package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	snapshotKeyPrefix = "draft:snapshot:"
	leaseKeyPrefix    = "draft:lease:"

	defaultSnapshotTTL = 24 * time.Hour
)

// ErrSnapshotNotFound is returned when no snapshot is cached for a draft
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Config holds configuration for the Redis draft cache
type Config struct {
	RedisClient *redis.Client
	// SnapshotTTL bounds how long a snapshot outlives its last write.
	SnapshotTTL time.Duration
	// LeaseTTL is how long an ownership claim lasts without renewal.
	LeaseTTL time.Duration
}

// Snapshots caches the latest DraftState per draft. Snapshots are derived data;
// the event log stays the source of truth.
type Snapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshots creates a new Redis-backed snapshot cache
func NewSnapshots(cfg *Config) (*Snapshots, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.SnapshotTTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &Snapshots{client: cfg.RedisClient, ttl: ttl}, nil
}

type snapshotRecord struct {
	Version int64             `json:"version"`
	State   models.DraftState `json:"state"`
}

// SaveSnapshot stores the state unless a newer version is already cached.
// Snapshot writes race each other off the draft lock, so older versions must not win.
func (s *Snapshots) SaveSnapshot(ctx context.Context, state models.DraftState) error {
	key := snapshotKey(state.Draft.ID)
	data, err := json.Marshal(snapshotRecord{Version: state.Draft.Version, State: state})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var rec snapshotRecord
			if jsonErr := json.Unmarshal(current, &rec); jsonErr == nil && rec.Version >= state.Draft.Version {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the cached state of a draft
func (s *Snapshots) GetSnapshot(ctx context.Context, draftID uuid.UUID) (*models.DraftState, error) {
	data, err := s.client.Get(ctx, snapshotKey(draftID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &rec.State, nil
}

// DeleteSnapshot drops a cached state.
func (s *Snapshots) DeleteSnapshot(ctx context.Context, draftID uuid.UUID) error {
	if err := s.client.Del(ctx, snapshotKey(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func snapshotKey(draftID uuid.UUID) string {
	return fmt.Sprintf("%s%s", snapshotKeyPrefix, draftID)
}

func leaseKey(draftID uuid.UUID) string {
	return fmt.Sprintf("%s%s", leaseKeyPrefix, draftID)
}
