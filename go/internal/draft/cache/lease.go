package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLeaseTTL = 30 * time.Second

// Leases is a per-draft ownership claim so only one engine instance drives a draft's clock.
type Leases struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeases creates a lease manager on the given client
func NewLeases(cfg *Config) (*Leases, error) {
	if cfg == nil || cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	ttl := cfg.LeaseTTL
	if ttl <= 0 {
		ttl = defaultLeaseTTL
	}
	return &Leases{client: cfg.RedisClient, ttl: ttl}, nil
}

// Acquire claims the draft for owner. Re-acquiring an owned lease extends it.
func (l *Leases) Acquire(ctx context.Context, draftID uuid.UUID, owner string) (bool, error) {
	ok, err := l.client.SetNX(ctx, leaseKey(draftID), owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lease: %w", err)
	}
	if ok {
		return true, nil
	}
	return l.Renew(ctx, draftID, owner)
}

// Renew extends the lease if owner still holds it.
func (l *Leases) Renew(ctx context.Context, draftID uuid.UUID, owner string) (bool, error) {
	held := false
	err := l.ifOwner(ctx, draftID, owner, func(pipe redis.Pipeliner, key string) {
		held = true
		pipe.Expire(ctx, key, l.ttl)
	})
	if err != nil {
		return false, fmt.Errorf("failed to renew lease: %w", err)
	}
	return held, nil
}

// Release gives the lease up if owner holds it.
func (l *Leases) Release(ctx context.Context, draftID uuid.UUID, owner string) error {
	err := l.ifOwner(ctx, draftID, owner, func(pipe redis.Pipeliner, key string) {
		pipe.Del(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("failed to release lease: %w", err)
	}
	return nil
}

// Owner returns the current holder, or "" when the draft is unclaimed.
func (l *Leases) Owner(ctx context.Context, draftID uuid.UUID) (string, error) {
	owner, err := l.client.Get(ctx, leaseKey(draftID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get lease owner: %w", err)
	}
	return owner, nil
}

// ifOwner runs fn in a transaction that aborts if the key changes hands.
func (l *Leases) ifOwner(ctx context.Context, draftID uuid.UUID, owner string, fn func(pipe redis.Pipeliner, key string)) error {
	key := leaseKey(draftID)
	return l.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != owner {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			fn(pipe, key)
			return nil
		})
		return err
	}, key)
}
