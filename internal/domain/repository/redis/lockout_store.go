// File: internal/domain/repository/redis/lockout_store.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// LockoutStore keeps failed-attempt counters and block flags in Redis.
// Counters are atomic (INCR) so concurrent failures each get a distinct
// attempt number.
type LockoutStore struct {
	client *redis.Client
}

// NewLockoutStore creates a new instance.
func NewLockoutStore(client *redis.Client) *LockoutStore {
	return &LockoutStore{client: client}
}

// Increment bumps the counter at key and refreshes its TTL, returning the
// new value. The first failure creates the counter with the full window.
func (s *LockoutStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment counter %q: %w", key, err)
	}
	return incr.Val(), nil
}

// SetFlag writes a sticky flag that expires after ttl.
func (s *LockoutStore) SetFlag(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to set flag %q: %w", key, err)
	}
	return nil
}

// FlagExists reports whether the flag at key is present.
func (s *LockoutStore) FlagExists(ctx context.Context, key string) (bool, error) {
	err := s.client.Get(ctx, key).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read flag %q: %w", key, err)
	}
	return true, nil
}

// Delete removes the given keys.
func (s *LockoutStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}
