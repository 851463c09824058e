// File: internal/service/lockout_guard.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/utils/metrics"
)

// AttemptLimiter is the lockout guard as seen by the orchestrator.
type AttemptLimiter interface {
	IsBlocked(ctx context.Context, key string) bool
	RecordFailure(ctx context.Context, key string) (attemptsRemaining int, nowBlocked bool)
	Reset(ctx context.Context, key string)
}

// AttemptStore is the counter backend (Redis in production).
type AttemptStore interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	SetFlag(ctx context.Context, key string, ttl time.Duration) error
	FlagExists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// LockoutGuard counts failed authentication attempts per key and blocks
// the key once the threshold is reached. The block flag is sticky: it
// holds for its full TTL even while the attempt counter expires.
//
// A store outage degrades open: attempts are allowed and failures are not
// counted, so an unreachable Redis cannot lock the whole user base out.
type LockoutGuard struct {
	store       AttemptStore
	maxAttempts int
	window      time.Duration
	blockFor    time.Duration
	logger      *zap.Logger
}

// NewLockoutGuard creates a new instance.
func NewLockoutGuard(store AttemptStore, maxAttempts int, window, blockFor time.Duration, logger *zap.Logger) *LockoutGuard {
	return &LockoutGuard{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		blockFor:    blockFor,
		logger:      logger,
	}
}

func attemptsKey(key string) string { return "login:attempts:" + key }
func blockedKey(key string) string  { return "login:blocked:" + key }

// IsBlocked reports whether the key is currently blocked.
func (g *LockoutGuard) IsBlocked(ctx context.Context, key string) bool {
	blocked, err := g.store.FlagExists(ctx, blockedKey(key))
	if err != nil {
		g.logger.Warn("lockout store unavailable, allowing attempt", zap.Error(err))
		return false
	}
	return blocked
}

// RecordFailure counts one failed attempt. The counter's TTL is refreshed
// on every failure, so the window slides. When the threshold is reached
// the block flag is set and nowBlocked is true.
func (g *LockoutGuard) RecordFailure(ctx context.Context, key string) (int, bool) {
	count, err := g.store.Increment(ctx, attemptsKey(key), g.window)
	if err != nil {
		g.logger.Warn("lockout store unavailable, failure not counted", zap.Error(err))
		return g.maxAttempts - 1, false
	}

	if count >= int64(g.maxAttempts) {
		if err := g.store.SetFlag(ctx, blockedKey(key), g.blockFor); err != nil {
			g.logger.Warn("failed to set lockout flag", zap.Error(err))
			return 0, false
		}
		metrics.AccountLockouts.Inc()
		g.logger.Info("account blocked after repeated failures",
			zap.Int64("attempts", count),
			zap.Duration("block_for", g.blockFor),
		)
		return 0, true
	}

	return g.maxAttempts - int(count), false
}

// Reset clears the counter and the block flag after a success.
func (g *LockoutGuard) Reset(ctx context.Context, key string) {
	if err := g.store.Delete(ctx, attemptsKey(key), blockedKey(key)); err != nil {
		g.logger.Warn("failed to reset lockout state", zap.Error(err))
	}
}

var _ AttemptLimiter = (*LockoutGuard)(nil)
