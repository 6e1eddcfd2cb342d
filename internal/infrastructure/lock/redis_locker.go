// Package lock provides a Redis-backed distributed mutex used to
// serialize report submissions per terminal-day.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"davrcash/internal/core/apperror"
	"davrcash/pkg/logger"
)

const (
	lockTTL       = 15 * time.Second
	retryInterval = 100 * time.Millisecond
	retryLimit    = 30
)

// RedisLocker implements the keyed mutex over redislock.
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker creates a locker backed by the given Redis client.
func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

// WithLock obtains the named lock, runs fn and releases the lock.
// Contention past the retry budget surfaces as a conflict error.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := l.client.Obtain(ctx, "lock:"+key, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), retryLimit),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return apperror.NewConflict("another submission for this terminal and date is in progress")
		}
		return apperror.NewInternal(err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn(ctx, "lock release failed", "key", key, "error", err)
		}
	}()

	return fn(ctx)
}
