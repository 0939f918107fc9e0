// Package lock provides distributed per-ticket locks backed by Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/config"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

const keyPrefix = "lock:ticket:"

type RedisTicketLocker struct {
	locker  *redislock.Client
	ttl     time.Duration
	backoff time.Duration
	retries int
	logger  logger.Interface
}

func NewRedisTicketLocker(client redis.UniversalClient, cfg config.LockConfig, log logger.Interface) *RedisTicketLocker {
	l := &RedisTicketLocker{
		locker:  redislock.New(client),
		ttl:     time.Duration(cfg.TTL) * time.Second,
		backoff: time.Duration(cfg.RetryBackoff) * time.Millisecond,
		retries: cfg.RetryCount,
		logger:  log,
	}
	if l.ttl <= 0 {
		l.ttl = 30 * time.Second
	}
	if l.backoff <= 0 {
		l.backoff = 100 * time.Millisecond
	}
	if l.retries < 0 {
		l.retries = 0
	}
	return l
}

var _ ticketusecases.TicketLocker = (*RedisTicketLocker)(nil)

// Lock obtains the ticket lock, retrying with linear backoff. The returned
// unlock func is safe to call once the context is gone.
func (l *RedisTicketLocker) Lock(ctx context.Context, ticketID string) (func(), error) {
	key := keyPrefix + ticketID
	held, err := l.locker.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), l.retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ticketusecases.ErrTicketBusy
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain ticket lock: %w", err)
	}

	return func() {
		if err := held.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warnw("failed to release ticket lock", "ticket_id", ticketID, "error", err)
		}
	}, nil
}
