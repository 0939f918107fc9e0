package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
)

const idempotencyKeyPrefix = "idempotency:"

// inFlight marks a reserved key whose request has not completed yet.
const inFlight = ""

// RedisIdempotencyStore keeps request fingerprints in Redis so duplicate
// submissions are detected across server instances.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisIdempotencyStore(client redis.UniversalClient) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, prefix: idempotencyKeyPrefix}
}

var _ ticketusecases.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// Reserve claims key with SETNX. If another request already holds it, the
// stored value is returned.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("idempotency key cannot be empty")
	}

	redisKey := s.buildKey(key)
	ok, err := s.client.SetNX(ctx, redisKey, inFlight, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	value, err := s.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; try once more.
		ok, err = s.client.SetNX(ctx, redisKey, inFlight, ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		return "", ok, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	return value, false, nil
}

// Complete stores the outcome of the request that holds key.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.buildKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) buildKey(key string) string {
	return s.prefix + key
}
