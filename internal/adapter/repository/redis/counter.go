package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore implements usecase.CounterStore on Redis. Counters expire
// on their own; the rolling windows of the fraud rules come entirely
// from the TTLs.
type CounterStore struct {
	client *redis.Client
}

// NewCounterStore creates a new CounterStore.
func NewCounterStore(client *redis.Client) *CounterStore {
	return &CounterStore{client: client}
}

// Increment bumps a counter and starts its expiry window on first use.
func (s *CounterStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// NX keeps the window anchored at the first increment.
	pipe.ExpireNX(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

// Count returns the current counter value, zero when absent.
func (s *CounterStore) Count(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, err
	}

	return value, nil
}

// Get retrieves a string value by key.
func (s *CounterStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, err
	}

	return value, true, nil
}

// Set stores a string value with TTL.
func (s *CounterStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key.
func (s *CounterStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
