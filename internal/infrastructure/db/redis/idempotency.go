package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	defaultKeyPrefix      = "idem:order:"
	pendingMarker         = "pending"
)

// IdempotencyStore reserves Idempotency-Key header values for order placement.
// Keys are stored as <prefix><key>. The value is pendingMarker while the first
// request is in flight and the order id once it has been stored.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. An empty prefix falls back to idem:order:
// and a non-positive ttl to 24h.
func NewIdempotencyStore(client *redis.Client, prefix string, ttl time.Duration) *IdempotencyStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, prefix: prefix, ttl: ttl}
}

// Claim reserves key. When it was already reserved, orderID is the bound order
// or empty while the original request is still running.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if val == pendingMarker {
		return "", false, nil
	}
	return val, false, nil
}

// Bind points key at the created order for the rest of the TTL.
func (s *IdempotencyStore) Bind(ctx context.Context, key, orderID string) error {
	return s.client.Set(ctx, s.key(key), orderID, s.ttl).Err()
}

// Release drops the reservation so the key can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return s.prefix + key
}
