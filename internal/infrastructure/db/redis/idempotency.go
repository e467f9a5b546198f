package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultIdempotencyTTL bounds how long an Idempotency-Key is remembered.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore maps client-supplied Idempotency-Key values to the time log
// they created. Keys are scoped per user.
// Key format: idem:timelog:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given Redis client. A non-positive ttl falls
// back to DefaultIdempotencyTTL.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the time log id previously stored for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, userID, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records timeLogID for key. The first writer wins.
func (s *IdempotencyStore) Remember(ctx context.Context, userID, key, timeLogID string) error {
	if err := s.client.SetNX(ctx, s.key(userID, key), timeLogID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(userID, key string) string {
	return fmt.Sprintf("idem:timelog:%s:%s", userID, key)
}
