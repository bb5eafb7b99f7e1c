package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLockRepo implements the SubmissionLocker interface using Redis SETNX.
// The lock covers the window between job submission and the row insert, so two
// concurrent requests for the same photo cannot both reach the provider.
type RedisLockRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisLockRepo creates a new RedisLockRepo with the given Redis client.
func NewRedisLockRepo(client redis.UniversalClient) *RedisLockRepo {
	return &RedisLockRepo{client: client, prefix: "animate:lock:"}
}

// Acquire takes the per-photo submission lock. Returns false when another
// submission currently holds it.
func (r *RedisLockRepo) Acquire(ctx context.Context, photoID string, ttl time.Duration) (bool, error) {
	if photoID == "" {
		return false, errors.New("photo id cannot be empty")
	}
	if ttl <= 0 {
		return false, errors.New("lock ttl must be positive")
	}

	ok, err := r.client.SetNX(ctx, r.prefix+photoID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submission lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock early. Locks also expire with their TTL.
func (r *RedisLockRepo) Release(ctx context.Context, photoID string) error {
	if photoID == "" {
		return nil
	}
	if err := r.client.Del(ctx, r.prefix+photoID).Err(); err != nil {
		return fmt.Errorf("release submission lock: %w", err)
	}
	return nil
}
