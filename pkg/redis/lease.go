package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshLease is a time-bounded claim on a single token refresh, backed by
// SETNX. It prevents two service replicas from refreshing the same token
// concurrently; single-instance deployments can run without one.
type RefreshLease struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRefreshLease creates a lease manager with the given claim TTL. The TTL
// bounds how long a crashed holder can block other replicas.
func NewRefreshLease(client *redis.Client, ttl time.Duration) *RefreshLease {
	return &RefreshLease{client: client, ttl: ttl}
}

// Acquire claims the key; false means another holder owns it
func (l *RefreshLease) Acquire(ctx context.Context, key string) (bool, error) {
	return l.client.SetNX(ctx, key, "1", l.ttl).Result()
}

// Release gives up the claim early. The TTL would expire it anyway, so a
// failed release is not fatal.
func (l *RefreshLease) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
