package usecase

import (
	"context"
	"time"
)

// Cache is the subset of the Redis cache the usecases rely on. A disabled
// cache misses on every read, and acquire grants every lock against it.
type Cache interface {
	Enabled() bool
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	InvalidateCatalog(ctx context.Context) error
}

const inviteLockTTL = 30 * time.Second

func inviteLockKey(uid string) string {
	return "lock:invite-accept:" + uid
}

// acquire takes a short lived lock. Without a cache there is nothing to
// coordinate with and the lock is always granted.
func acquire(ctx context.Context, c Cache, key string, ttl time.Duration) (release func(), ok bool) {
	noop := func() {}
	if c == nil || !c.Enabled() {
		return noop, true
	}
	got, err := c.SetIfNotExists(ctx, key, "1", ttl)
	if err != nil {
		return noop, true
	}
	if !got {
		return noop, false
	}
	return func() { _ = c.Delete(context.WithoutCancel(ctx), key) }, true
}
