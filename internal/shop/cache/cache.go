// Package cache provides the volatile TTL key-value store behind one-time
// codes and sessions. The primary backend is Redis; when Redis is
// unreachable at construction time we fall back to an in-process map.
//
// The fallback is per-instance: replicas without a shared Redis will not see
// each other's entries. Accepted limitation of the fallback path.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is a TTL key-value store. Keys are namespaced strings (e.g.
// "otp:<owner>" vs "session:<owner>") so code and session entries for the
// same owner never collide.
type Cache interface {
	// Set stores value under key, overwriting any previous entry, and arms
	// the TTL. The entry is treated as absent once the TTL elapses.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the live value for key. ok is false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Delete removes the entry. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewWithFallback dials Redis at addr and falls back to the in-process store
// when the server is unreachable. An empty addr skips Redis entirely.
func NewWithFallback(ctx context.Context, addr string, log *slog.Logger) Cache {
	if addr == "" {
		log.Warn("no redis address configured, using in-process cache")
		return NewMemory()
	}

	r, err := DialRedis(ctx, addr)
	if err != nil {
		log.Warn("redis unreachable, falling back to in-process cache",
			"addr", addr, "err", err)
		return NewMemory()
	}

	log.Info("connected to redis cache", "addr", addr)
	return r
}
