package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/tillroom/shopd/internal/shop/cache"
	"github.com/tillroom/shopd/pkg/slogx"
)

// DefaultSessionTTL is the server-side session lifetime. It matches the
// token's embedded expiry; the two are enforced independently.
const DefaultSessionTTL = time.Hour

// SessionManager tracks the single active session per identity. Creating a
// session overwrites any previous one: a second login for the same identity
// deliberately invalidates the first.
type SessionManager struct {
	mu    sync.Mutex
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionManager builds a manager over c. A non-positive ttl falls back
// to DefaultSessionTTL.
func NewSessionManager(c cache.Cache, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		cache: c,
		ttl:   ttl,
	}
}

func sessionKey(ownerID string) string { return "session:" + ownerID }

// Create registers token as ownerID's session, overwriting any previous one.
func (m *SessionManager) Create(ctx context.Context, ownerID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.cache.Set(ctx, sessionKey(ownerID), token, m.ttl); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Invalidate deletes ownerID's session. Idempotent: invalidating an absent
// session is not an error.
func (m *SessionManager) Invalidate(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.cache.Delete(ctx, sessionKey(ownerID)); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// IsValid reports whether token is ownerID's current live session. A token
// superseded by a newer login fails here even though its signature is still
// good.
func (m *SessionManager) IsValid(ctx context.Context, ownerID, token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok, err := m.cache.Get(ctx, sessionKey(ownerID))
	if err != nil {
		slogx.FromContext(ctx).Error("session lookup failed", "err", err)
		return false
	}
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1
}
