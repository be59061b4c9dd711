package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/tillroom/shopd/internal/shop/cache"
	"github.com/tillroom/shopd/pkg/cryptox"
	"github.com/tillroom/shopd/pkg/slogx"
)

// DefaultOTPTTL is how long an issued one-time code stays verifiable.
const DefaultOTPTTL = 5 * time.Minute

// Dispatcher delivers a one-time code to its owner over an out-of-band
// channel (email, SMS). Delivery failure does not invalidate the code; it
// stays verifiable until TTL and can be re-sent by a fresh login.
type Dispatcher interface {
	SendCode(ctx context.Context, email, code string) error
}

// LogDispatcher is the development dispatcher: it logs the code instead of
// delivering it.
type LogDispatcher struct{}

func (LogDispatcher) SendCode(ctx context.Context, email, code string) error {
	slogx.FromContext(ctx).Info("one-time code issued", "email", email, "code", code)
	return nil
}

// OTPManager issues and verifies single-use one-time codes. Exactly one live
// code per owner: issuing overwrites any prior unconsumed code.
//
// Construct one instance at process start and share it; per-owner state is
// linearized through the manager's critical section.
type OTPManager struct {
	mu       sync.Mutex
	cache    cache.Cache
	dispatch Dispatcher
	ttl      time.Duration
	codeLen  int
}

// NewOTPManager builds a manager over c, dispatching codes via d. A
// non-positive ttl falls back to DefaultOTPTTL.
func NewOTPManager(c cache.Cache, d Dispatcher, ttl time.Duration) *OTPManager {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPManager{
		cache:    c,
		dispatch: d,
		ttl:      ttl,
		codeLen:  cryptox.DefaultCodeLength,
	}
}

func otpKey(ownerID string) string { return "otp:" + ownerID }

// Issue generates a fresh code for ownerID, stores it with the manager's
// TTL (overwriting any prior code) and dispatches it to email.
func (m *OTPManager) Issue(ctx context.Context, ownerID, email string) (string, error) {
	code, err := cryptox.GenerateCode(m.codeLen)
	if err != nil {
		return "", fmt.Errorf("generating one-time code: %w", err)
	}

	m.mu.Lock()
	err = m.cache.Set(ctx, otpKey(ownerID), code, m.ttl)
	m.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("storing one-time code: %w", err)
	}

	// Dispatch failure is deliberate best-effort: the stored code remains
	// valid and a retried login re-sends a fresh one.
	if err := m.dispatch.SendCode(ctx, email, code); err != nil {
		slogx.FromContext(ctx).Warn("one-time code dispatch failed", "err", err)
	}

	return code, nil
}

// Verify checks candidate against the stored code for ownerID. A match
// consumes the code (single use). A mismatch leaves the code in place so the
// owner can retry until it expires or a fresh one is issued.
func (m *OTPManager) Verify(ctx context.Context, ownerID, candidate string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok, err := m.cache.Get(ctx, otpKey(ownerID))
	if err != nil {
		slogx.FromContext(ctx).Error("one-time code lookup failed", "err", err)
		return false
	}
	if !ok {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) != 1 {
		return false
	}

	if err := m.cache.Delete(ctx, otpKey(ownerID)); err != nil {
		// If we can't consume the code, fail the verification rather than
		// allow a code that might be replayable.
		slogx.FromContext(ctx).Error("one-time code consume failed", "err", err)
		return false
	}
	return true
}
