package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/store"
	"github.com/tillroom/shopd/pkg/cryptox"
	"github.com/tillroom/shopd/pkg/jwtx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// AuthService implements the two-step login protocol: credentials buy a
// one-time code, the code buys a session token.
//
// The service keeps no attempt counters; brute-force blunting is the
// boundary's job (rate limiter on the login endpoints).
type AuthService struct {
	Store      store.Store
	OTP        *OTPManager
	Sessions   *SessionManager
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

// Authenticate is step one. It verifies the credentials and, on success,
// issues and dispatches a one-time code. The returned challenge tells the
// caller a code is now required.
//
// Absent user and wrong password produce the same generic failure so the
// response can't be used to enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.LoginChallenge, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("failed login attempt", "email", email)
			return domain.LoginChallenge{}, domain.Authenticationf("invalid credentials")
		}
		return domain.LoginChallenge{}, fmt.Errorf("looking up user: %w", err)
	}

	if user.Status != domain.AccountActive {
		log.Warn("inactive account login attempt", "email", email, "user_id", user.ID)
		return domain.LoginChallenge{}, domain.Authenticationf("account inactive")
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("failed login attempt", "email", email, "user_id", user.ID)
		return domain.LoginChallenge{}, domain.Authenticationf("invalid credentials")
	}

	// Credentials accepted; issuing a fresh code implicitly invalidates any
	// prior unconsumed one for this user.
	if _, err := s.OTP.Issue(ctx, user.ID, user.Email); err != nil {
		return domain.LoginChallenge{}, fmt.Errorf("issuing one-time code: %w", err)
	}

	log.Info("login step one succeeded", "email", email, "user_id", user.ID)

	return domain.LoginChallenge{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		CompanyID:   user.CompanyID,
		RequiresOTP: true,
	}, nil
}

// Complete is step two. It consumes the one-time code, mints a signed
// session token and registers it as the user's single active session.
//
// Step two cannot succeed without a prior step one: only Authenticate ever
// issues a code for this user.
func (s *AuthService) Complete(ctx context.Context, userID, code string) (string, error) {
	log := slogx.FromContext(ctx)

	if !s.OTP.Verify(ctx, userID, code) {
		log.Warn("one-time code verification failed", "user_id", userID)
		return "", domain.Authenticationf("invalid or expired code")
	}

	// Re-fetch: the user may have been deleted between the two steps.
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.Authenticationf("user not found")
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(
		user.ID, user.Email, user.Role.String(), user.CompanyID,
		s.Issuer, ttl, time.Now().UTC(),
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	if err := s.Sessions.Create(ctx, user.ID, token); err != nil {
		return "", err
	}

	log.Info("login completed", "email", user.Email, "user_id", user.ID)
	return token, nil
}

// Logout invalidates the user's session. The token stays cryptographically
// valid until its expiry but the gate will reject it at the session check.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Sessions.Invalidate(ctx, userID)
}
