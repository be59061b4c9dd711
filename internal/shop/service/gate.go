package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/pkg/jwtx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// Gate is the stateless per-call authorization check. Every protected
// operation passes through it: token signature and expiry, then session
// liveness, then role membership.
type Gate struct {
	Verifier jwtx.Verifier
	Sessions *SessionManager
}

// Authorize validates rawToken and checks the embedded role against the
// permitted set. On success the returned identity is trusted by the
// downstream operation for the remainder of the call.
//
// Expired and tampered tokens are distinguished in the logs but produce the
// same generic message for callers.
func (g *Gate) Authorize(ctx context.Context, rawToken string, allowed ...domain.Role) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.Identity{}, domain.Authenticationf("missing or invalid token")
	}

	claims, err := g.Verifier.Verify(rawToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			log.Warn("token rejected: expired")
		} else {
			log.Warn("token rejected", "err", err)
		}
		return domain.Identity{}, domain.Authenticationf("missing or invalid token").WithCause(err)
	}

	// The parser already enforced expiry; checked again so the gate does not
	// depend on parser defaults.
	if err := claims.ValidateExpiry(); err != nil {
		log.Warn("token rejected: expired")
		return domain.Identity{}, domain.Authenticationf("missing or invalid token").WithCause(err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		log.Warn("token rejected: unknown role", "role", claims.Role)
		return domain.Identity{}, domain.Authenticationf("missing or invalid token").WithCause(err)
	}

	// Catches tokens superseded by a newer login or revoked by logout: the
	// signature is fine but the server-side session no longer matches.
	if !g.Sessions.IsValid(ctx, claims.Subject, rawToken) {
		log.Warn("token rejected: no live session", "user_id", claims.Subject)
		return domain.Identity{}, domain.Authenticationf("invalid session")
	}

	if len(allowed) > 0 && !slices.Contains(allowed, role) {
		log.Warn("operation forbidden for role", "user_id", claims.Subject, "role", role)
		return domain.Identity{}, domain.Authorizationf("insufficient permissions")
	}

	return domain.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      role,
		CompanyID: claims.CompanyID,
	}, nil
}

type identityContextKey struct{}

// ContextWithIdentity attaches the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(domain.Identity)
	return id, ok
}
