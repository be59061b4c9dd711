package http

import (
	"net/http"
	"strings"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/pkg/httpx"
)

// Authenticated gates a handler behind the authorization check. The bearer
// token is validated (signature, expiry, live session) and the embedded role
// must be in allowed; an empty allowed set admits any authenticated role.
// On success the identity is attached to the request context.
func Authenticated(gate *service.Gate, allowed ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.Authorize(r.Context(), bearerToken(r), allowed...)
			if err != nil {
				writeFailure(w, r, err)
				return
			}

			ctx := service.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
