package http

import (
	"errors"
	"net/http"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/pkg/httpx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// writeFailure maps a service error onto the wire. Failure kinds carry their
// message through; anything else is a 500 with a generic body so internals
// never leak.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var f *domain.Failure
	if errors.As(err, &f) {
		switch f.Kind {
		case domain.KindAuthentication:
			httpx.WriteError(w, http.StatusUnauthorized, string(f.Kind), f.Message)
			return
		case domain.KindAuthorization:
			httpx.WriteError(w, http.StatusForbidden, string(f.Kind), f.Message)
			return
		case domain.KindValidation:
			httpx.WriteError(w, http.StatusBadRequest, string(f.Kind), f.Message)
			return
		case domain.KindNotFound:
			httpx.WriteError(w, http.StatusNotFound, string(f.Kind), f.Message)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
}

func writeInvalidBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
}
