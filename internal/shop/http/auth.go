package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/pkg/httpx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// AuthHandler serves the two-step login endpoints plus logout and userinfo.
type AuthHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
	SessionTTL  time.Duration
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /v1/auth/login: step one of the login protocol.
// A successful response means a one-time code is on its way out of band.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	challenge, err := h.AuthService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, challenge)
}

type mfaRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// HandleMFA handles POST /v1/auth/mfa: step two. The one-time code buys the
// session token.
func (h *AuthHandler) HandleMFA(w http.ResponseWriter, r *http.Request) {
	var req mfaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	token, err := h.AuthService.Complete(r.Context(), req.UserID, req.Code)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	ttl := h.SessionTTL
	if ttl <= 0 {
		ttl = service.DefaultSessionTTL
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	})
}

// HandleLogout handles POST /v1/auth/logout for the authenticated user.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := service.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication_error", "missing or invalid token")
		return
	}

	if err := h.AuthService.Logout(ctx, identity.UserID); err != nil {
		writeFailure(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("user logged out", "user_id", identity.UserID)
	w.WriteHeader(http.StatusNoContent)
}

type userInfoResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Forename  string `json:"forename"`
	Surname   string `json:"surname"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
}

// HandleUserInfo handles GET /v1/auth/userinfo.
func (h *AuthHandler) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := service.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication_error", "missing or invalid token")
		return
	}

	user, err := h.UserService.GetUser(ctx, identity.UserID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userInfoResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Forename:  user.Forename,
		Surname:   user.Surname,
		Role:      user.Role.String(),
		CompanyID: user.CompanyID,
	})
}
