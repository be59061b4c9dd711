package http

import (
	"encoding/json"
	"net/http"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/pkg/httpx"
)

// UsersHandler serves admin account management.
type UsersHandler struct {
	UserService *service.UserService
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Role     string `json:"role"`
}

type userResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Forename  string `json:"forename"`
	Surname   string `json:"surname"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CompanyID string `json:"company_id"`
}

// HandleCreate handles POST /v1/users. The new account is created inside the
// caller's company.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, _ := service.IdentityFromContext(ctx)

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeFailure(w, r, domain.Validationf("unknown role: %s", req.Role))
		return
	}

	user, err := h.UserService.CreateUser(ctx, service.NewUserParams{
		Email:     req.Email,
		Password:  req.Password,
		Forename:  req.Forename,
		Surname:   req.Surname,
		Role:      role,
		CompanyID: identity.CompanyID,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Forename:  user.Forename,
		Surname:   user.Surname,
		Role:      user.Role.String(),
		Status:    user.Status.String(),
		CompanyID: user.CompanyID,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus handles PATCH /v1/users/{id}/status.
func (h *UsersHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	status, err := domain.ParseAccountStatus(req.Status)
	if err != nil {
		writeFailure(w, r, domain.Validationf("unknown account status: %s", req.Status))
		return
	}

	if err := h.UserService.SetAccountStatus(ctx, r.PathValue("id"), status); err != nil {
		writeFailure(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
