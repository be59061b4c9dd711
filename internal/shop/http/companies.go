package http

import (
	"encoding/json"
	"net/http"

	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/pkg/httpx"
)

// CompaniesHandler serves tenant management.
type CompaniesHandler struct {
	CompanyService *service.CompanyService
}

type createCompanyRequest struct {
	Name string `json:"name"`
}

type companyResponse struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

// HandleCreate handles POST /v1/companies.
func (h *CompaniesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	company, err := h.CompanyService.Create(r.Context(), req.Name)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, companyResponse{
		CompanyID: company.ID,
		Name:      company.Name,
	})
}

// HandleList handles GET /v1/companies. Tenants are global, so this is an
// admin-only view.
func (h *CompaniesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	companies, err := h.CompanyService.List(r.Context())
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyResponse{CompanyID: c.ID, Name: c.Name})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
