package http

import (
	"encoding/json"
	"net/http"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/pkg/httpx"
)

// InventoryHandler serves stock management for the caller's company.
type InventoryHandler struct {
	InventoryService *service.InventoryService
}

type createItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

type itemResponse struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

func toItemResponse(item domain.InventoryItem) itemResponse {
	return itemResponse{
		ItemID:      item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Quantity:    item.Quantity,
		Price:       item.Price,
	}
}

// HandleCreate handles POST /v1/inventory.
func (h *InventoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := service.IdentityFromContext(ctx)

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	item, err := h.InventoryService.AddItem(ctx, service.NewItemParams{
		CompanyID:   identity.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toItemResponse(item))
}

// HandleList handles GET /v1/inventory.
func (h *InventoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := service.IdentityFromContext(ctx)

	items, err := h.InventoryService.ListItems(ctx, identity.CompanyID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type setQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// HandleSetQuantity handles PATCH /v1/inventory/{id}/quantity.
func (h *InventoryHandler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := service.IdentityFromContext(ctx)

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	item, err := h.InventoryService.SetQuantity(ctx, identity.CompanyID, r.PathValue("id"), req.Quantity)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}
