package http

import (
	"encoding/json"
	"net/http"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/pkg/httpx"
)

// OrdersHandler serves order placement, lookup and status changes.
type OrdersHandler struct {
	OrderService *service.OrderService
}

type placeOrderRequest struct {
	Lines []domain.OrderRequestLine `json:"lines"`
}

type orderLineResponse struct {
	ItemID      string  `json:"item_id"`
	Quantity    int64   `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

type orderResponse struct {
	OrderID string              `json:"order_id"`
	UserID  string              `json:"user_id"`
	Status  string              `json:"status"`
	Lines   []orderLineResponse `json:"lines"`
}

func toOrderResponse(o domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse{
			ItemID:      l.ItemID,
			Quantity:    l.Quantity,
			PriceAtTime: l.PriceAtTime,
		})
	}
	return orderResponse{
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  o.Status.String(),
		Lines:   lines,
	}
}

// HandlePlace handles POST /v1/orders. The order is placed by the caller in
// the caller's company.
func (h *OrdersHandler) HandlePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := service.IdentityFromContext(ctx)

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	order, err := h.OrderService.PlaceOrder(ctx, identity.UserID, identity.CompanyID, req.Lines)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toOrderResponse(order))
}

// HandleList handles GET /v1/orders. Staff see every order in their company;
// customers see only their own.
func (h *OrdersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := service.IdentityFromContext(ctx)

	var (
		orders []domain.Order
		err    error
	)
	if identity.Role == domain.RoleCustomer {
		orders, err = h.OrderService.ListUserOrders(ctx, identity.CompanyID, identity.UserID)
	} else {
		orders, err = h.OrderService.ListCompanyOrders(ctx, identity.CompanyID)
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/orders/{id}. Customers can only read their own
// orders; staff can read any order in their company. Orders outside the
// caller's company are reported as absent, not forbidden.
func (h *OrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := service.IdentityFromContext(ctx)

	order, err := h.OrderService.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if order.CompanyID != identity.CompanyID {
		writeFailure(w, r, domain.NotFoundf("order not found: %s", order.ID))
		return
	}
	if identity.Role == domain.RoleCustomer && order.UserID != identity.UserID {
		writeFailure(w, r, domain.Authorizationf("insufficient permissions"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus handles PATCH /v1/orders/{id}/status, a staff operation.
func (h *OrdersHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := service.IdentityFromContext(ctx)

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeFailure(w, r, domain.Validationf("unknown order status: %s", req.Status))
		return
	}

	order, err := h.OrderService.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if order.CompanyID != identity.CompanyID {
		writeFailure(w, r, domain.NotFoundf("order not found: %s", order.ID))
		return
	}

	updated, err := h.OrderService.UpdateStatus(ctx, order.ID, status)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(updated))
}
