package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/store"
	"github.com/tillroom/shopd/pkg/idx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// OrderService owns the inventory-reservation transaction and order status
// changes.
type OrderService struct {
	Store store.Store
}

// PlaceOrder atomically reserves stock for every requested line and creates
// the order with its lines. All-or-nothing: a missing item or short stock on
// any line rolls back every decrement and the order itself, so no reader
// ever observes a partial order.
//
// Each line snapshots the item's current price; the snapshot is never
// recomputed, later price changes do not touch committed orders.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, companyID string, lines []domain.OrderRequestLine) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, domain.Validationf("order must contain at least one line")
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return domain.Order{}, domain.Validationf("quantity must be positive for item: %s", l.ItemID)
		}
	}

	orderID := idx.New().String()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Orders().CreateOrder(ctx, domain.Order{
			ID:        orderID,
			UserID:    userID,
			CompanyID: companyID,
			Status:    domain.OrderPlaced,
		}); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		// Lines are processed in the order requested.
		for _, l := range lines {
			item, err := tx.Inventory().GetItemByID(ctx, companyID, l.ItemID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return domain.NotFoundf("item not found: %s", l.ItemID)
				}
				return fmt.Errorf("fetching item %s: %w", l.ItemID, err)
			}

			if err := tx.Inventory().DecrementItemQuantity(ctx, companyID, l.ItemID, l.Quantity); err != nil {
				switch {
				case errors.Is(err, store.ErrInsufficientStock):
					return domain.Validationf("insufficient quantity for item: %s", item.Name)
				case errors.Is(err, store.ErrNotFound):
					return domain.NotFoundf("item not found: %s", l.ItemID)
				default:
					return fmt.Errorf("reserving stock for item %s: %w", l.ItemID, err)
				}
			}

			if err := tx.Orders().CreateOrderLine(ctx, domain.OrderLine{
				OrderID:     orderID,
				ItemID:      l.ItemID,
				Quantity:    l.Quantity,
				PriceAtTime: item.Price,
			}); err != nil {
				return fmt.Errorf("creating order line for item %s: %w", l.ItemID, err)
			}
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	slogx.FromContext(ctx).Info("order placed",
		"order_id", orderID, "user_id", userID, "lines", len(lines))

	return s.GetOrder(ctx, orderID)
}

// UpdateStatus applies a status transition. Any status may follow any other;
// only set membership is enforced (via the OrderStatus type).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if err := s.Store.Orders().UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, domain.NotFoundf("order not found: %s", orderID)
		}
		return domain.Order{}, fmt.Errorf("updating order status: %w", err)
	}

	slogx.FromContext(ctx).Info("order status updated", "order_id", orderID, "status", status)

	return s.GetOrder(ctx, orderID)
}

// ListCompanyOrders returns every order in a company, newest first. This is
// the staff view; customers go through ListUserOrders.
func (s *OrderService) ListCompanyOrders(ctx context.Context, companyID string) ([]domain.Order, error) {
	orders, err := s.Store.Orders().ListCompanyOrders(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// ListUserOrders returns one user's orders within a company, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, companyID, userID string) ([]domain.Order, error) {
	orders, err := s.Store.Orders().ListUserOrders(ctx, companyID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// GetOrder fetches an order with its lines.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := s.Store.Orders().GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, domain.NotFoundf("order not found: %s", orderID)
		}
		return domain.Order{}, fmt.Errorf("fetching order: %w", err)
	}
	return order, nil
}
