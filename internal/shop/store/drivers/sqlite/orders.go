package sqlite

import (
	"context"

	"github.com/tillroom/shopd/internal/shop/domain"
)

type ordersRepo struct {
	q queryer
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, company_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		o.ID, o.UserID, o.CompanyID, string(o.Status))
	return err
}

func (r *ordersRepo) CreateOrderLine(ctx context.Context, l domain.OrderLine) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO order_lines (order_id, item_id, quantity, price_at_time)
		 VALUES (?, ?, ?, ?)`,
		l.OrderID, l.ItemID, l.Quantity, l.PriceAtTime)
	return err
}

func (r *ordersRepo) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, company_id, status, created_at, updated_at FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.UserID, &o.CompanyID, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, mapNotFound(err)
	}
	o.Status, err = domain.ParseOrderStatus(status)
	if err != nil {
		return domain.Order{}, err
	}

	o.Lines, err = r.loadLines(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *ordersRepo) ListCompanyOrders(ctx context.Context, companyID string) ([]domain.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, user_id, company_id, status, created_at, updated_at FROM orders
		 WHERE company_id = ? ORDER BY created_at DESC, id DESC`, companyID)
}

func (r *ordersRepo) ListUserOrders(ctx context.Context, companyID, userID string) ([]domain.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, user_id, company_id, status, created_at, updated_at FROM orders
		 WHERE company_id = ? AND user_id = ? ORDER BY created_at DESC, id DESC`, companyID, userID)
}

func (r *ordersRepo) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.CompanyID, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if o.Status, err = domain.ParseOrderStatus(status); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The header cursor must be closed before the line queries run: the pool
	// may be pinned to a single connection.
	rows.Close()
	for i := range orders {
		if orders[i].Lines, err = r.loadLines(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *ordersRepo) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT order_id, item_id, quantity, price_at_time FROM order_lines WHERE order_id = ? ORDER BY rowid`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ItemID, &l.Quantity, &l.PriceAtTime); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *ordersRepo) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), orderID)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}
