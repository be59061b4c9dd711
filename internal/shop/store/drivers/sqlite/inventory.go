package sqlite

import (
	"context"
	"database/sql"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/store"
)

type inventoryRepo struct {
	q queryer
}

const itemColumns = `id, company_id, name, description, category, quantity, price, created_at, updated_at`

func (r *inventoryRepo) GetItemByID(ctx context.Context, companyID, itemID string) (domain.InventoryItem, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = ? AND company_id = ?`,
		itemID, companyID)
	return scanItem(row)
}

func (r *inventoryRepo) ListCompanyItems(ctx context.Context, companyID string) ([]domain.InventoryItem, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE company_id = ? ORDER BY id DESC`,
		companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Description,
			&item.Category, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *inventoryRepo) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO inventory_items (id, company_id, name, description, category, quantity, price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		item.ID, item.CompanyID, item.Name, item.Description, item.Category,
		item.Quantity, item.Price)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *inventoryRepo) SetItemQuantity(ctx context.Context, companyID, itemID string, quantity int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND company_id = ?`,
		quantity, itemID, companyID)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}

// DecrementItemQuantity is the reservation primitive. The WHERE clause makes
// the decrement conditional on sufficient stock, so under concurrent order
// placement the database serializes reservations and quantity never goes
// negative.
func (r *inventoryRepo) DecrementItemQuantity(ctx context.Context, companyID, itemID string, qty int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND company_id = ? AND quantity >= ?`,
		qty, itemID, companyID, qty)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing line from an insufficient one.
		var exists int
		err := r.q.QueryRowContext(ctx,
			`SELECT 1 FROM inventory_items WHERE id = ? AND company_id = ?`,
			itemID, companyID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		return store.ErrInsufficientStock
	}
	return nil
}

func scanItem(row *sql.Row) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Description,
		&item.Category, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return domain.InventoryItem{}, mapNotFound(err)
	}
	return item, nil
}
