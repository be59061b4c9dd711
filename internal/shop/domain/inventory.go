package domain

import "time"

// InventoryItem is a stock line scoped to a company.
//
// Invariants: Quantity >= 0 always (decrements happen only inside an
// order-placement transaction and never go negative), Price > 0.
type InventoryItem struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Category    string
	Quantity    int64
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
