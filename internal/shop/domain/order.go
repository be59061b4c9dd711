package domain

import "time"

// Order is created atomically with its lines; status transitions are applied
// one at a time afterwards.
type Order struct {
	ID        string
	UserID    string
	CompanyID string
	Status    OrderStatus
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine snapshots the item price at order time. PriceAtTime is never
// recomputed after commit.
type OrderLine struct {
	OrderID     string
	ItemID      string
	Quantity    int64
	PriceAtTime float64
}

// OrderRequestLine is one requested line of a new order.
type OrderRequestLine struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}
