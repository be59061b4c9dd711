package store

import (
	"context"
	"errors"

	"github.com/tillroom/shopd/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrInsufficientStock is returned by conditional decrements when the
	// available quantity is smaller than the requested amount. The quantity
	// column can never go negative because the decrement is conditional.
	ErrInsufficientStock = errors.New("store: insufficient stock")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Companies() Companies
	Inventory() Inventory
	Orders() Orders

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-row mutations: order placement relies on
	// it so inventory decrements and order rows become visible atomically.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during the credential step of login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserStatus sets the account status and bumps updated_at.
	UpdateUserStatus(ctx context.Context, userID string, status domain.AccountStatus) error
}

type Companies interface {
	// GetCompanyByID fetches a tenant record.
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// CreateCompany inserts a new tenant.
	CreateCompany(ctx context.Context, c domain.Company) error

	// ListCompanies returns every tenant, newest first.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

type Inventory interface {
	// GetItemByID fetches an inventory line, scoped to a company.
	GetItemByID(ctx context.Context, companyID, itemID string) (domain.InventoryItem, error)

	// ListCompanyItems returns a company's inventory, newest first.
	ListCompanyItems(ctx context.Context, companyID string) ([]domain.InventoryItem, error)

	// CreateItem inserts a new inventory line.
	CreateItem(ctx context.Context, item domain.InventoryItem) error

	// SetItemQuantity replaces the quantity and bumps updated_at.
	SetItemQuantity(ctx context.Context, companyID, itemID string, quantity int64) error

	// DecrementItemQuantity conditionally subtracts qty from the line's
	// quantity. Returns ErrInsufficientStock when the available quantity is
	// below qty, so concurrent reservations can never drive it negative.
	DecrementItemQuantity(ctx context.Context, companyID, itemID string, qty int64) error
}

type Orders interface {
	// CreateOrder inserts the order header.
	CreateOrder(ctx context.Context, o domain.Order) error

	// CreateOrderLine inserts one line of an order.
	CreateOrderLine(ctx context.Context, l domain.OrderLine) error

	// GetOrderByID returns the order with its lines.
	GetOrderByID(ctx context.Context, id string) (domain.Order, error)

	// ListCompanyOrders returns a company's orders with their lines, newest
	// first.
	ListCompanyOrders(ctx context.Context, companyID string) ([]domain.Order, error)

	// ListUserOrders returns one user's orders within a company, newest first.
	ListUserOrders(ctx context.Context, companyID, userID string) ([]domain.Order, error)

	// UpdateOrderStatus sets the status and bumps updated_at.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}
