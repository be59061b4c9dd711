package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/store"
	"github.com/tillroom/shopd/internal/shop/store/drivers/sqlite"
	"github.com/tillroom/shopd/pkg/cryptox"
	"github.com/tillroom/shopd/pkg/idx"
)

func setupStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedCompany(t *testing.T, s store.Store) domain.Company {
	t.Helper()

	c := domain.Company{ID: idx.New().String(), Name: "Tillroom Pty Ltd"}
	require.NoError(t, s.Companies().CreateCompany(context.Background(), c))
	return c
}

func seedUser(t *testing.T, s store.Store, companyID, email, password string, role domain.Role, status domain.AccountStatus) domain.User {
	t.Helper()

	cryptox.SetPepperPath(t.TempDir() + "/pepper")
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Forename:     "Test",
		Surname:      "User",
		Role:         role,
		Status:       status,
		CompanyID:    companyID,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedItem(t *testing.T, s store.Store, companyID, name string, quantity int64, price float64) domain.InventoryItem {
	t.Helper()

	item := domain.InventoryItem{
		ID:        idx.New().String(),
		CompanyID: companyID,
		Name:      name,
		Category:  "general",
		Quantity:  quantity,
		Price:     price,
	}
	require.NoError(t, s.Inventory().CreateItem(context.Background(), item))
	return item
}

// captureDispatcher records issued codes so tests can complete the login.
type captureDispatcher struct {
	mu    sync.Mutex
	codes []string
}

func (d *captureDispatcher) SendCode(ctx context.Context, email, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.codes = append(d.codes, code)
	return nil
}

func (d *captureDispatcher) last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.codes) == 0 {
		return ""
	}
	return d.codes[len(d.codes)-1]
}
