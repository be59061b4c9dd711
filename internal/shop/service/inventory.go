package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/store"
	"github.com/tillroom/shopd/pkg/idx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// InventoryService covers staff-facing stock management. Reservation against
// orders lives in OrderService.
type InventoryService struct {
	Store store.Store
}

// NewItemParams are the inputs for adding an inventory line.
type NewItemParams struct {
	CompanyID   string
	Name        string
	Description string
	Category    string
	Quantity    int64
	Price       float64
}

// AddItem creates a new inventory line for a company.
func (s *InventoryService) AddItem(ctx context.Context, p NewItemParams) (domain.InventoryItem, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.InventoryItem{}, domain.Validationf("item name is required")
	}
	if p.Quantity < 0 {
		return domain.InventoryItem{}, domain.Validationf("quantity must not be negative")
	}
	if p.Price <= 0 {
		return domain.InventoryItem{}, domain.Validationf("price must be positive")
	}

	item := domain.InventoryItem{
		ID:          idx.New().String(),
		CompanyID:   p.CompanyID,
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Category:    p.Category,
		Quantity:    p.Quantity,
		Price:       p.Price,
	}

	if err := s.Store.Inventory().CreateItem(ctx, item); err != nil {
		return domain.InventoryItem{}, fmt.Errorf("creating inventory item: %w", err)
	}

	slogx.FromContext(ctx).Info("inventory item added",
		"item_id", item.ID, "company_id", item.CompanyID, "name", item.Name)

	return s.GetItem(ctx, item.CompanyID, item.ID)
}

// SetQuantity replaces an item's stock level.
func (s *InventoryService) SetQuantity(ctx context.Context, companyID, itemID string, quantity int64) (domain.InventoryItem, error) {
	if quantity < 0 {
		return domain.InventoryItem{}, domain.Validationf("quantity must not be negative")
	}

	if err := s.Store.Inventory().SetItemQuantity(ctx, companyID, itemID, quantity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.InventoryItem{}, domain.NotFoundf("item not found: %s", itemID)
		}
		return domain.InventoryItem{}, fmt.Errorf("updating item quantity: %w", err)
	}

	slogx.FromContext(ctx).Info("inventory quantity updated",
		"item_id", itemID, "company_id", companyID, "quantity", quantity)

	return s.GetItem(ctx, companyID, itemID)
}

// GetItem fetches a company-scoped inventory line.
func (s *InventoryService) GetItem(ctx context.Context, companyID, itemID string) (domain.InventoryItem, error) {
	item, err := s.Store.Inventory().GetItemByID(ctx, companyID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.InventoryItem{}, domain.NotFoundf("item not found: %s", itemID)
		}
		return domain.InventoryItem{}, fmt.Errorf("fetching item: %w", err)
	}
	return item, nil
}

// ListItems returns a company's inventory.
func (s *InventoryService) ListItems(ctx context.Context, companyID string) ([]domain.InventoryItem, error) {
	items, err := s.Store.Inventory().ListCompanyItems(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return items, nil
}
