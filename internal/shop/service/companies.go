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

// CompanyService handles tenant records. Every user, item and order belongs
// to exactly one company.
type CompanyService struct {
	Store store.Store
}

// Create registers a new tenant.
func (s *CompanyService) Create(ctx context.Context, name string) (domain.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Company{}, domain.Validationf("company name is required")
	}

	company := domain.Company{
		ID:   idx.New().String(),
		Name: name,
	}
	if err := s.Store.Companies().CreateCompany(ctx, company); err != nil {
		return domain.Company{}, fmt.Errorf("creating company: %w", err)
	}

	slogx.FromContext(ctx).Info("company created", "company_id", company.ID, "name", name)

	return s.Get(ctx, company.ID)
}

// List returns every tenant, newest first.
func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.Store.Companies().ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	return companies, nil
}

// Get fetches a tenant record.
func (s *CompanyService) Get(ctx context.Context, id string) (domain.Company, error) {
	company, err := s.Store.Companies().GetCompanyByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, domain.NotFoundf("company not found: %s", id)
		}
		return domain.Company{}, fmt.Errorf("fetching company: %w", err)
	}
	return company, nil
}
