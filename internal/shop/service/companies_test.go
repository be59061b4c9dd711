package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tillroom/shopd/internal/shop/domain"
)

func TestCompanyCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	svc := &CompanyService{Store: s}

	company, err := svc.Create(ctx, "  Tillroom Pty Ltd ")
	require.NoError(t, err)
	require.Equal(t, "Tillroom Pty Ltd", company.Name)
	require.NotEmpty(t, company.ID)

	got, err := svc.Get(ctx, company.ID)
	require.NoError(t, err)
	require.Equal(t, company.ID, got.ID)

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Create(ctx, "   ")
		require.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("unknown company", func(t *testing.T) {
		_, err := svc.Get(ctx, "missing")
		require.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestListCompanies(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	svc := &CompanyService{Store: s}

	first, err := svc.Create(ctx, "First Trading Co")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "Second Trading Co")
	require.NoError(t, err)

	companies, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	// Newest first.
	require.Equal(t, second.ID, companies[0].ID)
	require.Equal(t, first.ID, companies[1].ID)
}
