package catalog

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/repository"
	"github.com/smmpanel/smmpanel/internal/repository/postgres"
	"github.com/smmpanel/smmpanel/internal/testutil"
)

func TestCatalogService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper function to create CatalogService within transaction
	withTx := func(t *testing.T, fn func(s *CatalogService)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(NewService(postgres.NewStorage(tx)))
		})
	}

	serviceParams := func(categoryID int64, price string) repository.CreateServiceParams {
		return repository.CreateServiceParams{
			CategoryID:       categoryID,
			Name:             "Instagram Followers",
			Description:      "High quality followers",
			PricePerUnit:     decimal.RequireFromString(price),
			MinQuantity:      10,
			MaxQuantity:      10000,
			AvgDeliveryHours: 24,
		}
	}

	t.Run("categories", func(t *testing.T) {
		withTx(t, func(s *CatalogService) {
			_, err := s.CreateCategory(t.Context(), "Instagram", nil)
			require.NoError(t, err)

			_, err = s.CreateCategory(t.Context(), "Instagram", nil)
			require.ErrorIs(t, err, apperrors.ErrCategoryAlreadyExists)

			categories, err := s.ListCategories(t.Context())
			require.NoError(t, err)
			require.Len(t, categories, 1)
		})
	})

	t.Run("CreateService", func(t *testing.T) {
		t.Run("price must be positive", func(t *testing.T) {
			withTx(t, func(s *CatalogService) {
				category, err := s.CreateCategory(t.Context(), "Instagram", nil)
				require.NoError(t, err)

				_, err = s.CreateService(t.Context(), serviceParams(category.ID, "0"))

				require.ErrorIs(t, err, apperrors.ErrAmountNotPositive)
			})
		})

		t.Run("unknown category", func(t *testing.T) {
			withTx(t, func(s *CatalogService) {
				_, err := s.CreateService(t.Context(), serviceParams(404404, "1.50"))

				require.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
			})
		})
	})

	t.Run("ListServices hides deactivated", func(t *testing.T) {
		withTx(t, func(s *CatalogService) {
			category, err := s.CreateCategory(t.Context(), "Instagram", nil)
			require.NoError(t, err)

			service, err := s.CreateService(t.Context(), serviceParams(category.ID, "1.50"))
			require.NoError(t, err)

			services, err := s.ListServices(t.Context(), &category.ID)
			require.NoError(t, err)
			require.Len(t, services, 1)

			off := false
			_, err = s.UpdateService(t.Context(), service.ID, repository.UpdateServiceParams{IsActive: &off})
			require.NoError(t, err)

			services, err = s.ListServices(t.Context(), &category.ID)
			require.NoError(t, err)
			require.Empty(t, services, "deactivated service should leave the listing")
		})
	})

	t.Run("UpdateService rejects non-positive price", func(t *testing.T) {
		withTx(t, func(s *CatalogService) {
			category, err := s.CreateCategory(t.Context(), "Instagram", nil)
			require.NoError(t, err)

			service, err := s.CreateService(t.Context(), serviceParams(category.ID, "1.50"))
			require.NoError(t, err)

			price := decimal.Zero

			_, err = s.UpdateService(t.Context(), service.ID, repository.UpdateServiceParams{PricePerUnit: &price})

			require.ErrorIs(t, err, apperrors.ErrAmountNotPositive)
		})
	})
}
