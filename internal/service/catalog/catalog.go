package catalog

import (
	"context"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

type CatalogService struct {
	// Repository to access long term data
	storage repository.Storage
}

func NewService(storage repository.Storage) *CatalogService {
	return &CatalogService{storage: storage}
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string, description *string) (models.Category, error) {
	return s.storage.Category().CreateCategory(ctx, name, description)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.storage.Category().ListCategories(ctx)
}

func (s *CatalogService) CreateService(ctx context.Context, arg repository.CreateServiceParams) (models.Service, error) {
	if !arg.PricePerUnit.IsPositive() {
		return models.Service{}, apperrors.ErrAmountNotPositive
	}

	return s.storage.Service().CreateService(ctx, arg)
}

// ListServices returns active services only; nil categoryID means the whole catalog
func (s *CatalogService) ListServices(ctx context.Context, categoryID *int64) ([]models.Service, error) {
	return s.storage.Service().ListActiveServices(ctx, categoryID)
}

func (s *CatalogService) UpdateService(ctx context.Context, id int64, arg repository.UpdateServiceParams) (models.Service, error) {
	if arg.PricePerUnit != nil && !arg.PricePerUnit.IsPositive() {
		return models.Service{}, apperrors.ErrAmountNotPositive
	}

	return s.storage.Service().UpdateService(ctx, id, arg)
}
