package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

type CategoryRepo struct {
	DB DBTX
}

const createCategory = `-- name: CreateCategory
INSERT INTO categories (name, description)
VALUES ($1, $2)
RETURNING id, created_at, name, description
`

func (r *CategoryRepo) CreateCategory(ctx context.Context, name string, description *string) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, createCategory, name, description)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return category, apperrors.ErrCategoryAlreadyExists
		}

		return category, fmt.Errorf("db error: %w", err)
	}

	return category, nil
}

func (r *CategoryRepo) GetCategoryByID(ctx context.Context, id int64) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, created_at, name, description FROM categories WHERE id = $1`, id)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, apperrors.ErrCategoryNotFound
	default:
		return category, fmt.Errorf("db error: %w", err)
	}
}

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, created_at, name, description FROM categories ORDER BY name`)
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return categories, nil
}

func rowToCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Description)
	return c, err
}

type ServiceRepo struct {
	DB DBTX
}

const serviceColumns = `id, created_at, updated_at, category_id, name, description, price_per_unit,
	min_quantity, max_quantity, avg_delivery_hours, supports_drip_feed, is_active`

const createService = `-- name: CreateService
INSERT INTO services (category_id, name, description, price_per_unit, min_quantity, max_quantity, avg_delivery_hours, supports_drip_feed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at, category_id, name, description, price_per_unit,
	min_quantity, max_quantity, avg_delivery_hours, supports_drip_feed, is_active
`

func (r *ServiceRepo) CreateService(ctx context.Context, arg repository.CreateServiceParams) (models.Service, error) {
	rows, _ := r.DB.Query(ctx, createService,
		arg.CategoryID, arg.Name, arg.Description, arg.PricePerUnit,
		arg.MinQuantity, arg.MaxQuantity, arg.AvgDeliveryHours, arg.SupportsDripFeed,
	)
	service, err := pgx.CollectOneRow(rows, rowToService)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return service, apperrors.ErrCategoryNotFound
		}

		return service, fmt.Errorf("db error: %w", err)
	}

	return service, nil
}

func (r *ServiceRepo) GetServiceByID(ctx context.Context, id int64) (models.Service, error) {
	rows, _ := r.DB.Query(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	service, err := pgx.CollectOneRow(rows, rowToService)

	switch {
	case err == nil:
		return service, nil
	case errors.Is(err, pgx.ErrNoRows):
		return service, apperrors.ErrServiceNotFound
	default:
		return service, fmt.Errorf("db error: %w", err)
	}
}

// Inactive rows never show up in catalog listings
const listActiveServices = `-- name: ListActiveServices
SELECT id, created_at, updated_at, category_id, name, description, price_per_unit,
	min_quantity, max_quantity, avg_delivery_hours, supports_drip_feed, is_active
FROM services
WHERE is_active AND ($1::bigint IS NULL OR category_id = $1)
ORDER BY id
`

func (r *ServiceRepo) ListActiveServices(ctx context.Context, categoryID *int64) ([]models.Service, error) {
	rows, _ := r.DB.Query(ctx, listActiveServices, categoryID)
	services, err := pgx.CollectRows(rows, rowToService)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return services, nil
}

const updateService = `-- name: UpdateService
UPDATE services
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    price_per_unit = COALESCE($4, price_per_unit),
    min_quantity = COALESCE($5, min_quantity),
    max_quantity = COALESCE($6, max_quantity),
    avg_delivery_hours = COALESCE($7, avg_delivery_hours),
    supports_drip_feed = COALESCE($8, supports_drip_feed),
    is_active = COALESCE($9, is_active),
    updated_at = now()
WHERE id = $1
RETURNING id, created_at, updated_at, category_id, name, description, price_per_unit,
	min_quantity, max_quantity, avg_delivery_hours, supports_drip_feed, is_active
`

func (r *ServiceRepo) UpdateService(ctx context.Context, id int64, arg repository.UpdateServiceParams) (models.Service, error) {
	rows, _ := r.DB.Query(ctx, updateService, id,
		arg.Name, arg.Description, arg.PricePerUnit,
		arg.MinQuantity, arg.MaxQuantity, arg.AvgDeliveryHours,
		arg.SupportsDripFeed, arg.IsActive,
	)
	service, err := pgx.CollectOneRow(rows, rowToService)

	switch {
	case err == nil:
		return service, nil
	case errors.Is(err, pgx.ErrNoRows):
		return service, apperrors.ErrServiceNotFound
	default:
		return service, fmt.Errorf("db error: %w", err)
	}
}

func rowToService(row pgx.CollectableRow) (models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.CategoryID, &s.Name, &s.Description, &s.PricePerUnit,
		&s.MinQuantity, &s.MaxQuantity, &s.AvgDeliveryHours, &s.SupportsDripFeed, &s.IsActive,
	)
	return s, err
}
