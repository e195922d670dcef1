package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

type OrderRepo struct {
	DB DBTX
}

const orderColumns = `id, created_at, updated_at, user_id, service_id, quantity, total_price, target_url,
	drip_feed_enabled, drip_feed_runs, drip_feed_interval, status, start_count, remains`

const createOrder = `-- name: CreateOrder
INSERT INTO orders (user_id, service_id, quantity, total_price, target_url, drip_feed_enabled, drip_feed_runs, drip_feed_interval)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at, user_id, service_id, quantity, total_price, target_url,
	drip_feed_enabled, drip_feed_runs, drip_feed_interval, status, start_count, remains
`

func (r *OrderRepo) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, createOrder,
		arg.UserID, arg.ServiceID, arg.Quantity, arg.TotalPrice, arg.TargetURL,
		arg.DripFeedEnabled, arg.DripFeedRuns, arg.DripFeedInterval,
	)
	order, err := pgx.CollectOneRow(rows, rowToOrder)
	if err != nil {
		return order, fmt.Errorf("db error: %w", err)
	}

	return order, nil
}

func (r *OrderRepo) GetOrderByID(ctx context.Context, id int64) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := pgx.CollectOneRow(rows, rowToOrder)

	switch {
	case err == nil:
		return order, nil
	case errors.Is(err, pgx.ErrNoRows):
		return order, apperrors.ErrOrderNotFound
	default:
		return order, fmt.Errorf("db error: %w", err)
	}
}

const listOrders = `-- name: ListOrders
SELECT id, created_at, updated_at, user_id, service_id, quantity, total_price, target_url,
	drip_feed_enabled, drip_feed_runs, drip_feed_interval, status, start_count, remains
FROM orders
WHERE $1::bigint IS NULL OR user_id = $1
ORDER BY created_at DESC, id DESC
`

func (r *OrderRepo) ListOrders(ctx context.Context, userID *int64) ([]models.Order, error) {
	rows, _ := r.DB.Query(ctx, listOrders, userID)
	orders, err := pgx.CollectRows(rows, rowToOrder)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return orders, nil
}

const updateOrder = `-- name: UpdateOrder
UPDATE orders
SET status = COALESCE($2, status),
    start_count = COALESCE($3, start_count),
    remains = COALESCE($4, remains),
    updated_at = now()
WHERE id = $1
RETURNING id, created_at, updated_at, user_id, service_id, quantity, total_price, target_url,
	drip_feed_enabled, drip_feed_runs, drip_feed_interval, status, start_count, remains
`

func (r *OrderRepo) UpdateOrder(ctx context.Context, id int64, arg repository.UpdateOrderParams) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, updateOrder, id, arg.Status, arg.StartCount, arg.Remains)
	order, err := pgx.CollectOneRow(rows, rowToOrder)

	switch {
	case err == nil:
		return order, nil
	case errors.Is(err, pgx.ErrNoRows):
		return order, apperrors.ErrOrderNotFound
	default:
		return order, fmt.Errorf("db error: %w", err)
	}
}

func rowToOrder(row pgx.CollectableRow) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.UserID, &o.ServiceID, &o.Quantity, &o.TotalPrice, &o.TargetURL,
		&o.DripFeedEnabled, &o.DripFeedRuns, &o.DripFeedInterval, &o.Status, &o.StartCount, &o.Remains,
	)
	return o, err
}
