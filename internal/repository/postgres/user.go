package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, updated_at, username, email, password_hash, balance, role, api_key`

const createUser = `-- name: CreateUser
INSERT INTO users (username, email, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at, username, email, password_hash, balance, role, api_key
`

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, arg.Username, arg.Email, arg.HashedPassword, arg.Role)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return collectUser(rows)
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return collectUser(rows)
}

func (r *UserRepo) GetUserByAPIKey(ctx context.Context, key string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE api_key = $1`, key)
	return collectUser(rows)
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

const updateUser = `-- name: UpdateUser
UPDATE users
SET username = COALESCE($2, username),
    email = COALESCE($3, email),
    balance = COALESCE($4, balance),
    role = COALESCE($5, role),
    updated_at = now()
WHERE id = $1
RETURNING id, created_at, updated_at, username, email, password_hash, balance, role, api_key
`

func (r *UserRepo) UpdateUser(ctx context.Context, id int64, arg repository.UpdateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateUser, id, arg.Username, arg.Email, arg.Balance, arg.Role)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}
}

const setAPIKey = `-- name: SetAPIKey
UPDATE users
SET api_key = $2, updated_at = now()
WHERE id = $1
RETURNING id, created_at, updated_at, username, email, password_hash, balance, role, api_key
`

func (r *UserRepo) SetAPIKey(ctx context.Context, id int64, key string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, setAPIKey, id, key)
	return collectUser(rows)
}

// Balance may only be touched here or via the administrative UpdateUser
// The WHERE guard keeps a concurrent debit from driving the balance negative,
// the schema CHECK backs it up
const adjustBalance = `-- name: AdjustBalance
UPDATE users
SET balance = balance + $2, updated_at = now()
WHERE id = $1 AND balance + $2 >= 0
RETURNING id, created_at, updated_at, username, email, password_hash, balance, role, api_key
`

func (r *UserRepo) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (models.User, error) {
	rows, _ := r.DB.Query(ctx, adjustBalance, id, delta)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows) && delta.IsNegative():
		return user, apperrors.ErrBalanceInsufficient
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Email, &u.HashedPassword, &u.Balance, &u.Role, &u.APIKey)
	return u, err
}
