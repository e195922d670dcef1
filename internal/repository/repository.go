package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smmpanel/internal/models"
)

// Storage bundles every repository and allows running several of them
// inside a single database transaction
type Storage interface {
	User() UserRepo
	Category() CategoryRepo
	Service() ServiceRepo
	Order() OrderRepo
	Transaction() TransactionRepo

	// Run fn with a Storage bound to one transaction
	// Commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}

type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
	Role           string
}

// UpdateUserParams applies only non-nil fields
type UpdateUserParams struct {
	Username *string
	Email    *string
	Balance  *decimal.Decimal
	Role     *string
}

type UserRepo interface {
	// Create user
	// If username or email is taken must return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id, email or api key
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByAPIKey(ctx context.Context, key string) (models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	// Apply provided fields only, always refresh updated_at
	UpdateUser(ctx context.Context, id int64, arg UpdateUserParams) (models.User, error)

	// Overwrite api key unconditionally
	SetAPIKey(ctx context.Context, id int64, key string) (models.User, error)

	// Add delta (may be negative) to the user balance atomically
	// Must return apperrors.ErrBalanceInsufficient if the result would be negative
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (models.User, error)
}

type CategoryRepo interface {
	// If name is taken must return apperrors.ErrCategoryAlreadyExists
	CreateCategory(ctx context.Context, name string, description *string) (models.Category, error)

	GetCategoryByID(ctx context.Context, id int64) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type CreateServiceParams struct {
	CategoryID       int64
	Name             string
	Description      string
	PricePerUnit     decimal.Decimal
	MinQuantity      int
	MaxQuantity      int
	AvgDeliveryHours int
	SupportsDripFeed bool
}

// UpdateServiceParams applies only non-nil fields
type UpdateServiceParams struct {
	Name             *string
	Description      *string
	PricePerUnit     *decimal.Decimal
	MinQuantity      *int
	MaxQuantity      *int
	AvgDeliveryHours *int
	SupportsDripFeed *bool
	IsActive         *bool
}

type ServiceRepo interface {
	// If category does not exist must return apperrors.ErrCategoryNotFound
	CreateService(ctx context.Context, arg CreateServiceParams) (models.Service, error)

	GetServiceByID(ctx context.Context, id int64) (models.Service, error)

	// Active services only; nil categoryID means all categories
	ListActiveServices(ctx context.Context, categoryID *int64) ([]models.Service, error)

	UpdateService(ctx context.Context, id int64, arg UpdateServiceParams) (models.Service, error)
}

type CreateOrderParams struct {
	UserID           int64
	ServiceID        int64
	Quantity         int
	TotalPrice       decimal.Decimal
	TargetURL        string
	DripFeedEnabled  bool
	DripFeedRuns     *int
	DripFeedInterval *int
}

// UpdateOrderParams applies only non-nil fields
type UpdateOrderParams struct {
	Status     *string
	StartCount *int
	Remains    *int
}

type OrderRepo interface {
	CreateOrder(ctx context.Context, arg CreateOrderParams) (models.Order, error)

	GetOrderByID(ctx context.Context, id int64) (models.Order, error)

	// nil userID means all orders, any non-nil id filters (no numeric sentinel)
	ListOrders(ctx context.Context, userID *int64) ([]models.Order, error)

	UpdateOrder(ctx context.Context, id int64, arg UpdateOrderParams) (models.Order, error)
}

type CreateTransactionParams struct {
	UserID         int64
	Type           string
	Amount         decimal.Decimal
	Description    string
	CryptoCurrency *string
	CryptoAddress  *string
	CryptoTxHash   *string
}

type TransactionRepo interface {
	// If user does not exist must return apperrors.ErrUserNotFound
	CreateTransaction(ctx context.Context, arg CreateTransactionParams) (models.Transaction, error)

	GetTransactionByID(ctx context.Context, id int64) (models.Transaction, error)

	// nil userID means all transactions
	ListTransactions(ctx context.Context, userID *int64) ([]models.Transaction, error)

	// Move a pending transaction to a terminal status
	// If the transaction is not pending anymore must return apperrors.ErrTransactionProcessed
	SettleTransaction(ctx context.Context, id int64, status string) (models.Transaction, error)
}
