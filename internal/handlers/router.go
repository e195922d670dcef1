package handlers

import (
	"context"
	"net/http"

	"github.com/smmpanel/smmpanel/internal/handlers/middleware"
	"github.com/smmpanel/smmpanel/internal/logger"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
	"github.com/smmpanel/smmpanel/internal/service/order"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	userService userService,
	catalogService catalogService,
	orderService orderService,
	ledgerService ledgerService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.APIKeyAuth(userService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	api := http.NewServeMux()

	api.Handle("POST /users", handleCreateUser(userService, logger))
	api.Handle("POST /login", handleLogin(userService, logger))
	api.Handle("GET /users", handleListUsers(userService, logger))
	api.Handle("PATCH /users/{id}", handleUpdateUser(userService, logger))
	api.Handle("POST /users/{id}/apikey", handleGenerateAPIKey(userService, logger))

	api.Handle("POST /categories", handleCreateCategory(catalogService, logger))
	api.Handle("GET /categories", handleListCategories(catalogService, logger))
	api.Handle("GET /categories/{id}/services", handleListServicesByCategory(catalogService, logger))
	api.Handle("POST /services", handleCreateService(catalogService, logger))
	api.Handle("GET /services", handleListServices(catalogService, logger))
	api.Handle("PATCH /services/{id}", handleUpdateService(catalogService, logger))

	api.Handle("POST /orders", withAuth(handleCreateOrder(orderService, logger)))
	api.Handle("GET /orders", handleListOrders(orderService, logger))
	api.Handle("PATCH /orders/{id}", handleUpdateOrder(orderService, logger))

	api.Handle("POST /transactions", handleCreateTransaction(ledgerService, logger))
	api.Handle("GET /transactions", handleListTransactions(ledgerService, logger))
	api.Handle("POST /transactions/{id}/process", handleProcessDeposit(ledgerService, logger))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type userService interface {
	// Register user with username, email and password
	// Has to return apperrors.ErrUserAlreadyExists if username or email is taken
	CreateUser(ctx context.Context, username string, email string, password string, role string) (models.User, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound on wrong email or password
	Login(ctx context.Context, email string, password string) (models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, arg repository.UpdateUserParams) (models.User, error)

	// GenerateAPIKey mints a fresh key and overwrites any previous one
	GenerateAPIKey(ctx context.Context, id int64) (string, error)
	GetUserByAPIKey(ctx context.Context, key string) (models.User, error)
}

type catalogService interface {
	CreateCategory(ctx context.Context, name string, description *string) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateService(ctx context.Context, arg repository.CreateServiceParams) (models.Service, error)

	// ListServices returns active services only; nil categoryID means all of them
	ListServices(ctx context.Context, categoryID *int64) ([]models.Service, error)
	UpdateService(ctx context.Context, id int64, arg repository.UpdateServiceParams) (models.Service, error)
}

type orderService interface {
	// PlaceOrder debits the balance and creates the order atomically
	PlaceOrder(ctx context.Context, userID int64, arg order.PlaceOrderArgs) (models.Order, error)

	ListOrders(ctx context.Context, userID *int64) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id int64, arg repository.UpdateOrderParams) (models.Order, error)
}

type ledgerService interface {
	CreateTransaction(ctx context.Context, arg repository.CreateTransactionParams) (models.Transaction, error)
	ListTransactions(ctx context.Context, userID *int64) ([]models.Transaction, error)

	// ProcessDeposit verifies and settles a pending deposit
	// Has to return apperrors.ErrVerificationFailed when the deposit is rejected
	ProcessDeposit(ctx context.Context, transactionID int64) (models.Transaction, error)
}
