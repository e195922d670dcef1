package order

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

// Money scale of the orders.total_price column
const moneyScale = 2

type OrderService struct {
	// Repository to access long term data
	storage repository.Storage
}

func NewService(storage repository.Storage) *OrderService {
	return &OrderService{storage: storage}
}

type PlaceOrderArgs struct {
	ServiceID        int64
	Quantity         int
	TargetURL        string
	DripFeedEnabled  bool
	DripFeedRuns     *int
	DripFeedInterval *int
}

// PlaceOrder validates the purchase and commits it as one unit:
// the order row and the balance debit either both persist or neither does.
//
// Checks run in a fixed sequence and the first violated one wins:
// user exists, service exists, service active, quantity within [min, max],
// balance covers the total, drip feed allowed and complete.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, arg PlaceOrderArgs) (models.Order, error) {
	var order models.Order

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		user, err := storage.User().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		service, err := storage.Service().GetServiceByID(ctx, arg.ServiceID)
		if err != nil {
			return err
		}

		if !service.IsActive {
			return apperrors.ErrServiceInactive
		}

		if arg.Quantity < service.MinQuantity {
			return fmt.Errorf("%w: minimum is %d", apperrors.ErrQuantityBelowMin, service.MinQuantity)
		}
		if arg.Quantity > service.MaxQuantity {
			return fmt.Errorf("%w: maximum is %d", apperrors.ErrQuantityAboveMax, service.MaxQuantity)
		}

		// Frozen at creation, never recomputed
		totalPrice := service.PricePerUnit.
			Mul(decimal.NewFromInt(int64(arg.Quantity))).
			Round(moneyScale)

		if user.Balance.LessThan(totalPrice) {
			return apperrors.ErrBalanceInsufficient
		}

		if arg.DripFeedEnabled {
			if !service.SupportsDripFeed {
				return apperrors.ErrDripFeedUnsupported
			}
			if !positive(arg.DripFeedRuns) || !positive(arg.DripFeedInterval) {
				return apperrors.ErrDripFeedParamsRequired
			}
		}

		order, err = storage.Order().CreateOrder(ctx, repository.CreateOrderParams{
			UserID:           userID,
			ServiceID:        arg.ServiceID,
			Quantity:         arg.Quantity,
			TotalPrice:       totalPrice,
			TargetURL:        arg.TargetURL,
			DripFeedEnabled:  arg.DripFeedEnabled,
			DripFeedRuns:     arg.DripFeedRuns,
			DripFeedInterval: arg.DripFeedInterval,
		})
		if err != nil {
			return err
		}

		// The debit serializes concurrent orders on the user row; the guard in
		// AdjustBalance covers the race the balance check above can't
		_, err = storage.User().AdjustBalance(ctx, userID, totalPrice.Neg())
		return err
	})

	return order, err
}

// ListOrders returns all orders when userID is nil
func (s *OrderService) ListOrders(ctx context.Context, userID *int64) ([]models.Order, error) {
	return s.storage.Order().ListOrders(ctx, userID)
}

// UpdateOrder applies the provided fields only
// The external fulfillment system is authoritative for status values
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, arg repository.UpdateOrderParams) (models.Order, error) {
	return s.storage.Order().UpdateOrder(ctx, id, arg)
}

func positive(n *int) bool {
	return n != nil && *n > 0
}
