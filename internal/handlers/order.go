package handlers

import (
	"errors"
	"net/http"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/handlers/render"
	"github.com/smmpanel/smmpanel/internal/handlers/userctx"
	"github.com/smmpanel/smmpanel/internal/logger"
	"github.com/smmpanel/smmpanel/internal/repository"
	"github.com/smmpanel/smmpanel/internal/service/order"
)

func handleCreateOrder(orderService orderService, l logger.Logger) http.Handler {
	type request struct {
		ServiceID        int64  `json:"service_id" validate:"required"`
		Quantity         int    `json:"quantity" validate:"required,gt=0"`
		TargetURL        string `json:"target_url" validate:"required,url"`
		DripFeedEnabled  bool   `json:"drip_feed_enabled"`
		DripFeedRuns     *int   `json:"drip_feed_runs" validate:"omitempty,gt=0"`
		DripFeedInterval *int   `json:"drip_feed_interval" validate:"omitempty,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		placed, err := orderService.PlaceOrder(r.Context(), user.ID, order.PlaceOrderArgs{
			ServiceID:        data.ServiceID,
			Quantity:         data.Quantity,
			TargetURL:        data.TargetURL,
			DripFeedEnabled:  data.DripFeedEnabled,
			DripFeedRuns:     data.DripFeedRuns,
			DripFeedInterval: data.DripFeedInterval,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, newOrderResponse(placed), http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrServiceNotFound):
			render.ServiceError(w, "Service not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrServiceInactive):
			render.ServiceError(w, "Service is not active", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrQuantityBelowMin), errors.Is(err, apperrors.ErrQuantityAboveMax):
			render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.ServiceError(w, "Insufficient balance", http.StatusPaymentRequired)
		case errors.Is(err, apperrors.ErrDripFeedUnsupported):
			render.ServiceError(w, "Service does not support drip feed", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrDripFeedParamsRequired):
			render.ServiceError(w, "Drip feed runs and interval are required", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to place order", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListOrders(orderService orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := optionalUserID(r)
		if err != nil {
			render.ServiceError(w, "Invalid user_id filter", http.StatusBadRequest)
			return
		}

		orders, err := orderService.ListOrders(r.Context(), userID)
		if err != nil {
			l.Error("Failed to list orders", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			response = append(response, newOrderResponse(o))
		}
		render.JSON(w, response)
	})
}

func handleUpdateOrder(orderService orderService, l logger.Logger) http.Handler {
	type request struct {
		Status     *string `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled partial"`
		StartCount *int    `json:"start_count"`
		Remains    *int    `json:"remains"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Invalid order id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		updated, err := orderService.UpdateOrder(r.Context(), id, repository.UpdateOrderParams{
			Status:     data.Status,
			StartCount: data.StartCount,
			Remains:    data.Remains,
		})

		switch {
		case err == nil:
			render.JSON(w, newOrderResponse(updated))
		case errors.Is(err, apperrors.ErrOrderNotFound):
			render.ServiceError(w, "Order not found", http.StatusNotFound)
		default:
			l.Error("Failed to update order", "error", err, "order_id", id)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
