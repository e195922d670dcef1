package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/handlers/render"
	"github.com/smmpanel/smmpanel/internal/logger"
	"github.com/smmpanel/smmpanel/internal/repository"
)

func handleCreateCategory(catalogService catalogService, l logger.Logger) http.Handler {
	type request struct {
		Name        string  `json:"name" validate:"required,min=1,max=100"`
		Description *string `json:"description"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		category, err := catalogService.CreateCategory(r.Context(), data.Name, data.Description)

		switch {
		case err == nil:
			render.JSONWithStatus(w, newCategoryResponse(category), http.StatusCreated)
		case errors.Is(err, apperrors.ErrCategoryAlreadyExists):
			render.ServiceError(w, "Category name already taken", http.StatusConflict)
		default:
			l.Error("Failed to create category", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListCategories(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := catalogService.ListCategories(r.Context())
		if err != nil {
			l.Error("Failed to list categories", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]CategoryResponse, 0, len(categories))
		for _, c := range categories {
			response = append(response, newCategoryResponse(c))
		}
		render.JSON(w, response)
	})
}

func handleCreateService(catalogService catalogService, l logger.Logger) http.Handler {
	type request struct {
		CategoryID       int64           `json:"category_id" validate:"required"`
		Name             string          `json:"name" validate:"required,min=1,max=200"`
		Description      string          `json:"description" validate:"required"`
		PricePerUnit     decimal.Decimal `json:"price_per_unit"`
		MinQuantity      int             `json:"min_quantity" validate:"required,gt=0"`
		MaxQuantity      int             `json:"max_quantity" validate:"required,gtefield=MinQuantity"`
		AvgDeliveryHours int             `json:"avg_delivery_hours" validate:"required,gt=0"`
		SupportsDripFeed bool            `json:"supports_drip_feed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		service, err := catalogService.CreateService(r.Context(), repository.CreateServiceParams{
			CategoryID:       data.CategoryID,
			Name:             data.Name,
			Description:      data.Description,
			PricePerUnit:     data.PricePerUnit,
			MinQuantity:      data.MinQuantity,
			MaxQuantity:      data.MaxQuantity,
			AvgDeliveryHours: data.AvgDeliveryHours,
			SupportsDripFeed: data.SupportsDripFeed,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, newServiceResponse(service), http.StatusCreated)
		case errors.Is(err, apperrors.ErrCategoryNotFound):
			render.ServiceError(w, "Category not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAmountNotPositive):
			render.ServiceError(w, "Price per unit must be positive", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to create service", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListServices(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		services, err := catalogService.ListServices(r.Context(), nil)
		if err != nil {
			l.Error("Failed to list services", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]ServiceResponse, 0, len(services))
		for _, s := range services {
			response = append(response, newServiceResponse(s))
		}
		render.JSON(w, response)
	})
}

func handleListServicesByCategory(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
			return
		}

		services, err := catalogService.ListServices(r.Context(), &categoryID)
		if err != nil {
			l.Error("Failed to list services", "error", err, "category_id", categoryID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]ServiceResponse, 0, len(services))
		for _, s := range services {
			response = append(response, newServiceResponse(s))
		}
		render.JSON(w, response)
	})
}

func handleUpdateService(catalogService catalogService, l logger.Logger) http.Handler {
	type request struct {
		Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
		Description      *string          `json:"description"`
		PricePerUnit     *decimal.Decimal `json:"price_per_unit"`
		MinQuantity      *int             `json:"min_quantity" validate:"omitempty,gt=0"`
		MaxQuantity      *int             `json:"max_quantity" validate:"omitempty,gt=0"`
		AvgDeliveryHours *int             `json:"avg_delivery_hours" validate:"omitempty,gt=0"`
		SupportsDripFeed *bool            `json:"supports_drip_feed"`
		IsActive         *bool            `json:"is_active"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Invalid service id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		service, err := catalogService.UpdateService(r.Context(), id, repository.UpdateServiceParams{
			Name:             data.Name,
			Description:      data.Description,
			PricePerUnit:     data.PricePerUnit,
			MinQuantity:      data.MinQuantity,
			MaxQuantity:      data.MaxQuantity,
			AvgDeliveryHours: data.AvgDeliveryHours,
			SupportsDripFeed: data.SupportsDripFeed,
			IsActive:         data.IsActive,
		})

		switch {
		case err == nil:
			render.JSON(w, newServiceResponse(service))
		case errors.Is(err, apperrors.ErrServiceNotFound):
			render.ServiceError(w, "Service not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAmountNotPositive):
			render.ServiceError(w, "Price per unit must be positive", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to update service", "error", err, "service_id", id)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
