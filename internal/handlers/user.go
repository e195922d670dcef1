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

func handleCreateUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.CreateUser(r.Context(), data.Username, data.Email, data.Password, data.Role)

		switch {
		case err == nil:
			render.JSONWithStatus(w, newUserResponse(user), http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Username or email already taken", http.StatusConflict)
		default:
			l.Error("Failed to create user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.Login(r.Context(), data.Email, data.Password)

		switch {
		case err == nil:
			render.JSON(w, newUserResponse(user))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListUsers(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := userService.ListUsers(r.Context())
		if err != nil {
			l.Error("Failed to list users", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]UserResponse, 0, len(users))
		for _, u := range users {
			response = append(response, newUserResponse(u))
		}
		render.JSON(w, response)
	})
}

func handleUpdateUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Username *string          `json:"username" validate:"omitempty,min=3,max=50"`
		Email    *string          `json:"email" validate:"omitempty,email"`
		Balance  *decimal.Decimal `json:"balance"`
		Role     *string          `json:"role" validate:"omitempty,oneof=user admin"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.UpdateUser(r.Context(), id, repository.UpdateUserParams{
			Username: data.Username,
			Email:    data.Email,
			Balance:  data.Balance,
			Role:     data.Role,
		})

		switch {
		case err == nil:
			render.JSON(w, newUserResponse(user))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Username or email already taken", http.StatusConflict)
		case errors.Is(err, apperrors.ErrAmountNotPositive):
			render.ServiceError(w, "Balance must not be negative", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to update user", "error", err, "user_id", id)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGenerateAPIKey(userService userService, l logger.Logger) http.Handler {
	type response struct {
		APIKey string `json:"api_key"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		key, err := userService.GenerateAPIKey(r.Context(), id)

		switch {
		case err == nil:
			render.JSON(w, response{APIKey: key})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to generate api key", "error", err, "user_id", id)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
