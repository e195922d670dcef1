package middleware

import (
	"context"
	"net/http"

	"github.com/smmpanel/smmpanel/internal/handlers/render"
	"github.com/smmpanel/smmpanel/internal/handlers/userctx"
	"github.com/smmpanel/smmpanel/internal/models"
)

// Header the panel clients send their key in
const APIKeyHeader = "X-Api-Key"

type userService interface {
	GetUserByAPIKey(ctx context.Context, key string) (models.User, error)
}

// APIKeyAuth resolves the acting user from the api key header and puts it
// into the request context. There is no ambient "current user" anywhere else.
func APIKeyAuth(us userService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := us.GetUserByAPIKey(r.Context(), key)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
