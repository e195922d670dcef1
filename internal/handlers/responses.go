package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/smmpanel/smmpanel/internal/models"
)

// Monetary fields serialize with the stored scale: 2 decimal places for
// money, 6 for per-unit pricing. Never through float64.

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	Role      string    `json:"role"`
	APIKey    *string   `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// The credential hash never leaves the server
func newUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Balance:   u.Balance.StringFixed(2),
		Role:      u.Role,
		APIKey:    u.APIKey,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

type ServiceResponse struct {
	ID               int64     `json:"id"`
	CategoryID       int64     `json:"category_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	PricePerUnit     string    `json:"price_per_unit"`
	MinQuantity      int       `json:"min_quantity"`
	MaxQuantity      int       `json:"max_quantity"`
	AvgDeliveryHours int       `json:"avg_delivery_hours"`
	SupportsDripFeed bool      `json:"supports_drip_feed"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newServiceResponse(s models.Service) ServiceResponse {
	return ServiceResponse{
		ID:               s.ID,
		CategoryID:       s.CategoryID,
		Name:             s.Name,
		Description:      s.Description,
		PricePerUnit:     s.PricePerUnit.StringFixed(6),
		MinQuantity:      s.MinQuantity,
		MaxQuantity:      s.MaxQuantity,
		AvgDeliveryHours: s.AvgDeliveryHours,
		SupportsDripFeed: s.SupportsDripFeed,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

type OrderResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	ServiceID        int64     `json:"service_id"`
	Quantity         int       `json:"quantity"`
	TotalPrice       string    `json:"total_price"`
	TargetURL        string    `json:"target_url"`
	DripFeedEnabled  bool      `json:"drip_feed_enabled"`
	DripFeedRuns     *int      `json:"drip_feed_runs"`
	DripFeedInterval *int      `json:"drip_feed_interval"`
	Status           string    `json:"status"`
	StartCount       *int      `json:"start_count"`
	Remains          *int      `json:"remains"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newOrderResponse(o models.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		UserID:           o.UserID,
		ServiceID:        o.ServiceID,
		Quantity:         o.Quantity,
		TotalPrice:       o.TotalPrice.StringFixed(2),
		TargetURL:        o.TargetURL,
		DripFeedEnabled:  o.DripFeedEnabled,
		DripFeedRuns:     o.DripFeedRuns,
		DripFeedInterval: o.DripFeedInterval,
		Status:           o.Status,
		StartCount:       o.StartCount,
		Remains:          o.Remains,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

type TransactionResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Type           string    `json:"type"`
	Amount         string    `json:"amount"`
	Description    string    `json:"description"`
	CryptoCurrency *string   `json:"crypto_currency"`
	CryptoAddress  *string   `json:"crypto_address"`
	CryptoTxHash   *string   `json:"crypto_tx_hash"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func newTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		UserID:         t.UserID,
		Type:           t.Type,
		Amount:         t.Amount.StringFixed(2),
		Description:    t.Description,
		CryptoCurrency: t.CryptoCurrency,
		CryptoAddress:  t.CryptoAddress,
		CryptoTxHash:   t.CryptoTxHash,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
	}
}

// pathID parses the {id} path segment
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// optionalUserID parses the user_id query parameter
// Absent means "no filter"; there is no sentinel value
func optionalUserID(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}

	return &id, nil
}
