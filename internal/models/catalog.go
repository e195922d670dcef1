package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64
	CreatedAt   time.Time
	Name        string
	Description *string
}

// Service is a catalog entry customers can order.
// Inactive services stay in the catalog for historical orders only.
type Service struct {
	ID               int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CategoryID       int64
	Name             string
	Description      string
	PricePerUnit     decimal.Decimal
	MinQuantity      int
	MaxQuantity      int
	AvgDeliveryHours int
	SupportsDripFeed bool
	IsActive         bool
}
