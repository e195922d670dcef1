package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusPartial    = "partial"
)

// OrderStatuses lists every status the external fulfillment system may report
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusPartial,
}

type Order struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    int64
	ServiceID int64
	Quantity  int

	// TotalPrice is computed at placement and never recomputed
	TotalPrice decimal.Decimal
	TargetURL  string

	DripFeedEnabled  bool
	DripFeedRuns     *int
	DripFeedInterval *int

	Status     string
	StartCount *int
	Remains    *int
}
