package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit = "deposit"
	TransactionTypeOrder   = "order"
	TransactionTypeRefund  = "refund"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	UserID      int64
	Type        string
	Amount      decimal.Decimal
	Description string

	// Crypto fields are required for deposit settlement, nil otherwise
	CryptoCurrency *string
	CryptoAddress  *string
	CryptoTxHash   *string

	Status string
}
