package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrCategoryNotFound      = errors.New("category not found")

	ErrServiceNotFound = errors.New("service not found")
	ErrServiceInactive = errors.New("service is not active")

	ErrOrderNotFound          = errors.New("order not found")
	ErrQuantityBelowMin       = errors.New("quantity is below service minimum")
	ErrQuantityAboveMax       = errors.New("quantity is above service maximum")
	ErrDripFeedUnsupported    = errors.New("service does not support drip feed")
	ErrDripFeedParamsRequired = errors.New("drip feed runs and interval are required when drip feed is enabled")

	ErrBalanceInsufficient = errors.New("insufficient balance")
	ErrAmountNotPositive   = errors.New("amount must be positive")

	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotDeposit = errors.New("transaction is not a deposit")
	ErrTransactionProcessed  = errors.New("transaction already processed")
	ErrVerificationFailed    = errors.New("deposit verification failed")
)
