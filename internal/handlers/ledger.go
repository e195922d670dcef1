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

func handleCreateTransaction(ledgerService ledgerService, l logger.Logger) http.Handler {
	type request struct {
		UserID         int64           `json:"user_id" validate:"required"`
		Type           string          `json:"type" validate:"required,oneof=deposit order refund"`
		Amount         decimal.Decimal `json:"amount"`
		Description    string          `json:"description" validate:"required"`
		CryptoCurrency *string         `json:"crypto_currency"`
		CryptoAddress  *string         `json:"crypto_address"`
		CryptoTxHash   *string         `json:"crypto_tx_hash"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		transaction, err := ledgerService.CreateTransaction(r.Context(), repository.CreateTransactionParams{
			UserID:         data.UserID,
			Type:           data.Type,
			Amount:         data.Amount,
			Description:    data.Description,
			CryptoCurrency: data.CryptoCurrency,
			CryptoAddress:  data.CryptoAddress,
			CryptoTxHash:   data.CryptoTxHash,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, newTransactionResponse(transaction), http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAmountNotPositive):
			render.ServiceError(w, "Amount must be positive", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to create transaction", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListTransactions(ledgerService ledgerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := optionalUserID(r)
		if err != nil {
			render.ServiceError(w, "Invalid user_id filter", http.StatusBadRequest)
			return
		}

		transactions, err := ledgerService.ListTransactions(r.Context(), userID)
		if err != nil {
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]TransactionResponse, 0, len(transactions))
		for _, t := range transactions {
			response = append(response, newTransactionResponse(t))
		}
		render.JSON(w, response)
	})
}

func handleProcessDeposit(ledgerService ledgerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Invalid transaction id", http.StatusBadRequest)
			return
		}

		transaction, err := ledgerService.ProcessDeposit(r.Context(), id)

		switch {
		case err == nil:
			render.JSON(w, newTransactionResponse(transaction))
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			render.ServiceError(w, "Transaction not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrTransactionNotDeposit):
			render.ServiceError(w, "Transaction is not a deposit", http.StatusConflict)
		case errors.Is(err, apperrors.ErrTransactionProcessed):
			render.ServiceError(w, "Transaction already processed", http.StatusConflict)
		case errors.Is(err, apperrors.ErrVerificationFailed):
			render.ServiceError(w, "Deposit verification failed", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to process deposit", "error", err, "transaction_id", id)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
