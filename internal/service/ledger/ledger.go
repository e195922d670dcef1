package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

type LedgerService struct {
	verifier Verifier

	// Repository to access long term data
	storage repository.Storage
}

func NewService(verifier Verifier, storage repository.Storage) *LedgerService {
	if verifier == nil {
		verifier = HashShapeVerifier{}
	}

	return &LedgerService{
		verifier: verifier,
		storage:  storage,
	}
}

// CreateTransaction records a pending transaction
// Balance is only touched at settlement, never here
func (s *LedgerService) CreateTransaction(ctx context.Context, arg repository.CreateTransactionParams) (models.Transaction, error) {
	if !arg.Amount.IsPositive() {
		return models.Transaction{}, apperrors.ErrAmountNotPositive
	}

	return s.storage.Transaction().CreateTransaction(ctx, arg)
}

// ListTransactions returns all transactions when userID is nil
func (s *LedgerService) ListTransactions(ctx context.Context, userID *int64) ([]models.Transaction, error) {
	return s.storage.Transaction().ListTransactions(ctx, userID)
}

// ProcessDeposit settles a pending deposit.
//
// On verifier rejection the transaction flips to 'failed' (terminal) and the
// balance stays untouched. On success the status flip and the balance credit
// commit as one unit, and the pending guard in SettleTransaction makes sure
// no deposit is ever credited twice.
func (s *LedgerService) ProcessDeposit(ctx context.Context, transactionID int64) (models.Transaction, error) {
	transaction, err := s.storage.Transaction().GetTransactionByID(ctx, transactionID)
	if err != nil {
		return transaction, err
	}

	if transaction.Type != models.TransactionTypeDeposit {
		return transaction, apperrors.ErrTransactionNotDeposit
	}
	if transaction.Status == models.TransactionStatusCompleted {
		return transaction, apperrors.ErrTransactionProcessed
	}

	if verr := s.verifier.VerifyDeposit(ctx, transaction); verr != nil {
		failed, err := s.storage.Transaction().SettleTransaction(ctx, transactionID, models.TransactionStatusFailed)
		switch {
		case err == nil:
			transaction = failed
		case errors.Is(err, apperrors.ErrTransactionProcessed):
			// Already terminal, nothing left to write
		default:
			return transaction, err
		}

		return transaction, fmt.Errorf("%w: %s", apperrors.ErrVerificationFailed, verr)
	}

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		settled, err := storage.Transaction().SettleTransaction(ctx, transactionID, models.TransactionStatusCompleted)
		if err != nil {
			return err
		}
		transaction = settled

		_, err = storage.User().AdjustBalance(ctx, settled.UserID, settled.Amount)
		return err
	})

	return transaction, err
}
