package ledger

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
	"github.com/smmpanel/smmpanel/internal/repository/postgres"
	"github.com/smmpanel/smmpanel/internal/testutil"
)

const validTxHash = "a3f5b8c2d4e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2"

func TestLedgerService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper function to create LedgerService within transaction
	withTx := func(t *testing.T, fn func(s *LedgerService, storage repository.Storage, user models.User)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			ledgerService := NewService(HashShapeVerifier{}, storage)

			user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
				Username:       "test-user",
				Email:          "test-user@example.com",
				HashedPassword: "hashedpassword",
				Role:           "user",
			})
			require.NoError(t, err, "creating user should not fail")

			fn(ledgerService, storage, user)
		})
	}

	deposit := func(userID int64, amount string, txHash string) repository.CreateTransactionParams {
		currency := "USDT"
		address := "TDepositAddress123"

		return repository.CreateTransactionParams{
			UserID:         userID,
			Type:           models.TransactionTypeDeposit,
			Amount:         decimal.RequireFromString(amount),
			Description:    "Account top up",
			CryptoCurrency: &currency,
			CryptoAddress:  &address,
			CryptoTxHash:   &txHash,
		}
	}

	t.Run("CreateTransaction", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			withTx(t, func(s *LedgerService, _ repository.Storage, user models.User) {
				transaction, err := s.CreateTransaction(t.Context(), deposit(user.ID, "50.00", validTxHash))

				require.NoError(t, err)
				require.Equal(t, models.TransactionStatusPending, transaction.Status)
				require.Equal(t, "50.00", transaction.Amount.StringFixed(2))
			})
		})

		t.Run("amount must be positive", func(t *testing.T) {
			withTx(t, func(s *LedgerService, _ repository.Storage, user models.User) {
				_, err := s.CreateTransaction(t.Context(), deposit(user.ID, "0.00", validTxHash))
				require.ErrorIs(t, err, apperrors.ErrAmountNotPositive)

				_, err = s.CreateTransaction(t.Context(), deposit(user.ID, "-5.00", validTxHash))
				require.ErrorIs(t, err, apperrors.ErrAmountNotPositive)
			})
		})

		t.Run("unknown user", func(t *testing.T) {
			withTx(t, func(s *LedgerService, _ repository.Storage, _ models.User) {
				_, err := s.CreateTransaction(t.Context(), deposit(404404, "50.00", validTxHash))

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("ProcessDeposit", func(t *testing.T) {
		t.Run("settle and credit balance", func(t *testing.T) {
			withTx(t, func(s *LedgerService, storage repository.Storage, user models.User) {
				first, err := s.CreateTransaction(t.Context(), deposit(user.ID, "50.00", validTxHash))
				require.NoError(t, err)
				second, err := s.CreateTransaction(t.Context(), deposit(user.ID, "100.50", validTxHash))
				require.NoError(t, err)

				got, err := s.ProcessDeposit(t.Context(), first.ID)
				require.NoError(t, err)
				require.Equal(t, models.TransactionStatusCompleted, got.Status)

				got, err = s.ProcessDeposit(t.Context(), second.ID)
				require.NoError(t, err)
				require.Equal(t, models.TransactionStatusCompleted, got.Status)

				balanceOwner, err := storage.User().GetUserByID(t.Context(), user.ID)
				require.NoError(t, err)
				require.Equal(t, "150.50", balanceOwner.Balance.StringFixed(2), "both deposits should be credited")
			})
		})

		t.Run("already completed", func(t *testing.T) {
			withTx(t, func(s *LedgerService, storage repository.Storage, user models.User) {
				transaction, err := s.CreateTransaction(t.Context(), deposit(user.ID, "50.00", validTxHash))
				require.NoError(t, err)

				_, err = s.ProcessDeposit(t.Context(), transaction.ID)
				require.NoError(t, err)

				_, err = s.ProcessDeposit(t.Context(), transaction.ID)

				require.ErrorIs(t, err, apperrors.ErrTransactionProcessed, "processing twice should fail")

				got, err := storage.User().GetUserByID(t.Context(), user.ID)
				require.NoError(t, err)
				require.Equal(t, "50.00", got.Balance.StringFixed(2), "deposit should be credited exactly once")
			})
		})

		t.Run("verification failure marks failed and keeps balance", func(t *testing.T) {
			withTx(t, func(s *LedgerService, storage repository.Storage, user models.User) {
				transaction, err := s.CreateTransaction(t.Context(), deposit(user.ID, "50.00", "invalid_hash"))
				require.NoError(t, err)

				got, err := s.ProcessDeposit(t.Context(), transaction.ID)

				require.ErrorIs(t, err, apperrors.ErrVerificationFailed)
				require.Equal(t, models.TransactionStatusFailed, got.Status)

				owner, err := storage.User().GetUserByID(t.Context(), user.ID)
				require.NoError(t, err)
				require.True(t, owner.Balance.IsZero(), "failed deposit should not touch the balance")
			})
		})

		t.Run("not a deposit", func(t *testing.T) {
			withTx(t, func(s *LedgerService, _ repository.Storage, user models.User) {
				arg := deposit(user.ID, "50.00", validTxHash)
				arg.Type = models.TransactionTypeRefund

				transaction, err := s.CreateTransaction(t.Context(), arg)
				require.NoError(t, err)

				_, err = s.ProcessDeposit(t.Context(), transaction.ID)

				require.ErrorIs(t, err, apperrors.ErrTransactionNotDeposit)
			})
		})

		t.Run("not found", func(t *testing.T) {
			withTx(t, func(s *LedgerService, _ repository.Storage, _ models.User) {
				_, err := s.ProcessDeposit(t.Context(), 404404)

				require.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
			})
		})
	})

	t.Run("ListTransactions", func(t *testing.T) {
		withTx(t, func(s *LedgerService, storage repository.Storage, user models.User) {
			_, err := s.CreateTransaction(t.Context(), deposit(user.ID, "50.00", validTxHash))
			require.NoError(t, err)
			_, err = s.CreateTransaction(t.Context(), deposit(user.ID, "25.00", validTxHash))
			require.NoError(t, err)

			all, err := s.ListTransactions(t.Context(), nil)
			require.NoError(t, err)
			require.Len(t, all, 2)

			mine, err := s.ListTransactions(t.Context(), &user.ID)
			require.NoError(t, err)
			require.Len(t, mine, 2)

			nobody := int64(404404)
			none, err := s.ListTransactions(t.Context(), &nobody)
			require.NoError(t, err)
			require.Empty(t, none)
		})
	})
}
