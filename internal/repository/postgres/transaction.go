package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

type TransactionRepo struct {
	DB DBTX
}

const transactionColumns = `id, created_at, user_id, type, amount, description,
	crypto_currency, crypto_address, crypto_tx_hash, status`

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (user_id, type, amount, description, crypto_currency, crypto_address, crypto_tx_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, user_id, type, amount, description,
	crypto_currency, crypto_address, crypto_tx_hash, status
`

func (r *TransactionRepo) CreateTransaction(ctx context.Context, arg repository.CreateTransactionParams) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, createTransaction,
		arg.UserID, arg.Type, arg.Amount, arg.Description,
		arg.CryptoCurrency, arg.CryptoAddress, arg.CryptoTxHash,
	)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return transaction, apperrors.ErrUserNotFound
		}

		return transaction, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

func (r *TransactionRepo) GetTransactionByID(ctx context.Context, id int64) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return transaction, nil
	case errors.Is(err, pgx.ErrNoRows):
		return transaction, apperrors.ErrTransactionNotFound
	default:
		return transaction, fmt.Errorf("db error: %w", err)
	}
}

const listTransactions = `-- name: ListTransactions
SELECT id, created_at, user_id, type, amount, description,
	crypto_currency, crypto_address, crypto_tx_hash, status
FROM transactions
WHERE $1::bigint IS NULL OR user_id = $1
ORDER BY created_at DESC, id DESC
`

func (r *TransactionRepo) ListTransactions(ctx context.Context, userID *int64) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listTransactions, userID)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

// Status moves forward only: the pending guard means a transaction settled
// concurrently (or earlier) can't be settled again
const settleTransaction = `-- name: SettleTransaction
UPDATE transactions
SET status = $2
WHERE id = $1 AND status = 'pending'
RETURNING id, created_at, user_id, type, amount, description,
	crypto_currency, crypto_address, crypto_tx_hash, status
`

func (r *TransactionRepo) SettleTransaction(ctx context.Context, id int64, status string) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, settleTransaction, id, status)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return transaction, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either the transaction doesn't exist or it left pending already
		_, getErr := r.GetTransactionByID(ctx, id)
		if getErr != nil {
			return transaction, getErr
		}
		return transaction, apperrors.ErrTransactionProcessed
	default:
		return transaction, fmt.Errorf("db error: %w", err)
	}
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.UserID, &t.Type, &t.Amount, &t.Description,
		&t.CryptoCurrency, &t.CryptoAddress, &t.CryptoTxHash, &t.Status,
	)
	return t, err
}
