package ledger

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/smmpanel/smmpanel/internal/models"
)

// Verifier confirms a deposit against an external source before settlement.
// Production wires a real chain client here; the deposit flow doesn't care.
type Verifier interface {
	VerifyDeposit(ctx context.Context, transaction models.Transaction) error
}

// Transaction hashes look like a hex digest: 64-66 hex chars, optional 0x prefix
var txHashPattern = regexp.MustCompile(`^(0x)?[a-fA-F0-9]{64,66}$`)

// HashShapeVerifier accepts any deposit whose crypto fields are present and
// whose tx hash has a plausible digest shape. It never talks to a chain.
type HashShapeVerifier struct{}

func (HashShapeVerifier) VerifyDeposit(_ context.Context, transaction models.Transaction) error {
	if transaction.CryptoCurrency == nil || transaction.CryptoAddress == nil || transaction.CryptoTxHash == nil {
		return errors.New("deposit is missing crypto fields")
	}

	if !txHashPattern.MatchString(*transaction.CryptoTxHash) {
		return fmt.Errorf("tx hash %q does not look like a transaction hash", *transaction.CryptoTxHash)
	}

	return nil
}
