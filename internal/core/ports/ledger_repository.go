package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// LedgerRepository is the balance store (LedgerAccess). All calls run inside
// the caller's transaction so a rollback undoes them.
type LedgerRepository interface {
	// Debit atomically decreases the balance of userID by amount when the
	// balance covers it. Returns InsufficientFundsError when it does not and
	// ObjectNotFoundError when the account does not exist.
	Debit(ctx context.Context, userID kernel.UUID, amount kernel.Money) error

	// Credit increases the balance of userID by amount, opening the account
	// if needed.
	Credit(ctx context.Context, userID kernel.UUID, amount kernel.Money) error

	// Balance returns the current balance. Returns ObjectNotFoundError when the
	// account does not exist.
	Balance(ctx context.Context, userID kernel.UUID) (decimal.Decimal, error)
}
