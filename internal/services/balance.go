package services

import (
	"context"

	"budget/internal/core"
	"budget/internal/storage"
)

// BalanceMaintainer is the only writer of account balances. Both directions
// go through the store's atomic increment so concurrent writers on the same
// account never lose an update.
type BalanceMaintainer struct{}

// Apply adds amount to the account balance inside tx. A missing account
// fails with core.ErrAccountNotFound.
func (BalanceMaintainer) Apply(ctx context.Context, tx storage.Tx, accountID string, amount core.Money) error {
	return tx.IncrementBalance(ctx, accountID, amount)
}

// Reverse undoes a prior Apply of amount.
func (b BalanceMaintainer) Reverse(ctx context.Context, tx storage.Tx, accountID string, amount core.Money) error {
	return b.Apply(ctx, tx, accountID, amount.Neg())
}
