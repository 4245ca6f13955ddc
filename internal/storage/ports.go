// Package storage holds the entity store for accounts and transactions: the
// ports used by the services, the SQL repository shared by the SQLite and
// MySQL backends, and their embedded migrations.
package storage

import (
	"context"

	"budget/internal/core"
)

// TransactionFilter narrows a transaction scan. Zero fields match everything.
type TransactionFilter struct {
	Month     string
	AccountID string
}

type (
	// Reader is the read side of the store. Lookups of a missing record return
	// core.ErrAccountNotFound or core.ErrTransactionNotFound.
	Reader interface {
		GetAccount(ctx context.Context, id string) (core.Account, error)
		// ListAccounts returns accounts ordered by name, then id.
		ListAccounts(ctx context.Context) ([]core.Account, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// ListTransactions returns matching transactions, most recent first.
		ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error)
	}

	// Tx is a unit of work. Every change made through it becomes visible
	// together on commit or not at all.
	Tx interface {
		Reader
		InsertAccount(ctx context.Context, a core.Account) error
		InsertTransaction(ctx context.Context, t core.Transaction) error
		// IncrementBalance adds delta to the stored balance without reading it
		// first. A missing account yields core.ErrAccountNotFound.
		IncrementBalance(ctx context.Context, accountID string, delta core.Money) error
		DeleteTransaction(ctx context.Context, id string) error
		DeleteTransactionsByAccount(ctx context.Context, accountID string) (int64, error)
		DeleteAccount(ctx context.Context, id string) error
	}

	Store interface {
		Reader
		// WithinTx runs fn in a transaction, committing when fn returns nil
		// and rolling back otherwise.
		WithinTx(ctx context.Context, fn func(Tx) error) error
		Ping(ctx context.Context) error
		Close() error
	}
)
