package sheets

import (
	"context"

	"budget/internal/core"
)

// Exporter mirrors ledger transactions into a spreadsheet, one row per
// transaction keyed by its id.
type Exporter interface {
	// Append adds a row for t unless one with the same id already exists.
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	// DeleteTransaction removes the rows of one transaction.
	DeleteTransaction(ctx context.Context, id string) (int, error)
	// DeleteAccount removes the rows of every transaction of an account.
	DeleteAccount(ctx context.Context, accountID string) (int, error)
	// ExportedIDs lists the transaction ids currently present.
	ExportedIDs(ctx context.Context) ([]string, error)
}
