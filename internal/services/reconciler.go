package services

import (
	"context"
	"log/slog"

	"budget/internal/core"
	ledgerlog "budget/internal/log"
	"budget/internal/storage"
)

// Reconciler checks that every stored balance equals the account's opening
// balance plus the sum of its transactions.
type Reconciler struct {
	store storage.Store
}

// Check reads accounts and transactions in one unit of work so that the
// comparison sees a consistent snapshot. It writes nothing.
func (r *Reconciler) Check(ctx context.Context) ([]core.BalanceDrift, error) {
	var (
		accounts []core.Account
		txs      []core.Transaction
	)
	err := r.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		if accounts, err = tx.ListAccounts(ctx); err != nil {
			return err
		}
		txs, err = tx.ListTransactions(ctx, storage.TransactionFilter{})
		return err
	})
	if err != nil {
		return nil, storageErr("reconcile", err)
	}

	drifts := Drifts(accounts, txs)
	for _, d := range drifts {
		slog.WarnContext(ctx, "Balance drift detected",
			ledgerlog.FieldComponent, ledgerlog.ComponentReconcile,
			ledgerlog.FieldAccountID, d.AccountID,
			ledgerlog.FieldAccountName, d.Name,
			ledgerlog.FieldDriftCents, d.Delta().Cents)
	}
	return drifts, nil
}

// Drifts compares each account against opening balance plus the sum of the
// transactions referencing it.
func Drifts(accounts []core.Account, txs []core.Transaction) []core.BalanceDrift {
	sums := make(map[string]core.Money, len(accounts))
	for _, t := range txs {
		sums[t.AccountID] = sums[t.AccountID].Add(t.Amount)
	}

	drifts := []core.BalanceDrift{}
	for _, a := range accounts {
		expected := a.OpeningBalance.Add(sums[a.ID])
		if expected != a.Balance {
			drifts = append(drifts, core.BalanceDrift{
				AccountID: a.ID,
				Name:      a.Name,
				Stored:    a.Balance,
				Expected:  expected,
			})
		}
	}
	return drifts
}
