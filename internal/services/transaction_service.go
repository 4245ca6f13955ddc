package services

import (
	"context"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	ledgerlog "budget/internal/log"
	"budget/internal/storage"
)

// TransactionService creates, deletes and lists transactions. Create and
// delete couple the record change with the balance change in one unit of
// work.
type TransactionService struct {
	store   storage.Store
	events  events
	balance BalanceMaintainer
	now     func() time.Time
}

// Create validates in, defaults its timestamp and source, derives the day and
// month keys and persists it together with the balance delta.
func (s *TransactionService) Create(ctx context.Context, in core.NewTransaction) (core.Transaction, error) {
	accountID, err := core.ParseID(in.AccountID)
	if err != nil {
		return core.Transaction{}, err
	}
	if in.Source == "" {
		in.Source = core.Manual
	}
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	currency := ""
	if in.Currency != "" {
		if currency, err = core.NormalizeCurrency(in.Currency); err != nil {
			return core.Transaction{}, err
		}
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	day, month := core.DeriveKeys(ts)

	t := core.Transaction{
		ID:          core.NewID(),
		AccountID:   accountID,
		Amount:      in.Amount,
		Currency:    currency,
		Category:    in.Category,
		Description: in.Description,
		Source:      in.Source,
		Timestamp:   ts,
		Day:         day,
		Month:       month,
		RawSource:   in.RawSource,
	}

	err = s.store.WithinTx(ctx, func(tx storage.Tx) error {
		account, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if t.Currency == "" {
			t.Currency = account.Currency
		}
		if err := tx.InsertTransaction(ctx, t); err != nil {
			return err
		}
		return s.balance.Apply(ctx, tx, accountID, t.Amount)
	})
	if err != nil {
		return core.Transaction{}, storageErr("create transaction", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		ledgerlog.NewFields().
			WithTransaction(t.ID, t.AccountID, t.Amount.Cents, t.Category).
			WithOperation(ledgerlog.OpCreate).
			WithComponent(ledgerlog.ComponentLedger).
			ToSlice()...)

	s.events.publish(ctx, amqp.NewTransactionCreated(t))
	return t, nil
}

// Delete reverses the transaction's amount on its account and removes it.
func (s *TransactionService) Delete(ctx context.Context, id string) (core.Transaction, error) {
	id, err := core.ParseID(id)
	if err != nil {
		return core.Transaction{}, err
	}

	var deleted core.Transaction
	err = s.store.WithinTx(ctx, func(tx storage.Tx) error {
		t, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if err := s.balance.Reverse(ctx, tx, t.AccountID, t.Amount); err != nil {
			return err
		}
		if err := tx.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return core.Transaction{}, storageErr("delete transaction", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		ledgerlog.NewFields().
			WithTransaction(deleted.ID, deleted.AccountID, deleted.Amount.Cents, deleted.Category).
			WithOperation(ledgerlog.OpDelete).
			WithComponent(ledgerlog.ComponentLedger).
			ToSlice()...)

	s.events.publish(ctx, amqp.NewTransactionDeleted(deleted))
	return deleted, nil
}

// Get returns one transaction.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	id, err := core.ParseID(id)
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := s.store.GetTransaction(ctx, id)
	return t, storageErr("get transaction", err)
}

// List returns transactions, optionally restricted to one YYYY-MM month,
// most recent first.
func (s *TransactionService) List(ctx context.Context, month string) ([]core.Transaction, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, storage.TransactionFilter{Month: month})
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	return txs, nil
}
