package services

import (
	"context"
	"log/slog"
	"strings"

	"budget/internal/amqp"
	"budget/internal/core"
	ledgerlog "budget/internal/log"
	"budget/internal/storage"
)

// AccountService creates, lists and cascade-deletes accounts.
type AccountService struct {
	store           storage.Store
	events          events
	defaultCurrency string
}

// Create persists a new account. Its balance starts at the supplied opening
// value; no transaction is synthesized for it.
func (s *AccountService) Create(ctx context.Context, in core.NewAccount) (core.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Type == "" {
		in.Type = core.Cash
	}
	if in.Currency == "" {
		in.Currency = s.defaultCurrency
	}
	currency, err := core.NormalizeCurrency(in.Currency)
	if err != nil {
		return core.Account{}, err
	}
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}

	a := core.Account{
		ID:             core.NewID(),
		Name:           in.Name,
		Type:           in.Type,
		Currency:       currency,
		Balance:        in.Balance,
		OpeningBalance: in.Balance,
		Last4:          in.Last4,
	}
	err = s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.InsertAccount(ctx, a)
	})
	if err != nil {
		return core.Account{}, storageErr("create account", err)
	}

	slog.InfoContext(ctx, "Account created",
		ledgerlog.FieldComponent, ledgerlog.ComponentLedger,
		ledgerlog.FieldOperation, ledgerlog.OpCreate,
		ledgerlog.FieldAccountID, a.ID,
		ledgerlog.FieldAccountName, a.Name,
		ledgerlog.FieldAmountCents, a.Balance.Cents)
	return a, nil
}

// Get returns one account.
func (s *AccountService) Get(ctx context.Context, id string) (core.Account, error) {
	id, err := core.ParseID(id)
	if err != nil {
		return core.Account{}, err
	}
	a, err := s.store.GetAccount(ctx, id)
	return a, storageErr("get account", err)
}

// List returns every account ordered by name.
func (s *AccountService) List(ctx context.Context) ([]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

// Delete removes the account and every transaction referencing it in one
// unit of work and reports how many transactions went with it. Balances are
// not reversed since the account row disappears.
func (s *AccountService) Delete(ctx context.Context, id string) (int64, error) {
	id, err := core.ParseID(id)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetAccount(ctx, id); err != nil {
			return err
		}
		n, err := tx.DeleteTransactionsByAccount(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteAccount(ctx, id); err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, storageErr("delete account", err)
	}

	slog.InfoContext(ctx, "Account deleted",
		ledgerlog.FieldComponent, ledgerlog.ComponentLedger,
		ledgerlog.FieldOperation, ledgerlog.OpDelete,
		ledgerlog.FieldAccountID, id,
		ledgerlog.FieldDeletedCount, deleted)

	s.events.publish(ctx, amqp.NewAccountDeleted(id, deleted))
	return deleted, nil
}
