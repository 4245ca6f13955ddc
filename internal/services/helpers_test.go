package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/storage"
	"budget/internal/storage/memory"
)

var errInjected = errors.New("injected failure")

// forEachStore runs fn against the in-memory store and a SQLite file.
func forEachStore(t *testing.T, fn func(t *testing.T, store storage.Store)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		fn(t, memory.New())
	})
	t.Run("sqlite", func(t *testing.T) {
		repo, err := storage.NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { repo.Close() })
		fn(t, repo)
	})
}

// faultyStore fails the named step of every unit of work after the steps
// before it have been applied.
type faultyStore struct {
	storage.Store
	failOn string
}

func (f faultyStore) WithinTx(ctx context.Context, fn func(storage.Tx) error) error {
	return f.Store.WithinTx(ctx, func(tx storage.Tx) error {
		return fn(faultyTx{Tx: tx, failOn: f.failOn})
	})
}

type faultyTx struct {
	storage.Tx
	failOn string
}

func (t faultyTx) IncrementBalance(ctx context.Context, accountID string, delta core.Money) error {
	if t.failOn == "increment" {
		return errInjected
	}
	return t.Tx.IncrementBalance(ctx, accountID, delta)
}

func (t faultyTx) DeleteTransaction(ctx context.Context, id string) error {
	if t.failOn == "delete_transaction" {
		return errInjected
	}
	return t.Tx.DeleteTransaction(ctx, id)
}

func (t faultyTx) DeleteAccount(ctx context.Context, id string) error {
	if t.failOn == "delete_account" {
		return errInjected
	}
	return t.Tx.DeleteAccount(ctx, id)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []amqp.LedgerEvent
	err    error
}

func (p *fakePublisher) PublishLedgerEvent(_ context.Context, ev amqp.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) types() []amqp.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

var fixedNow = time.Date(2025, 11, 15, 10, 30, 0, 0, time.UTC)

func newTestLedger(store storage.Store, pub EventPublisher) *Ledger {
	return NewLedger(store, pub, WithClock(func() time.Time { return fixedNow }))
}

func mustAccount(t *testing.T, l *Ledger, name string, opening int64) core.Account {
	t.Helper()
	a, err := l.Accounts.Create(context.Background(), core.NewAccount{
		Name: name, Type: core.Bank, Balance: core.Money{Cents: opening},
	})
	if err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
	return a
}

func mustTx(t *testing.T, l *Ledger, accountID string, cents int64, category string) core.Transaction {
	t.Helper()
	tr, err := l.Transactions.Create(context.Background(), core.NewTransaction{
		AccountID: accountID, Amount: core.Money{Cents: cents}, Category: category,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tr
}

func balanceOf(t *testing.T, l *Ledger, id string) int64 {
	t.Helper()
	a, err := l.Accounts.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return a.Balance.Cents
}

func assertReconciled(t *testing.T, l *Ledger) {
	t.Helper()
	drifts, err := l.Reconciler.Check(context.Background())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("unexpected drift: %+v", drifts)
	}
}
