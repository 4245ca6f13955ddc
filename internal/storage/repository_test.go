package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budget/internal/core"
)

func newTestRepo(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	if repo.Dialect() != DialectSQLite {
		t.Fatalf("dialect = %q", repo.Dialect())
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedAccount(t *testing.T, repo *SQLRepository, name string, cents int64) core.Account {
	t.Helper()
	a := core.Account{
		ID:             core.NewID(),
		Name:           name,
		Type:           core.Bank,
		Currency:       "INR",
		Balance:        core.Money{Cents: cents},
		OpeningBalance: core.Money{Cents: cents},
	}
	err := repo.WithinTx(context.Background(), func(tx Tx) error { return tx.InsertAccount(context.Background(), a) })
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}
	return a
}

func newTx(accountID string, cents int64, ts time.Time) core.Transaction {
	day, month := core.DeriveKeys(ts)
	return core.Transaction{
		ID:        core.NewID(),
		AccountID: accountID,
		Amount:    core.Money{Cents: cents},
		Currency:  "INR",
		Category:  "Food",
		Source:    core.Manual,
		Timestamp: ts,
		Day:       day,
		Month:     month,
	}
}

func TestSQLiteAccountRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	a := core.Account{ID: core.NewID(), Name: "Card", Type: core.Card, Currency: "USD",
		Balance: core.Money{Cents: -250}, OpeningBalance: core.Money{Cents: -250}, Last4: "4242"}
	if err := repo.WithinTx(ctx, func(tx Tx) error { return tx.InsertAccount(ctx, a) }); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := repo.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != a {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, a)
	}
	if _, err := repo.GetAccount(ctx, core.NewID()); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSQLiteListAccountsOrdered(t *testing.T) {
	repo := newTestRepo(t)
	seedAccount(t, repo, "Wallet", 0)
	seedAccount(t, repo, "Bank", 0)
	seedAccount(t, repo, "Card", 0)

	got, err := repo.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].Name != "Bank" || got[1].Name != "Card" || got[2].Name != "Wallet" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestSQLiteIncrementBalance(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := seedAccount(t, repo, "Wallet", 1000)

	err := repo.WithinTx(ctx, func(tx Tx) error {
		if err := tx.IncrementBalance(ctx, a.ID, core.Money{Cents: -300}); err != nil {
			return err
		}
		// Zero delta still matches the row.
		return tx.IncrementBalance(ctx, a.ID, core.Money{})
	})
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	got, _ := repo.GetAccount(ctx, a.ID)
	if got.Balance.Cents != 700 {
		t.Fatalf("balance = %d, want 700", got.Balance.Cents)
	}

	err = repo.WithinTx(ctx, func(tx Tx) error {
		return tx.IncrementBalance(ctx, core.NewID(), core.Money{Cents: 1})
	})
	if !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSQLiteIncrementBalanceBound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := seedAccount(t, repo, "Wallet", 0)

	inc := func(cents int64) error {
		return repo.WithinTx(ctx, func(tx Tx) error {
			return tx.IncrementBalance(ctx, a.ID, core.Money{Cents: cents})
		})
	}
	if err := inc(core.MaxBalanceCents); err != nil {
		t.Fatalf("increment to bound: %v", err)
	}
	if err := inc(1); !errors.Is(err, core.ErrAmountOutOfRange) {
		t.Fatalf("past bound err = %v, want ErrAmountOutOfRange", err)
	}
	if err := inc(-2*core.MaxBalanceCents - 1); !errors.Is(err, core.ErrAmountOutOfRange) {
		t.Fatalf("past lower bound err = %v, want ErrAmountOutOfRange", err)
	}

	// The column must still scan as an integer.
	got, err := repo.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.Balance.Cents != core.MaxBalanceCents {
		t.Fatalf("balance = %d, want %d", got.Balance.Cents, core.MaxBalanceCents)
	}
	if _, err := repo.ListAccounts(ctx); err != nil {
		t.Fatalf("list accounts: %v", err)
	}
}

func TestSQLiteRejectsUnorderableTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := seedAccount(t, repo, "Wallet", 0)

	tr := newTx(a.ID, -1, time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC))
	err := repo.WithinTx(ctx, func(tx Tx) error { return tx.InsertTransaction(ctx, tr) })
	if !errors.Is(err, core.ErrInvalidTimestamp) {
		t.Fatalf("insert err = %v, want ErrInvalidTimestamp", err)
	}
}

func TestSQLiteJournalModeWAL(t *testing.T) {
	repo := newTestRepo(t)
	var mode string
	if err := repo.db.QueryRowContext(context.Background(), `PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
}

func TestSQLiteTransactionsOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := seedAccount(t, repo, "Wallet", 0)
	b := seedAccount(t, repo, "Bank", 0)

	ist := time.FixedZone("IST", 5*3600+1800)
	t1 := newTx(a.ID, -100, time.Date(2025, 10, 31, 9, 0, 0, 0, time.UTC))
	t2 := newTx(a.ID, -200, time.Date(2025, 11, 2, 9, 0, 0, 0, ist))
	t3 := newTx(b.ID, 500, time.Date(2025, 11, 5, 9, 0, 0, 123456789, time.UTC))
	err := repo.WithinTx(ctx, func(tx Tx) error {
		for _, tr := range []core.Transaction{t1, t2, t3} {
			if err := tx.InsertTransaction(ctx, tr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, err := repo.ListTransactions(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != t3.ID || all[1].ID != t2.ID || all[2].ID != t1.ID {
		t.Fatalf("expected most recent first, got %+v", all)
	}
	if !all[0].Timestamp.Equal(t3.Timestamp) || all[1].Day != "2025-11-02" {
		t.Fatalf("timestamp/day not preserved: %+v", all[:2])
	}

	nov, _ := repo.ListTransactions(ctx, TransactionFilter{Month: "2025-11"})
	if len(nov) != 2 {
		t.Fatalf("expected 2 in 2025-11, got %d", len(nov))
	}
	onA, _ := repo.ListTransactions(ctx, TransactionFilter{AccountID: a.ID, Month: "2025-11"})
	if len(onA) != 1 || onA[0].ID != t2.ID {
		t.Fatalf("unexpected account+month filter result: %+v", onA)
	}
}

func TestSQLiteWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := seedAccount(t, repo, "Wallet", 0)
	tr := newTx(a.ID, -100, time.Now())

	boom := errors.New("boom")
	err := repo.WithinTx(ctx, func(tx Tx) error {
		if err := tx.InsertTransaction(ctx, tr); err != nil {
			return err
		}
		if err := tx.IncrementBalance(ctx, a.ID, tr.Amount); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := repo.GetTransaction(ctx, tr.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("transaction survived rollback: %v", err)
	}
	got, _ := repo.GetAccount(ctx, a.ID)
	if got.Balance.Cents != 0 {
		t.Fatalf("balance survived rollback: %d", got.Balance.Cents)
	}
}

func TestSQLiteDeletes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := seedAccount(t, repo, "Wallet", 0)
	trs := []core.Transaction{newTx(a.ID, -1, time.Now()), newTx(a.ID, -2, time.Now()), newTx(a.ID, -3, time.Now())}

	err := repo.WithinTx(ctx, func(tx Tx) error {
		for _, tr := range trs {
			if err := tx.InsertTransaction(ctx, tr); err != nil {
				return err
			}
		}
		return tx.DeleteTransaction(ctx, trs[0].ID)
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	err = repo.WithinTx(ctx, func(tx Tx) error { return tx.DeleteTransaction(ctx, trs[0].ID) })
	if !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	var n int64
	err = repo.WithinTx(ctx, func(tx Tx) error {
		var err error
		if n, err = tx.DeleteTransactionsByAccount(ctx, a.ID); err != nil {
			return err
		}
		return tx.DeleteAccount(ctx, a.ID)
	})
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d transactions, want 2", n)
	}
	if _, err := repo.GetAccount(ctx, a.ID); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("account survived: %v", err)
	}
}

func TestSQLiteForeignKeyEnforced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	err := repo.WithinTx(ctx, func(tx Tx) error {
		return tx.InsertTransaction(ctx, newTx(core.NewID(), -1, time.Now()))
	})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}
