// Package memory is an in-process Store used by the memory backend and by
// tests. A unit of work holds the write lock and restores a snapshot when it
// fails.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"budget/internal/core"
	"budget/internal/storage"
)

type Store struct {
	mu           sync.RWMutex
	accounts     map[string]core.Account
	transactions map[string]core.Transaction
}

func New() *Store {
	return &Store{
		accounts:     map[string]core.Account{},
		transactions: map[string]core.Transaction{},
	}
}

func (s *Store) GetAccount(ctx context.Context, id string) (core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (*state)(s).GetAccount(ctx, id)
}

func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (*state)(s).ListAccounts(ctx)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (*state)(s).GetTransaction(ctx, id)
}

func (s *Store) ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (*state)(s).ListTransactions(ctx, f)
}

func (s *Store) WithinTx(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := maps.Clone(s.accounts)
	transactions := maps.Clone(s.transactions)
	committed := false
	defer func() {
		if !committed {
			s.accounts, s.transactions = accounts, transactions
		}
	}()

	if err := fn((*state)(s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

// state is the lock-free view of Store handed to a unit of work; the caller
// already holds the appropriate lock.
type state Store

func (st *state) GetAccount(_ context.Context, id string) (core.Account, error) {
	a, ok := st.accounts[id]
	if !ok {
		return core.Account{}, core.ErrAccountNotFound
	}
	return a, nil
}

func (st *state) ListAccounts(context.Context) ([]core.Account, error) {
	out := make([]core.Account, 0, len(st.accounts))
	for _, a := range st.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (st *state) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	t, ok := st.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return t, nil
}

func (st *state) ListTransactions(_ context.Context, f storage.TransactionFilter) ([]core.Transaction, error) {
	out := []core.Transaction{}
	for _, t := range st.transactions {
		if f.Month != "" && t.Month != f.Month {
			continue
		}
		if f.AccountID != "" && t.AccountID != f.AccountID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Timestamp.Compare(out[j].Timestamp); c != 0 {
			return c > 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (st *state) InsertAccount(_ context.Context, a core.Account) error {
	st.accounts[a.ID] = a
	return nil
}

func (st *state) InsertTransaction(_ context.Context, t core.Transaction) error {
	if _, ok := st.accounts[t.AccountID]; !ok {
		return core.ErrAccountNotFound
	}
	st.transactions[t.ID] = t
	return nil
}

func (st *state) IncrementBalance(_ context.Context, accountID string, delta core.Money) error {
	a, ok := st.accounts[accountID]
	if !ok {
		return core.ErrAccountNotFound
	}
	balance, err := a.Balance.AddChecked(delta)
	if err != nil {
		return err
	}
	if err := balance.ValidateBalance(); err != nil {
		return err
	}
	a.Balance = balance
	st.accounts[accountID] = a
	return nil
}

func (st *state) DeleteTransaction(_ context.Context, id string) error {
	if _, ok := st.transactions[id]; !ok {
		return core.ErrTransactionNotFound
	}
	delete(st.transactions, id)
	return nil
}

func (st *state) DeleteTransactionsByAccount(_ context.Context, accountID string) (int64, error) {
	var n int64
	for id, t := range st.transactions {
		if t.AccountID == accountID {
			delete(st.transactions, id)
			n++
		}
	}
	return n, nil
}

func (st *state) DeleteAccount(_ context.Context, id string) error {
	if _, ok := st.accounts[id]; !ok {
		return core.ErrAccountNotFound
	}
	delete(st.accounts, id)
	return nil
}

var (
	_ storage.Store = (*Store)(nil)
	_ storage.Tx    = (*state)(nil)
)
