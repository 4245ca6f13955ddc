package services

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"budget/internal/core"
	"budget/internal/storage"
)

// Aggregator derives reports from the store. It never writes.
type Aggregator struct {
	store storage.Reader
}

// Dashboard combines the net worth summary with both category breakdowns of
// one month.
type Dashboard struct {
	Month    string               `json:"month,omitempty"`
	Summary  core.NetWorth        `json:"summary"`
	Expenses []core.CategoryTotal `json:"expenses"`
	Income   []core.CategoryTotal `json:"income"`
}

// Summary splits account balances into assets and liabilities.
func (a *Aggregator) Summary(ctx context.Context) (core.NetWorth, error) {
	accounts, err := a.store.ListAccounts(ctx)
	if err != nil {
		return core.NetWorth{}, storageErr("summary", err)
	}
	return NetWorthOf(accounts)
}

// CategoryStats totals transactions of the given kind per category,
// optionally within one month.
func (a *Aggregator) CategoryStats(ctx context.Context, month string, kind core.Kind) ([]core.CategoryTotal, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, core.ErrInvalidKind
	}
	txs, err := a.store.ListTransactions(ctx, storage.TransactionFilter{Month: month})
	if err != nil {
		return nil, storageErr("category stats", err)
	}
	return CategoryTotals(txs, kind)
}

// Dashboard computes the summary and both breakdowns concurrently.
func (a *Aggregator) Dashboard(ctx context.Context, month string) (Dashboard, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Month: month}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Summary, err = a.Summary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Expenses, err = a.CategoryStats(gctx, month, core.Expense)
		return err
	})
	g.Go(func() error {
		var err error
		d.Income, err = a.CategoryStats(gctx, month, core.Income)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// NetWorthOf sums non-negative balances into assets and negative balances
// into liabilities, which stay negative. Sums beyond int64 fail with
// core.ErrAmountOutOfRange.
func NetWorthOf(accounts []core.Account) (core.NetWorth, error) {
	var (
		nw  core.NetWorth
		err error
	)
	for _, a := range accounts {
		if a.Balance.IsNegative() {
			nw.Liabilities, err = nw.Liabilities.AddChecked(a.Balance)
		} else {
			nw.Assets, err = nw.Assets.AddChecked(a.Balance)
		}
		if err != nil {
			return core.NetWorth{}, err
		}
	}
	// Assets >= 0 and Liabilities <= 0, so the total cannot overflow.
	nw.Total = nw.Assets.Add(nw.Liabilities)
	return nw, nil
}

// CategoryTotals keeps outflows for core.Expense and inflows for core.Income,
// ignoring zero amounts. Expense totals are reported as absolute values.
// The result is sorted by total descending, then category.
func CategoryTotals(txs []core.Transaction, kind core.Kind) ([]core.CategoryTotal, error) {
	sums := map[string]core.Money{}
	for _, t := range txs {
		switch {
		case kind == core.Expense && t.Amount.IsNegative():
		case kind == core.Income && t.Amount.IsPositive():
		default:
			continue
		}
		label := t.CategoryLabel()
		sum, err := sums[label].AddChecked(t.Amount)
		if err != nil {
			return nil, err
		}
		sums[label] = sum
	}

	out := make([]core.CategoryTotal, 0, len(sums))
	for category, total := range sums {
		if kind == core.Expense {
			if total.Cents == math.MinInt64 {
				return nil, core.ErrAmountOutOfRange
			}
			total = total.Abs()
		}
		out = append(out, core.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
