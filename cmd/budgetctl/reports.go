package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"budget/internal/backend"
	"budget/internal/core"
)

var reportCommands = []subcommands.Command{
	&summaryCmd{},
	&statsCmd{},
	&reconcileCmd{},
}

type summaryCmd struct {
	currency string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show assets, liabilities and net worth" }
func (*summaryCmd) Usage() string    { return "budgetctl summary [-currency <code>]\n" }

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", core.DefaultCurrency, "Currency used to display the totals.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(res *backend.Result) error {
		nw, err := res.Ledger.Aggregator.Summary(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintf(w, "Assets\t%s\n", nw.Assets.Display(c.currency))
		fmt.Fprintf(w, "Liabilities\t%s\n", nw.Liabilities.Display(c.currency))
		fmt.Fprintf(w, "Net worth\t%s\n", nw.Total.Display(c.currency))
		return w.Flush()
	})
}

type statsCmd struct {
	month    string
	kind     string
	currency string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "total spending or income per category" }
func (*statsCmd) Usage() string {
	return "budgetctl stats [-month YYYY-MM] [-kind expense|income] [-currency <code>]\n"
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Restrict to one month (YYYY-MM).")
	f.StringVar(&c.kind, "kind", "expense", "expense or income.")
	f.StringVar(&c.currency, "currency", core.DefaultCurrency, "Currency used to display the totals.")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := core.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(res *backend.Result) error {
		totals, err := res.Ledger.Aggregator.CategoryStats(ctx, c.month, kind)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "CATEGORY\tTOTAL")
		for _, ct := range totals {
			fmt.Fprintf(w, "%s\t%s\n", ct.Category, ct.Total.Display(c.currency))
		}
		return w.Flush()
	})
}

var errDrift = errors.New("balance drift detected")

type reconcileCmd struct{}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "check every balance against its opening balance plus transactions"
}
func (*reconcileCmd) Usage() string            { return "budgetctl reconcile\n" }
func (*reconcileCmd) SetFlags(f *flag.FlagSet) {}

func (*reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(res *backend.Result) error {
		drifts, err := res.Ledger.Reconciler.Check(ctx)
		if err != nil {
			return err
		}
		if len(drifts) == 0 {
			fmt.Fprintln(stdout, "all balances reconcile")
			return nil
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tSTORED\tEXPECTED\tDELTA")
		for _, d := range drifts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.AccountID, d.Name, d.Stored, d.Expected, d.Delta())
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return fmt.Errorf("%w in %d accounts", errDrift, len(drifts))
	})
}
