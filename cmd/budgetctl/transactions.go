package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"budget/internal/backend"
	"budget/internal/core"
)

var transactionCommands = []subcommands.Command{
	&transactionsCmd{},
	&addTxCmd{},
	&deleteTxCmd{},
}

type transactionsCmd struct {
	month string
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list transactions, most recent first" }
func (*transactionsCmd) Usage() string {
	return "budgetctl transactions [-month YYYY-MM]\n"
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Only list transactions of this month (YYYY-MM).")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(res *backend.Result) error {
		txs, err := res.Ledger.Transactions.List(ctx, c.month)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tDAY\tACCOUNT\tCATEGORY\tSOURCE\tAMOUNT\tDESCRIPTION")
		for _, t := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Day, t.AccountID, t.CategoryLabel(), t.Source, t.Amount.Display(t.Currency), t.Description)
		}
		return w.Flush()
	})
}

type addTxCmd struct {
	account     string
	amount      string
	currency    string
	category    string
	description string
	source      string
	timestamp   string
	raw         string
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "record a transaction and update its account balance" }
func (*addTxCmd) Usage() string {
	return `budgetctl add-tx -account <id> -amount <amount> [-category <name>] [-description <text>]
                [-currency <code>] [-source manual|sms] [-time <RFC3339>] [-raw <text>]

  Negative amounts are outflows, positive amounts are inflows.
`
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account id.")
	f.StringVar(&c.amount, "amount", "", "Signed amount, e.g. -12.50.")
	f.StringVar(&c.currency, "currency", "", "Currency code. Defaults to the account currency.")
	f.StringVar(&c.category, "category", "", "Category.")
	f.StringVar(&c.description, "description", "", "Free text description.")
	f.StringVar(&c.source, "source", "manual", "Source (manual, sms).")
	f.StringVar(&c.timestamp, "time", "", "Timestamp in RFC 3339. Defaults to now.")
	f.StringVar(&c.raw, "raw", "", "Original SMS text.")
}

func (c *addTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := c.newTransaction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(res *backend.Result) error {
		t, err := res.Ledger.Transactions.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created transaction %s (%s on %s)\n", t.ID, t.Amount.Display(t.Currency), t.Day)
		return nil
	})
}

func (c *addTxCmd) newTransaction() (core.NewTransaction, error) {
	amount, err := core.ParseMoney(c.amount)
	if err != nil {
		return core.NewTransaction{}, fmt.Errorf("-amount: %w", err)
	}
	source, err := core.ParseSource(c.source)
	if err != nil {
		return core.NewTransaction{}, err
	}
	in := core.NewTransaction{
		AccountID:   c.account,
		Amount:      amount,
		Currency:    c.currency,
		Category:    c.category,
		Description: c.description,
		Source:      source,
		RawSource:   c.raw,
	}
	if c.timestamp != "" {
		if in.Timestamp, err = time.Parse(time.RFC3339, c.timestamp); err != nil {
			return core.NewTransaction{}, fmt.Errorf("-time: %w", err)
		}
	}
	return in, nil
}

type deleteTxCmd struct{}

func (*deleteTxCmd) Name() string     { return "delete-tx" }
func (*deleteTxCmd) Synopsis() string { return "delete a transaction and reverse its balance effect" }
func (*deleteTxCmd) Usage() string {
	return "budgetctl delete-tx <transaction-id>\n"
}
func (*deleteTxCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := singleArg(f, "transaction id")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(res *backend.Result) error {
		t, err := res.Ledger.Transactions.Delete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted transaction %s (%s reversed)\n", t.ID, t.Amount.Display(t.Currency))
		return nil
	})
}
