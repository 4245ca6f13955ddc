package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"budget/internal/backend"
	"budget/internal/core"
)

var accountCommands = []subcommands.Command{
	&accountsCmd{},
	&addAccountCmd{},
	&deleteAccountCmd{},
}

type accountsCmd struct{}

func (*accountsCmd) Name() string             { return "accounts" }
func (*accountsCmd) Synopsis() string         { return "list accounts with their balances" }
func (*accountsCmd) Usage() string            { return "budgetctl accounts\n" }
func (*accountsCmd) SetFlags(f *flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(res *backend.Result) error {
		accounts, err := res.Ledger.Accounts.List(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tLAST4\tBALANCE")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, a.Last4, a.Balance.Display(a.Currency))
		}
		return w.Flush()
	})
}

type addAccountCmd struct {
	name     string
	typ      string
	currency string
	balance  string
	last4    string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `budgetctl add-account -name <name> [-type cash|bank|card] [-currency <code>] [-balance <amount>] [-last4 <digits>]

  Creates an account. The balance is the opening balance; no transaction is
  recorded for it.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.typ, "type", "cash", "Account type (cash, bank, card).")
	f.StringVar(&c.currency, "currency", "", "ISO 4217 currency code. Defaults to DEFAULT_CURRENCY.")
	f.StringVar(&c.balance, "balance", "0", "Opening balance.")
	f.StringVar(&c.last4, "last4", "", "Last four digits of the card or account number.")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := core.ParseAccountType(c.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	balance, err := core.ParseMoney(c.balance)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	return withLedger(ctx, func(res *backend.Result) error {
		a, err := res.Ledger.Accounts.Create(ctx, core.NewAccount{
			Name:     c.name,
			Type:     typ,
			Currency: c.currency,
			Balance:  balance,
			Last4:    c.last4,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created account %s (%s, %s)\n", a.ID, a.Name, a.Balance.Display(a.Currency))
		return nil
	})
}

type deleteAccountCmd struct{}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete an account and all of its transactions" }
func (*deleteAccountCmd) Usage() string {
	return "budgetctl delete-account <account-id>\n"
}
func (*deleteAccountCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := singleArg(f, "account id")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(res *backend.Result) error {
		n, err := res.Ledger.Accounts.Delete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted account %s and %d transactions\n", id, n)
		return nil
	})
}
