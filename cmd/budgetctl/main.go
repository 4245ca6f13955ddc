// Command budgetctl administers the ledger directly against the configured
// store: list and add records, delete with balance reversal, reports and
// balance reconciliation.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"budget/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range accountCommands {
		commander.Register(c, "accounts")
	}
	for _, c := range transactionCommands {
		commander.Register(c, "transactions")
	}
	for _, c := range reportCommands {
		commander.Register(c, "reports")
	}

	flag.Parse()
	ctx, stop := cli.SignalContext(context.Background())
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
