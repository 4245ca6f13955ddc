package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"budget/internal/backend"
	"budget/internal/cli"
)

// stdout and openBackend are replaced in tests.
var (
	stdout io.Writer = os.Stdout

	openBackend = func(ctx context.Context) (*backend.Result, error) {
		cfg, err := cli.LoadAndValidateConfig()
		if err != nil {
			return nil, err
		}
		logger := cli.SetupLogger(cfg, "budgetctl", os.Stderr)

		backendCfg, err := backend.FromAppConfig(cfg)
		if err != nil {
			return nil, err
		}
		return backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	}
)

// withLedger opens the backend, runs fn and closes it again.
func withLedger(ctx context.Context, fn func(res *backend.Result) error) subcommands.ExitStatus {
	res, err := openBackend(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			fmt.Fprintln(os.Stderr, "close:", err)
		}
	}()

	if err := fn(res); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
}

// singleArg returns the only positional argument.
func singleArg(f *flag.FlagSet, what string) (string, error) {
	if len(f.Args()) != 1 {
		return "", fmt.Errorf("expected exactly one %s argument", what)
	}
	return f.Args()[0], nil
}
