package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/dcps/ledger"
	"github.com/google/subcommands"
)

// query runs fn on the ledger selected by the global flags.
func query(ctx context.Context, f *flag.FlagSet, fn func(context.Context, *ledger.Ledger) error) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	ctx = WithLogger(ctx)
	l, err := OpenLedger(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()
	if err := fn(ctx, l); err != nil {
		return fail("%v", err)
	}
	return subcommands.ExitSuccess
}

// fundsCmd implements the "funds" command.
type fundsCmd struct{}

func (*fundsCmd) Name() string             { return "funds" }
func (*fundsCmd) Synopsis() string         { return "lists the funds of the current balance" }
func (*fundsCmd) Usage() string            { return "funds\n\nLists the distinct funds held, one per line.\n" }
func (*fundsCmd) SetFlags(f *flag.FlagSet) {}
func (*fundsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return query(ctx, f, func(ctx context.Context, l *ledger.Ledger) error {
		funds, err := l.Funds(ctx)
		if err != nil {
			return err
		}
		for _, fund := range funds {
			fmt.Fprintln(stdout, fund)
		}
		return nil
	})
}

// totalCmd implements the "total" command.
type totalCmd struct{}

func (*totalCmd) Name() string     { return "total" }
func (*totalCmd) Synopsis() string { return "prints the sum of all contributions" }
func (*totalCmd) Usage() string {
	return "total\n\nPrints the sum of every stored contribution summary.\n"
}
func (*totalCmd) SetFlags(f *flag.FlagSet) {}
func (*totalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return query(ctx, f, func(ctx context.Context, l *ledger.Ledger) error {
		total, err := l.ContributionsTotal(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%.2f\n", total)
		return nil
	})
}

// balanceCmd implements the "balance" command.
type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "prints the latest balance across funds" }
func (*balanceCmd) Usage() string {
	return "balance\n\nPrints the sum over funds of the most recent current balance.\n"
}
func (*balanceCmd) SetFlags(f *flag.FlagSet) {}
func (*balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return query(ctx, f, func(ctx context.Context, l *ledger.Ledger) error {
		balance, err := l.LatestBalance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%.2f\n", balance)
		return nil
	})
}
