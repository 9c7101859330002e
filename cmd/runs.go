package cmd

import (
	"context"
	"flag"

	"github.com/etnz/dcps/ledger"
	"github.com/etnz/dcps/renderer"
	"github.com/google/subcommands"
)

// runsCmd implements the "runs" command.
type runsCmd struct{}

func (*runsCmd) Name() string             { return "runs" }
func (*runsCmd) Synopsis() string         { return "lists the past harvests and imports" }
func (*runsCmd) Usage() string            { return "runs\n\nLists every recorded ingestion, most recent first.\n" }
func (*runsCmd) SetFlags(f *flag.FlagSet) {}
func (*runsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return query(ctx, f, func(ctx context.Context, l *ledger.Ledger) error {
		runs, err := l.Runs(ctx)
		if err != nil {
			return err
		}
		list := make([]renderer.Run, len(runs))
		for i, r := range runs {
			list[i] = renderer.Run(r)
		}
		printMarkdown(renderer.RunsMarkdown(list))
		return nil
	})
}
