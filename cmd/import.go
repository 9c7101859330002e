package cmd

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/etnz/dcps/ledger"
	"github.com/etnz/dcps/renderer"
	"github.com/etnz/dcps/statement"
	"github.com/google/subcommands"
)

// importCmd implements the "import" command.
type importCmd struct {
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "imports contribution details from statement PDF files" }
func (*importCmd) Usage() string {
	return `import [-n] <statement.pdf>...

Reads the "Holdings (DETAIL)" pages of each individual statement, stores the
contribution details and the contribution summaries computed from them.
Pages that do not match the known statement layout are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "dry run: print what would be imported without storing it")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	ctx = WithLogger(ctx)

	// a dry run never touches the ledger file
	var l *ledger.Ledger
	if !c.dryRun {
		var err error
		if l, err = OpenLedger(ctx); err != nil {
			return fail("%v", err)
		}
		defer l.Close()
	}

	for _, path := range f.Args() {
		var (
			res *statement.Result
			err error
		)
		if c.dryRun {
			res, err = statement.ImportFile(ctx, statement.Layout2017, path, nil)
		} else {
			res, err = c.importFile(ctx, l, path)
		}
		if err != nil {
			return fail("%s: %v", path, err)
		}
		printMarkdown(renderer.DetailsMarkdown(filepath.Base(path)+" - DETAILS", res.Details) +
			renderer.ContributionsMarkdown(filepath.Base(path)+" - SUMMARY", res.Contributions))
	}
	return subcommands.ExitSuccess
}

// importFile imports one statement as its own run.
func (c *importCmd) importFile(ctx context.Context, l *ledger.Ledger, path string) (*statement.Result, error) {
	run, err := l.StartRun(ctx, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	res, err := statement.ImportFile(ctx, statement.Layout2017, path, run)
	if ferr := run.Finish(ctx, err); ferr != nil && err == nil {
		err = ferr
	}
	return res, err
}
