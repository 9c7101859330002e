package cmd

import (
	"context"
	"flag"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/ledger"
	"github.com/etnz/dcps/renderer"
	"github.com/google/subcommands"
)

// reportCmd implements the "report" command.
type reportCmd struct {
	currency string
	all      bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "prints the ledger figures and stored facts" }
func (*reportCmd) Usage() string {
	return `report [-currency EUR] [-all]

Prints the latest balance, the contributions total and the funds held.
With -all, also prints every stored fact, ordered by date.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "EUR", "currency of the scheme")
	f.BoolVar(&c.all, "all", false, "print every stored fact")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return query(ctx, f, func(ctx context.Context, l *ledger.Ledger) error {
		r := &renderer.Report{Currency: c.currency, Counts: make(map[string]int)}
		var err error
		if r.Funds, err = l.Funds(ctx); err != nil {
			return err
		}
		if r.ContributionsTotal, err = l.ContributionsTotal(ctx); err != nil {
			return err
		}
		if r.LatestBalance, err = l.LatestBalance(ctx); err != nil {
			return err
		}
		for _, kind := range dcps.Kinds {
			if r.Counts[kind.String()], err = l.Count(ctx, kind); err != nil {
				return err
			}
		}
		md := renderer.ReportMarkdown(r)
		if c.all {
			h, err := stored(ctx, l)
			if err != nil {
				return err
			}
			md += "\n" + renderer.HarvestMarkdown(h)
		}
		printMarkdown(md)
		return nil
	})
}

// stored reads back every fact of the ledger.
func stored(ctx context.Context, l *ledger.Ledger) (h *dcps.Harvest, err error) {
	h = new(dcps.Harvest)
	if h.PriorYear, err = l.Balances(ctx, dcps.PriorYearBalance); err != nil {
		return nil, err
	}
	if h.Contributions, err = l.Contributions(ctx); err != nil {
		return nil, err
	}
	if h.Details, err = l.ContributionDetails(ctx); err != nil {
		return nil, err
	}
	if h.Current, err = l.Balances(ctx, dcps.CurrentBalance); err != nil {
		return nil, err
	}
	return h, nil
}
