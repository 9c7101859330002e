package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/etnz/dcps"
	"github.com/etnz/dcps/portal"
	"github.com/etnz/dcps/renderer"
	"github.com/google/subcommands"
)

// harvestCmd implements the "harvest" command.
type harvestCmd struct {
	url    string
	id     string
	record string
}

func (*harvestCmd) Name() string     { return "harvest" }
func (*harvestCmd) Synopsis() string { return "harvests the holdings from the portal into the ledger" }
func (*harvestCmd) Usage() string {
	return `harvest [-url <front door>] [-id <member id>] [-record <dir>]

Signs on the portal, reads the prior-year balance, the current year
contributions with every transaction detail, and the current balance, then
stores them in the ledger and prints them.

Credentials are read from ` + EnvURL + `, ` + EnvID + ` and ` + EnvPassword + `.
The password can only be set in the environment.
`
}

func (c *harvestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", "", "portal front door URL, overrides "+EnvURL)
	f.StringVar(&c.id, "id", "", "member id, overrides "+EnvID)
	f.StringVar(&c.record, "record", "", "dump every portal response into this directory")
}

func (c *harvestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	ctx = WithLogger(ctx)

	creds := LoadCredentials(os.Getenv)
	if c.url != "" {
		creds.URL = c.url
	}
	if c.id != "" {
		creds.ID = c.id
	}
	if err := creds.Validate(); err != nil {
		return fail("%v", err)
	}

	l, err := OpenLedger(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()

	run, err := l.StartRun(ctx, "web")
	if err != nil {
		return fail("%v", err)
	}
	res, err := c.harvest(ctx, creds, run)
	if err = outcome(err, run.Finish(ctx, err)); err != nil {
		return fail("%v", err)
	}

	printMarkdown(renderer.HarvestMarkdown(res))
	return subcommands.ExitSuccess
}

func (c *harvestCmd) harvest(ctx context.Context, creds portal.Credentials, sink portal.Sink) (*dcps.Harvest, error) {
	var transport http.RoundTripper
	if c.record != "" {
		transport = &portal.Recorder{Dir: c.record}
	}
	a, err := portal.NewAuthenticator(transport)
	if err != nil {
		return nil, err
	}
	s, err := a.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	h := &portal.Harvester{Session: s, Sink: sink}
	return h.Harvest(ctx)
}

// explain adds the expected user action to the fatal errors.
// outcome is the harvest failure to report, if any. A failure to record the
// run never hides the harvest error.
func outcome(err, ferr error) error {
	switch {
	case err != nil && ferr != nil:
		return fmt.Errorf("%w (run not recorded: %v)", explain(err), ferr)
	case err != nil:
		return explain(err)
	}
	return ferr
}

func explain(err error) error {
	switch {
	case errors.Is(err, dcps.ErrPasswordReset):
		return err
	case errors.Is(err, dcps.ErrAuthentication):
		return fmt.Errorf("%w (check %s and %s)", err, EnvID, EnvPassword)
	case errors.Is(err, dcps.ErrStructuralChange):
		return fmt.Errorf("%w (run again with -record to capture the pages)", err)
	}
	return err
}
