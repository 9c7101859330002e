// Package cmd implements the CLI application harvesting the pension scheme
// holdings into a local ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/dcps/ledger"
	"github.com/etnz/dcps/logger"
	"github.com/google/subcommands"
)

const (
	EnvDB       = "DCPS_DB"
	EnvURL      = "DCPS_URL"
	EnvID       = "DCPS_ID"
	EnvPassword = "DCPS_PASSWORD"
	EnvVerbose  = "DCPS_VERBOSE"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dbPath = flag.String("db", envOr(EnvDB, ledger.DefaultPath), "path to the SQLite ledger file (env "+EnvDB+")")

// Verbose enables debug logs on stderr.
var Verbose = flag.Bool("v", os.Getenv(EnvVerbose) == "true", "verbose output (env "+EnvVerbose+")")

// stdout receives the command results, stderr gets logs and diagnostics.
var stdout io.Writer = os.Stdout

// Commands lists every top level command.
var Commands = []subcommands.Command{
	&harvestCmd{},
	&importCmd{},
	&fundsCmd{},
	&totalCmd{},
	&balanceCmd{},
	&reportCmd{},
	&runsCmd{},
	&topicCmd{},
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithLogger returns ctx carrying the application logger.
func WithLogger(ctx context.Context) context.Context {
	return logger.WithContext(ctx, logger.New(os.Stderr, *Verbose))
}

// OpenLedger opens the ledger selected by the global flags.
func OpenLedger(ctx context.Context) (*ledger.Ledger, error) {
	l, err := ledger.Open(ctx, *dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", *dbPath, err)
	}
	return l, nil
}

// fail prints a one-line diagnostic and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}
