// Command dcps harvests the pension scheme holdings into a local ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/dcps/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	sub := map[string]*complete.Command{
		"import": {
			Flags: map[string]complete.Predictor{"n": predict.Nothing},
			Args:  predict.Files("*.pdf"),
		},
		"harvest": {
			Flags: map[string]complete.Predictor{
				"url":    predict.Something,
				"id":     predict.Something,
				"record": predict.Dirs("*"),
			},
		},
		"report": {
			Flags: map[string]complete.Predictor{
				"currency": predict.Set{"EUR", "USD", "GBP"},
				"all":      predict.Nothing,
			},
		},
	}
	for _, c := range cmd.Commands {
		commander.Register(c, "")
		if _, ok := sub[c.Name()]; !ok {
			sub[c.Name()] = &complete.Command{}
		}
	}

	// answers shell completion requests and exits, does nothing otherwise.
	(&complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"db": predict.Files("*.db"),
			"v":  predict.Nothing,
		},
	}).Complete(name)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
