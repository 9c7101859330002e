package cmd

import (
	"context"
	"flag"

	"github.com/etnz/dcps/docs"
	"github.com/google/subcommands"
)

// topicCmd implements the "topic" command.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "shows documentation" }
func (*topicCmd) Usage() string {
	return `topic [<topic>...]

Shows the documentation of the given topics, "*" for all of them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return fail("%v", err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
