package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/harvest/renderer"
	"github.com/google/subcommands"
)

type healthCmd struct {
	json bool
}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "check that tax lots reconcile with holdings" }
func (*healthCmd) Usage() string {
	return `tlh health [-json]

  Reconciles the tax lots of the snapshot with its holdings and lists the
  blocking issues. Harvest, withdraw and transition refuse to run until every
  issue is fixed or acknowledged with -ack.
`
}

func (c *healthCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the report as JSON")
}

func (c *healthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAnalysis()
	if err != nil {
		return reportError("loading snapshot", err)
	}
	report := a.Health()
	if c.json {
		if err := printJSON(report); err != nil {
			return reportError("encoding report", err)
		}
	} else {
		printMarkdown(renderer.HealthMarkdown(report, a.Acknowledged()))
	}

	if len(report.Pending(a.Acknowledged())) > 0 {
		fmt.Fprintln(os.Stderr, "Some issues are still blocking.")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
