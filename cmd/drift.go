package cmd

import (
	"context"
	"flag"

	"github.com/etnz/harvest/renderer"
	"github.com/google/subcommands"
)

type driftCmd struct {
	json bool
}

func (*driftCmd) Name() string     { return "drift" }
func (*driftCmd) Synopsis() string { return "compare the holdings with the target basket" }
func (*driftCmd) Usage() string {
	return `tlh drift [-json]

  Measures how far the current weights are from the target basket, by symbol
  and by sector.
`
}

func (c *driftCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the drift report as JSON")
}

func (c *driftCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAnalysis()
	if err != nil {
		return reportError("loading snapshot", err)
	}
	report, _, err := a.Drift()
	if err != nil {
		return reportError("measuring drift", err)
	}
	if c.json {
		if err := printJSON(report); err != nil {
			return reportError("encoding report", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.DriftMarkdown(report))
	return subcommands.ExitSuccess
}
