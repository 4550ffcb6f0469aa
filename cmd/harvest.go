package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/etnz/harvest/renderer"
	"github.com/google/subcommands"
)

type harvestCmd struct {
	csv       string
	narrative bool
	json      bool
}

func (*harvestCmd) Name() string     { return "harvest" }
func (*harvestCmd) Synopsis() string { return "rank tax-loss harvesting candidates and propose trades" }
func (*harvestCmd) Usage() string {
	return `tlh harvest [-csv <file>] [-narrative] [-json]

  Ranks the lots at a loss, caps them to the loss budget of the configured goal,
  and proposes the sells with their replacement buys.
`
}

func (c *harvestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "write the order checklist as CSV to this file ('-' for stdout)")
	f.BoolVar(&c.narrative, "narrative", false, "print a plain-language summary of the proposal")
	f.BoolVar(&c.json, "json", false, "print the candidates and the proposal as JSON")
}

func (c *harvestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAnalysis()
	if err != nil {
		return reportError("loading snapshot", err)
	}
	res, err := a.Harvest()
	if err != nil {
		return reportError("harvesting", err)
	}
	p := a.Propose(res)

	switch {
	case c.json:
		if err := printJSON(map[string]any{"result": res, "proposal": p}); err != nil {
			return reportError("encoding result", err)
		}
	case c.narrative:
		printMarkdown(renderer.HarvestNarrative(res, p, narrativeContext(a)).Markdown())
	default:
		printMarkdown(renderer.TLHMarkdown(res))
		printMarkdown(renderer.ProposalMarkdown(p))
	}

	if c.csv != "" {
		orders := slices.Concat(p.Sells, p.Buys)
		err := writeFile(c.csv, func(w io.Writer) error { return renderer.WriteOrderChecklist(w, orders) })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing checklist %q: %v\n", c.csv, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
