package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/harvest/renderer"
	"github.com/google/subcommands"
)

type transitionCmd struct {
	allocation string
	manualCash string
	exclude    symbolList
	index      string
	csv        string
	buys       string
	narrative  bool
	json       bool
}

func (*transitionCmd) Name() string { return "transition" }
func (*transitionCmd) Synopsis() string {
	return "fund the direct indexing basket with the lowest tax cost"
}
func (*transitionCmd) Usage() string {
	return `tlh transition -allocation <amount> [-manual-cash <amount>] [-exclude <symbols>] [-csv <file>] [-buys <file>]

  Raises the allocation from cash, then by selling lots in MinTax order, and
  splits it over the target basket built from the snapshot universe.
`
}

func (c *transitionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.allocation, "allocation", "", "amount to invest in the basket, in dollars")
	f.StringVar(&c.manualCash, "manual-cash", "", "cash held outside the snapshot, in dollars")
	f.Var(&c.exclude, "exclude", "symbols that must not be sold, comma separated. Can be repeated.")
	f.StringVar(&c.index, "index", "", "name of the tracked index, used in the narrative")
	f.StringVar(&c.csv, "csv", "", "write the sell checklist as CSV to this file ('-' for stdout)")
	f.StringVar(&c.buys, "buys", "", "write the buy checklist as CSV to this file ('-' for stdout)")
	f.BoolVar(&c.narrative, "narrative", false, "print a plain-language summary of the plan")
	f.BoolVar(&c.json, "json", false, "print the plan as JSON")
}

func (c *transitionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	allocation, err := parseAmount("allocation", c.allocation)
	if err == nil && !allocation.IsPositive() {
		err = fmt.Errorf("-allocation is required")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return subcommands.ExitUsageError
	}
	manual, err := parseAmount("manual-cash", c.manualCash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := loadAnalysis()
	if err != nil {
		return reportError("loading snapshot", err)
	}
	plan, err := a.Transition(allocation, manual, c.exclude)
	if err != nil {
		return reportError("planning transition", err)
	}

	switch {
	case c.json:
		if err := printJSON(plan); err != nil {
			return reportError("encoding plan", err)
		}
	case c.narrative:
		ctx := narrativeContext(a)
		ctx.IndexName = c.index
		printMarkdown(renderer.TransitionNarrative(plan, ctx).Markdown())
	default:
		printMarkdown(renderer.TransitionMarkdown(plan))
	}

	if c.csv != "" {
		err := writeFile(c.csv, func(w io.Writer) error { return renderer.WriteSellChecklist(w, plan.Sell.Items) })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing checklist %q: %v\n", c.csv, err)
			return subcommands.ExitFailure
		}
	}
	if c.buys != "" {
		err := writeFile(c.buys, func(w io.Writer) error { return renderer.WriteBuyChecklist(w, plan.Buys) })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing checklist %q: %v\n", c.buys, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
