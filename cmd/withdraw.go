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

type withdrawCmd struct {
	amount     string
	manualCash string
	exclude    symbolList
	csv        string
	narrative  bool
	json       bool
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "raise cash with the lowest tax cost" }
func (*withdrawCmd) Usage() string {
	return `tlh withdraw -amount <amount> [-manual-cash <amount>] [-exclude <symbols>] [-csv <file>]

  Uses the available cash first, then sells lots in MinTax order: losses first,
  then long-term gains with the lowest gain ratio, then short-term gains.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "cash to withdraw, in dollars")
	f.StringVar(&c.manualCash, "manual-cash", "", "cash held outside the snapshot, in dollars")
	f.Var(&c.exclude, "exclude", "symbols that must not be sold, comma separated. Can be repeated.")
	f.StringVar(&c.csv, "csv", "", "write the sell checklist as CSV to this file ('-' for stdout)")
	f.BoolVar(&c.narrative, "narrative", false, "print a plain-language summary of the plan")
	f.BoolVar(&c.json, "json", false, "print the plan as JSON")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount("amount", c.amount)
	if err == nil && !amount.IsPositive() {
		err = fmt.Errorf("-amount is required")
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
	plan, err := a.Withdraw(amount, manual, c.exclude)
	if err != nil {
		return reportError("planning withdrawal", err)
	}

	switch {
	case c.json:
		if err := printJSON(plan); err != nil {
			return reportError("encoding plan", err)
		}
	case c.narrative:
		printMarkdown(renderer.WithdrawalNarrative(plan, narrativeContext(a)).Markdown())
	default:
		printMarkdown(renderer.WithdrawalMarkdown(plan))
	}

	if c.csv != "" {
		err := writeFile(c.csv, func(w io.Writer) error { return renderer.WriteSellChecklist(w, plan.Sell.Items) })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing checklist %q: %v\n", c.csv, err)
			return subcommands.ExitFailure
		}
	}
	if plan.Sell.Shortfall.IsPositive() {
		fmt.Fprintf(os.Stderr, "Warning: the plan is short of %s\n", plan.Sell.Shortfall)
	}
	return subcommands.ExitSuccess
}
