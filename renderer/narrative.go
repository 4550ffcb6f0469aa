package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/harvest"
)

// Metric is a named figure quoted by a narrative.
type Metric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Narrative is a short plain-language account of a plan.
type Narrative struct {
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets"`
	Metrics   []Metric `json:"metrics"`
	Warnings  []string `json:"warnings"`
	NextSteps []string `json:"next_steps"`
}

// NarrativeContext carries what a narrative needs beyond the plan itself.
type NarrativeContext struct {
	MissingGains    bool // No realized gain/loss rows were provided.
	HealthOverrides bool // Blocking health issues were acknowledged.
	Options         harvest.TLHOptions
	IndexName       string
	Screens         []string
}

func baseWarnings(ctx NarrativeContext) []string {
	w := []string{
		"Account-only wash-sale guard; trades in other accounts may still disallow losses.",
		"This narrative is informational, not tax advice.",
	}
	if ctx.MissingGains {
		w = append(w, "Realized gains report missing; the plan assumes no realized gains this year.")
	}
	if ctx.HealthOverrides {
		w = append(w, "Data health issues were acknowledged; review the inputs before trading.")
	}
	return w
}

func warningStrings(warnings []harvest.Warning) []string {
	res := make([]string, 0, len(warnings))
	for _, w := range warnings {
		res = append(res, w.String())
	}
	return res
}

// HarvestNarrative explains a tax-loss harvesting proposal.
func HarvestNarrative(res harvest.TLHResult, p harvest.HarvestProposal, ctx NarrativeContext) Narrative {
	opts := ctx.Options
	goal := strings.ReplaceAll(res.Budget.Goal.String(), "_", " ")
	n := Narrative{
		Title: "Tax-Loss Harvesting Plan",
		Metrics: []Metric{
			{"Expected realized loss", p.ExpectedLoss.SignedString()},
			{"Loss threshold", opts.MinLoss.String()},
			{"Loss % threshold", opts.MinLossPercent.String()},
			{"Loss budget remaining", res.Budget.Remaining.String()},
		},
		Bullets: []string{
			"Objective: harvest losses while keeping the exposure of the account.",
			fmt.Sprintf("Candidates lost at least %s or %s of their basis.", opts.MinLoss, opts.MinLossPercent),
			fmt.Sprintf("Goal is to %s; %d lot(s) selected, %d not needed.", goal, len(res.Candidates), res.Budget.Dropped),
			"Short-term losses come first, they offset gains taxed at the higher rate.",
			"Replacements come from the same sector when known, generic index funds otherwise.",
			"The wash-sale guard only sees the trades of this account.",
		},
		NextSteps: []string{
			"Review the sells and the replacement buys against your cash needs and constraints.",
			"Enter specific-lot orders at your broker, nothing is executed for you.",
			"Load a fresh snapshot once the trades settle to refresh the plan.",
		},
	}
	n.Warnings = append(baseWarnings(ctx), warningStrings(p.Warnings)...)
	return n
}

// WithdrawalNarrative explains a withdrawal plan.
func WithdrawalNarrative(plan harvest.WithdrawalPlan, ctx NarrativeContext) Narrative {
	n := Narrative{
		Title: "Withdrawal Plan",
		Metrics: []Metric{
			{"Cash available", plan.CashAvailable.String()},
			{"Needed from sales", plan.NeededFromSales.String()},
			{"Total proceeds", plan.Sell.Proceeds.String()},
			{"Estimated tax", plan.Sell.EstimatedTax.SignedString()},
		},
		Bullets: []string{
			"Objective: raise the requested cash with the least tax.",
			"Cash equivalents are used first; sales only cover the rest plus the buffer.",
			"Lots are sold losses first, then long-term gains with the highest basis, short-term gains last.",
			"Lots without an acquisition date are never sold.",
			"Drift notes compare each symbol's share of the sales with its weight in the account.",
		},
		NextSteps: []string{
			"Execute the sell checklist with specific-lot instructions.",
			"Confirm the proceeds cover the withdrawal and the buffer before transferring cash.",
			"Load a fresh snapshot after settlement to refresh balances and drift.",
		},
	}
	n.Warnings = append(baseWarnings(ctx), warningStrings(plan.Sell.Warnings)...)
	return n
}

// TransitionNarrative explains a transition plan.
func TransitionNarrative(plan harvest.TransitionPlan, ctx NarrativeContext) Narrative {
	index := ctx.IndexName
	if index == "" {
		index = "target"
	}
	screens := "none"
	if len(ctx.Screens) > 0 {
		screens = strings.Join(ctx.Screens, ", ")
	}
	n := Narrative{
		Title: "Transition Plan",
		Metrics: []Metric{
			{"Allocation", plan.Allocation.String()},
			{"Cash used", plan.CashUsed.String()},
			{"From sales", plan.NeededFromSales.String()},
			{"Estimated tax", plan.Sell.EstimatedTax.SignedString()},
		},
		Bullets: []string{
			fmt.Sprintf("Objective: fund a %s allocation into the %s basket.", plan.Allocation, strings.ToUpper(index)),
			fmt.Sprintf("Cash equivalents covered %s before any sale.", plan.CashUsed),
			"Sales follow the withdrawal ordering: losses first, short-term gains last.",
			"Buy amounts come from the basket weights; shares are estimated when a price is known.",
			fmt.Sprintf("Screens in effect: %s.", screens),
			"Weights drift if prices move before execution; rerun after the trades settle.",
		},
		NextSteps: []string{
			"Execute the sells first with specific-lot instructions.",
			"Enter the buys once the cash has settled.",
			"Load a fresh snapshot to confirm the allocation.",
		},
	}
	n.Warnings = append(baseWarnings(NarrativeContext{MissingGains: ctx.MissingGains}), warningStrings(plan.Sell.Warnings)...)
	n.Warnings = append(n.Warnings, warningStrings(plan.Warnings)...)
	return n
}

// Markdown renders the narrative.
func (n Narrative) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "| Metric | Value |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, m := range n.Metrics {
			fmt.Fprintf(w, "| %s | %s |\n", cell(m.Name), cell(m.Value))
		}
		fmt.Fprintln(w)
		return len(n.Metrics) > 0
	})
	list := func(title string, items []string) {
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "## %s\n\n", title)
			for _, it := range items {
				fmt.Fprintf(w, "- %s\n", it)
			}
			fmt.Fprintln(w)
			return len(items) > 0
		})
	}
	list("Rationale", n.Bullets)
	list("Warnings", n.Warnings)
	list("Next Steps", n.NextSteps)
	return b.String()
}
