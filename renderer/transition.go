package renderer

import (
	"bytes"
	"slices"

	"github.com/etnz/harvest"
	md "github.com/nao1215/markdown"
)

// TransitionMarkdown renders a transition plan: the sells that fund it and
// the buys into the target basket.
func TransitionMarkdown(plan harvest.TransitionPlan) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transition Plan")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Allocation"), md.Bold(plan.Allocation.String())},
		Rows: [][]string{
			{"Buffer", plan.Buffer.String()},
			{"Cash available", plan.CashAvailable.String()},
			{"Cash used", plan.CashUsed.String()},
			{"Needed from sales", plan.NeededFromSales.String()},
		},
	})

	if len(plan.Sell.Items) > 0 {
		doc.H2("Sells")
		sellTable(doc, plan.Sell.Items)
		doc.Table(sellSummary(plan.Sell))
	}

	if len(plan.Buys) > 0 {
		doc.H2("Buys")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Symbol", "Weight", "Amount", "Price", "Est. Shares"},
			Rows:      [][]string{},
		}
		for _, b := range plan.Buys {
			table.Rows = append(table.Rows, []string{
				b.Symbol,
				weight(b.Weight),
				b.Amount.String(),
				optionalMoney(b.Price),
				optionalQuantity(b.Shares),
			})
		}
		doc.Table(table)
	}

	if len(plan.DriftNotes) > 0 {
		doc.H2("Drift")
		var lines []string
		for _, d := range plan.DriftNotes {
			lines = append(lines, d.String())
		}
		doc.BulletList(lines...)
	}
	warningsSection(doc, slices.Concat(plan.Sell.Warnings, plan.Warnings))
	return doc.String()
}
