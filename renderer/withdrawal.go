package renderer

import (
	"bytes"

	"github.com/etnz/harvest"
	md "github.com/nao1215/markdown"
)

// WithdrawalMarkdown renders a withdrawal plan.
func WithdrawalMarkdown(plan harvest.WithdrawalPlan) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Withdrawal Plan")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Requested"), md.Bold(plan.Requested.String())},
		Rows: [][]string{
			{"Buffer", plan.Buffer.String()},
			{"Cash available", plan.CashAvailable.String()},
			{"Needed from sales", plan.NeededFromSales.String()},
		},
	})

	if len(plan.Sell.Items) > 0 {
		doc.H2("Sells")
		sellTable(doc, plan.Sell.Items)
		doc.Table(sellSummary(plan.Sell))
	}
	if len(plan.DriftNotes) > 0 {
		doc.H2("Drift")
		var lines []string
		for _, d := range plan.DriftNotes {
			lines = append(lines, d.String())
		}
		doc.BulletList(lines...)
	}
	if len(plan.Notes) > 0 {
		doc.H2("Notes")
		doc.BulletList(plan.Notes...)
	}
	warningsSection(doc, plan.Sell.Warnings)
	return doc.String()
}
