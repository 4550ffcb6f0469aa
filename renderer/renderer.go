// Package renderer formats harvest plans for people: markdown reports,
// deterministic narratives and CSV order checklists.
//
// Renderers are pure functions of their input, the same plan always renders
// to the same bytes.
package renderer

import (
	"strings"

	"github.com/etnz/harvest"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// weight formats a fraction as a percentage.
func weight(d decimal.Decimal) string { return d.Shift(2).StringFixed(2) + "%" }

// signedWeight formats a fraction as a signed percentage, zero is "-".
func signedWeight(d decimal.Decimal) string {
	switch {
	case d.IsZero():
		return "-"
	case d.IsPositive():
		return "+" + weight(d)
	}
	return weight(d)
}

func optionalMoney(m *harvest.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}

func optionalQuantity(q *harvest.Quantity) string {
	if q == nil {
		return ""
	}
	return q.String()
}

// cell escapes the characters that would break a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func warningsSection(doc *md.Markdown, warnings []harvest.Warning) {
	if len(warnings) == 0 {
		return
	}
	doc.H2("Warnings")
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.String())
	}
	doc.BulletList(lines...)
}

func disclaimersSection(doc *md.Markdown, disclaimers ...string) {
	var lines []string
	for _, d := range disclaimers {
		if d != "" {
			lines = append(lines, md.Italic(d))
		}
	}
	if len(lines) == 0 {
		return
	}
	doc.H2("Disclaimers")
	doc.BulletList(lines...)
}

// sellTable renders the lots of a sell plan in selling order.
func sellTable(doc *md.Markdown, items []harvest.SellPlanItem) {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Symbol", "Lot", "Acquired", "Term", "Quantity", "Proceeds", "Basis", "Gain / Loss", "Est. Tax", "Rationale"},
		Rows:   [][]string{},
	}
	for _, it := range items {
		qty := it.Quantity.String()
		if it.Partial {
			qty += " (partial)"
		}
		table.Rows = append(table.Rows, []string{
			it.Lot.Symbol,
			cell(it.Lot.ID),
			it.Lot.Acquired.String(),
			it.Term.String(),
			qty,
			it.Proceeds.String(),
			it.Basis.String(),
			it.Gain.SignedString(),
			it.EstimatedTax.SignedString(),
			cell(it.Rationale),
		})
	}
	doc.Table(table)
}

// sellSummary renders the totals of a sell plan.
func sellSummary(plan harvest.SellPlan) md.TableSet {
	rows := [][]string{
		{"Proceeds", plan.Proceeds.String()},
		{"Realized short-term", plan.RealizedShortTerm.SignedString()},
		{"Realized long-term", plan.RealizedLongTerm.SignedString()},
		{"Estimated tax", plan.EstimatedTax.SignedString()},
	}
	if plan.Shortfall.IsPositive() {
		rows = append(rows, []string{md.Bold("Shortfall"), md.Bold(plan.Shortfall.String())})
	}
	return md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Sales", ""},
		Rows:      rows,
	}
}
