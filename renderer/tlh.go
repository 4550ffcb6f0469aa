package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/harvest"
	md "github.com/nao1215/markdown"
)

// TLHMarkdown renders the ranked tax-loss harvesting candidates and the loss budget.
func TLHMarkdown(res harvest.TLHResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Tax-Loss Harvesting Candidates")

	b := res.Budget
	budget := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Loss Budget", ""},
		Rows: [][]string{
			{"Goal", strings.ReplaceAll(b.Goal.String(), "_", " ")},
			{"Gains to offset", b.Target.String()},
			{"Projected loss", b.Projected.String()},
			{"Remaining", b.Remaining.String()},
			{"Met", yesNo(b.Met)},
		},
	}
	if b.Dropped > 0 {
		budget.Rows = append(budget.Rows, []string{"Not needed", fmt.Sprintf("%d lot(s)", b.Dropped)})
	}
	doc.Table(budget)

	if len(res.Candidates) == 0 {
		doc.PlainText("No lot meets the harvesting thresholds.")
	} else {
		doc.H2("Candidates")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft,
				md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
				md.AlignLeft, md.AlignLeft,
			},
			Header: []string{"#", "Symbol", "Lot", "Acquired", "Term", "Quantity", "Basis", "Value", "Loss", "Loss %", "Wash Sale", "Notes"},
			Rows:   [][]string{},
		}
		for _, c := range res.Candidates {
			wash := "-"
			if c.WashSale.Risk {
				wash = md.Bold("risk")
			}
			table.Rows = append(table.Rows, []string{
				fmt.Sprint(c.Rank),
				c.Lot.Symbol,
				cell(c.Lot.ID),
				c.Lot.Acquired.String(),
				c.Term.String(),
				c.Lot.Quantity.String(),
				c.Basis.String(),
				c.Value.String(),
				c.Gain.SignedString(),
				c.LossPercent.String(),
				wash,
				cell(strings.Join(c.Notes, "; ")),
			})
		}
		doc.Table(table)
		doc.PlainText(fmt.Sprintf("Total harvestable loss: %s", md.Bold(res.TotalLoss.String())))
	}

	warningsSection(doc, res.Warnings)
	disclaimersSection(doc, res.Disclaimer)
	return doc.String()
}

// ProposalMarkdown renders a harvest proposal: the sells and the replacement buys.
func ProposalMarkdown(p harvest.HarvestProposal) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Harvest Proposal")
	doc.PlainText(fmt.Sprintf("Expected realized loss: %s", md.Bold(p.ExpectedLoss.SignedString())))

	if len(p.Sells) > 0 {
		doc.H2("Sells")
		doc.Table(ordersTable(p.Sells))
	}
	if len(p.Buys) > 0 {
		doc.H2("Replacement Buys")
		doc.Table(ordersTable(p.Buys))
	}
	if len(p.Replacements) > 0 {
		doc.H2("Replacement Baskets")
		var lines []string
		for _, r := range p.Replacements {
			line := fmt.Sprintf("%s: %s (%s)", r.Symbol, strings.Join(r.Symbols, ", "), r.Basis)
			if r.Sector != "" {
				line = fmt.Sprintf("%s: %s (%s, %s)", r.Symbol, strings.Join(r.Symbols, ", "), r.Basis, r.Sector)
			}
			lines = append(lines, line)
		}
		doc.BulletList(lines...)
	}
	if len(p.Notes) > 0 {
		doc.H2("Notes")
		doc.BulletList(p.Notes...)
	}
	warningsSection(doc, p.Warnings)
	disclaimersSection(doc, p.Disclaimers...)
	return doc.String()
}

func ordersTable(orders []harvest.Order) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft,
		},
		Header: []string{"Side", "Symbol", "Lot", "Quantity", "Amount", "Rationale"},
		Rows:   [][]string{},
	}
	for _, o := range orders {
		table.Rows = append(table.Rows, []string{
			o.Side.String(),
			o.Symbol,
			cell(o.LotID),
			optionalQuantity(o.Quantity),
			optionalMoney(o.Amount),
			cell(o.Rationale),
		})
	}
	return table
}
