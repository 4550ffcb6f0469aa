package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/harvest"
	md "github.com/nao1215/markdown"
)

// BasketMarkdown renders a target basket with the filters that shaped it.
func BasketMarkdown(b harvest.Basket) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Target Basket")

	if len(b.Steps) > 0 {
		doc.H2("Construction")
		steps := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Step", "Removed", "Weight Removed", "Symbols"},
			Rows:      [][]string{},
		}
		for _, s := range b.Steps {
			steps.Rows = append(steps.Rows, []string{
				s.Name,
				fmt.Sprint(len(s.Removed)),
				weight(s.Fraction),
				cell(abbreviate(s.Removed, 8)),
			})
		}
		doc.Table(steps)
	}

	doc.H2(fmt.Sprintf("Holdings (%d)", len(b.Entries)))
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Symbol", "Weight", "Sector"},
		Rows:      [][]string{},
	}
	for _, e := range b.Entries {
		table.Rows = append(table.Rows, []string{e.Symbol, weight(e.Weight), e.Sector})
	}
	doc.Table(table)
	warningsSection(doc, b.Warnings)
	return doc.String()
}

// DriftMarkdown renders the drift of the account against a target basket.
func DriftMarkdown(r harvest.DriftReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Drift Report")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Value"), md.Bold(r.TotalValue.String())},
		Rows: [][]string{
			{"Total drift", weight(r.TotalAbsDrift)},
			{"Max drift", weight(r.MaxAbsDrift)},
		},
	})

	if len(r.Sectors) > 0 {
		doc.H2("Sectors")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Sector", "Current", "Target", "Drift"},
			Rows:      [][]string{},
		}
		for _, s := range r.Sectors {
			table.Rows = append(table.Rows, []string{s.Sector, weight(s.Current), weight(s.Target), signedWeight(s.Drift)})
		}
		doc.Table(table)
	}

	movers := func(title string, entries []harvest.DriftEntry) {
		if len(entries) == 0 {
			return
		}
		doc.H2(title)
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Symbol", "Sector", "Value", "Current", "Target", "Drift"},
			Rows:      [][]string{},
		}
		for _, e := range entries {
			table.Rows = append(table.Rows, []string{
				e.Symbol, e.Sector, e.Value.String(), weight(e.Current), weight(e.Target), signedWeight(e.Drift),
			})
		}
		doc.Table(table)
	}
	movers("Overweights", r.Overweights)
	movers("Underweights", r.Underweights)

	warningsSection(doc, r.Warnings)
	return doc.String()
}

// abbreviate lists the first n symbols.
func abbreviate(symbols []string, n int) string {
	if len(symbols) <= n {
		return strings.Join(symbols, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(symbols[:n], ", "), len(symbols)-n)
}
