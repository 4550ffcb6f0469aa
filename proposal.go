package harvest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is a line of the order checklist handed to the user. Harvesting and
// liquidation sells carry a quantity, replacement buys carry an amount.
type Order struct {
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	LotID     string    `json:"lot_id,omitempty"`
	Quantity  *Quantity `json:"quantity,omitempty"`
	Amount    *Money    `json:"amount,omitempty"`
	Rationale string    `json:"rationale"`
}

// HarvestProposal is the order checklist to harvest the selected candidates
// and keep the market exposure.
type HarvestProposal struct {
	Sells        []Order        `json:"sells"`
	Buys         []Order        `json:"buys"`
	Replacements []Replacements `json:"replacements"`
	ExpectedLoss Money          `json:"expected_loss"`
	Notes        []string       `json:"notes,omitempty"`
	Warnings     []Warning      `json:"warnings,omitempty"`
	Disclaimers  []string       `json:"disclaimers"`
}

// BuildHarvestProposal sells every candidate lot and spreads its market
// value equally over the suggested replacements.
func BuildHarvestProposal(candidates []TLHCandidate, sectors SectorMap) HarvestProposal {
	p := HarvestProposal{
		Sells:       []Order{},
		Buys:        []Order{},
		Disclaimers: []string{WashSaleDisclaimer, ReplacementDisclaimer},
	}
	suggested := make(map[string]Replacements)
	for _, c := range candidates {
		symbol := NormalizeSymbol(c.Lot.Symbol)
		q := c.Lot.Quantity
		p.Sells = append(p.Sells, Order{
			Symbol:    symbol,
			Side:      Sell,
			LotID:     c.Lot.ID,
			Quantity:  &q,
			Rationale: fmt.Sprintf("harvest %s %s loss from lot %s", c.Loss(), c.Term, c.Lot.ID),
		})
		p.ExpectedLoss = p.ExpectedLoss.Add(c.Loss())
		for _, n := range c.Notes {
			p.Notes = append(p.Notes, symbol+": "+n)
		}

		r, ok := suggested[symbol]
		if !ok {
			r = SuggestReplacements(symbol, sectors)
			suggested[symbol] = r
			p.Replacements = append(p.Replacements, r)
		}
		if len(r.Symbols) == 0 {
			p.Warnings = append(p.Warnings, warnf(MissingValue, symbol, "no replacement found"))
			continue
		}
		share := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(r.Symbols))))
		amount := c.Value.Scale(share).Round()
		for _, s := range r.Symbols {
			a := amount
			p.Buys = append(p.Buys, Order{
				Symbol:    s,
				Side:      Buy,
				Amount:    &a,
				Rationale: fmt.Sprintf("%s proxy for %s", r.Basis, symbol),
			})
		}
	}
	return p
}

// Orders returns the sell orders of the plan in execution order.
func (p SellPlan) Orders() []Order {
	res := make([]Order, 0, len(p.Items))
	for _, it := range p.Items {
		q := it.Quantity
		res = append(res, Order{
			Symbol:    it.Lot.Symbol,
			Side:      Sell,
			LotID:     it.Lot.ID,
			Quantity:  &q,
			Rationale: it.Rationale,
		})
	}
	return res
}
