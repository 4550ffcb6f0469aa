package harvest

import (
	"testing"

	"github.com/etnz/harvest/date"
)

func TestBuildHarvestProposal(t *testing.T) {
	candidates := []TLHCandidate{
		{
			Lot:   TaxLot{ID: "l1", Symbol: "AAPL", Acquired: date.New(2023, 1, 1), Quantity: Q(100)},
			Value: USD(12000),
			Gain:  USD(-3000),
			Term:  LongTerm,
			Notes: []string{"wash-sale risk: buy on 2025-06-01 within 30-day window"},
		},
	}
	p := BuildHarvestProposal(candidates, SectorMap{"AAPL": "Technology"})
	if len(p.Sells) != 1 || p.Sells[0].Side != Sell || !p.Sells[0].Quantity.Equal(Q(100)) {
		t.Errorf("Sells = %+v, want a sale of the 100 shares", p.Sells)
	}
	if len(p.Buys) != 3 {
		t.Fatalf("Buys = %+v, want 3", p.Buys)
	}
	for _, b := range p.Buys {
		if !b.Amount.Equal(USD(4000)) {
			t.Errorf("buy %s amount = %v, want $4,000", b.Symbol, b.Amount)
		}
	}
	if p.Buys[0].Symbol != "XLK" {
		t.Errorf("first replacement = %s, want XLK", p.Buys[0].Symbol)
	}
	if !p.ExpectedLoss.Equal(USD(3000)) {
		t.Errorf("ExpectedLoss = %v, want $3,000", p.ExpectedLoss)
	}
	if len(p.Notes) != 1 || len(p.Disclaimers) != 2 {
		t.Errorf("Notes = %v Disclaimers = %v", p.Notes, p.Disclaimers)
	}
}
