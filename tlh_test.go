package harvest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/etnz/harvest/date"
	"github.com/google/go-cmp/cmp"
)

var asOf = date.New(2025, 6, 30)

func TestScoreTLHCandidates_SingleLot(t *testing.T) {
	req := TLHRequest{
		Lots: []TaxLot{{ID: "aapl-1", Symbol: "AAPL", Acquired: date.New(2023, 1, 10), Quantity: Q(100),
			CostBasis: ptr(USD(15000)), CurrentValue: ptr(USD(12000))}},
		AsOf: asOf,
	}
	opts := DefaultTLHOptions()
	opts.MinLoss = USD(1000)
	opts.Goal = HarvestOpportunistically

	res, err := ScoreTLHCandidates(req, opts)
	if err != nil {
		t.Fatalf("ScoreTLHCandidates() error = %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("ScoreTLHCandidates() = %d candidates, want 1", len(res.Candidates))
	}
	c := res.Candidates[0]
	if c.Lot.Symbol != "AAPL" || c.Rank != 1 {
		t.Errorf("candidate = %s ranked %d, want AAPL ranked 1", c.Lot.Symbol, c.Rank)
	}
	if want := USD(3000); !c.Loss().Equal(want) {
		t.Errorf("Loss() = %v, want %v", c.Loss(), want)
	}
	if !c.LossPercent.Equal(20) {
		t.Errorf("LossPercent = %v, want 20%%", c.LossPercent)
	}
	if c.Term != LongTerm {
		t.Errorf("Term = %v, want LT", c.Term)
	}
	if res.Disclaimer != WashSaleDisclaimer {
		t.Errorf("Disclaimer = %q, want the wash-sale disclaimer", res.Disclaimer)
	}
}

func TestScoreTLHCandidates_Thresholds(t *testing.T) {
	lots := []TaxLot{
		// $600 loss, 6%: both thresholds met
		{ID: "a", Symbol: "AAA", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(10000)), CurrentValue: ptr(USD(9400))},
		// $100 loss, 20%: percent threshold only
		{ID: "b", Symbol: "BBB", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(500)), CurrentValue: ptr(USD(400))},
		// $600 loss, 1%: dollar threshold only
		{ID: "c", Symbol: "CCC", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(60000)), CurrentValue: ptr(USD(59400))},
		// $100 loss, 1%: below both
		{ID: "d", Symbol: "DDD", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(10000)), CurrentValue: ptr(USD(9900))},
		// gain
		{ID: "e", Symbol: "EEE", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(100)), CurrentValue: ptr(USD(900))},
	}
	opts := DefaultTLHOptions()
	opts.Goal = HarvestOpportunistically
	res, err := ScoreTLHCandidates(TLHRequest{Lots: lots, AsOf: asOf}, opts)
	if err != nil {
		t.Fatalf("ScoreTLHCandidates() error = %v", err)
	}
	var got []string
	for _, c := range res.Candidates {
		got = append(got, c.Lot.ID)
	}
	// ranked by loss desc, then loss percent desc
	want := []string{"a", "c", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScoreTLHCandidates() mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreTLHCandidates_Ranking(t *testing.T) {
	lots := []TaxLot{
		{ID: "lt-big", Symbol: "AAA", Acquired: date.New(2023, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(10000)), CurrentValue: ptr(USD(7000))},
		{ID: "st-small", Symbol: "BBB", Acquired: date.New(2025, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(10000)), CurrentValue: ptr(USD(9000))},
		{ID: "st-tie-late", Symbol: "CCC", Acquired: date.New(2025, 2, 1), Quantity: Q(10), CostBasis: ptr(USD(10000)), CurrentValue: ptr(USD(9000))},
	}
	tests := []struct {
		name    string
		pref    TermPreference
		summary RealizedSummary
		want    []string
	}{
		{"auto without short-term gains", AutoTerm, RealizedSummary{LongTerm: USD(1000)}, []string{"lt-big", "st-small", "st-tie-late"}},
		{"auto with short-term gains", AutoTerm, RealizedSummary{ShortTerm: USD(1000)}, []string{"st-small", "st-tie-late", "lt-big"}},
		{"prefer short", PreferShortTerm, RealizedSummary{}, []string{"st-small", "st-tie-late", "lt-big"}},
		{"neutral", NeutralTerm, RealizedSummary{ShortTerm: USD(1000)}, []string{"lt-big", "st-small", "st-tie-late"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultTLHOptions()
			opts.Goal = HarvestOpportunistically
			opts.TermPreference = tt.pref
			res, err := ScoreTLHCandidates(TLHRequest{Lots: lots, Summary: tt.summary, AsOf: asOf}, opts)
			if err != nil {
				t.Fatalf("ScoreTLHCandidates() error = %v", err)
			}
			var got []string
			for i, c := range res.Candidates {
				got = append(got, c.Lot.ID)
				if c.Rank != i+1 {
					t.Errorf("candidate %s Rank = %d, want %d", c.Lot.ID, c.Rank, i+1)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ranking mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScoreTLHCandidates_Annotations(t *testing.T) {
	lots := []TaxLot{
		// 350 days held
		{ID: "near", Symbol: "AAA", Acquired: asOf.Add(-350), Quantity: Q(10), CostBasis: ptr(USD(2000))},
		{ID: "washed", Symbol: "BBB", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(2000)), CurrentPrice: ptr(USD(100))},
		{ID: "unpriced", Symbol: "CCC", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(2000))},
		{ID: "cash", Symbol: "SPAXX", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(2000))},
	}
	req := TLHRequest{
		Lots:   lots,
		Prices: Prices{"AAA": USD(100), "SPAXX": USD(1)},
		Trades: []Trade{{Symbol: "BBB", Date: asOf.Add(-5), Quantity: Q(1), Side: Buy}},
		AsOf:   asOf,
	}
	opts := DefaultTLHOptions()
	opts.Goal = HarvestOpportunistically
	res, err := ScoreTLHCandidates(req, opts)
	if err != nil {
		t.Fatalf("ScoreTLHCandidates() error = %v", err)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("ScoreTLHCandidates() = %d candidates, want 2", len(res.Candidates))
	}
	byID := map[string]TLHCandidate{}
	for _, c := range res.Candidates {
		byID[c.Lot.ID] = c
	}
	near := byID["near"]
	if near.Term != ShortTerm || !near.NearLongTerm || near.DaysToLongTerm != 15 {
		t.Errorf("near lot = %v near=%v days=%d, want ST near long-term in 15 days", near.Term, near.NearLongTerm, near.DaysToLongTerm)
	}
	if !near.Value.Equal(USD(1000)) {
		t.Errorf("near lot Value = %v, want $1,000 from the price table", near.Value)
	}
	washed := byID["washed"]
	if !washed.WashSale.Risk {
		t.Errorf("washed lot should carry a wash-sale risk")
	}
	if !washed.Value.Equal(USD(1000)) {
		t.Errorf("washed lot Value = %v, want $1,000 from the lot price", washed.Value)
	}

	var missing, washWarn bool
	for _, w := range res.Warnings {
		missing = missing || (w.Kind == MissingPrice && w.Symbol == "CCC")
		washWarn = washWarn || (w.Kind == WashSaleRisk && w.Symbol == "BBB")
	}
	if !missing || !washWarn {
		t.Errorf("Warnings = %v, want a missing price on CCC and a wash-sale risk on BBB", res.Warnings)
	}
}

func TestScoreTLHCandidates_BudgetAndMax(t *testing.T) {
	var lots []TaxLot
	for i, id := range []string{"a", "b", "c", "d"} {
		lots = append(lots, TaxLot{ID: id, Symbol: "AAA", Acquired: date.New(2023, 1, 1+i), Quantity: Q(10),
			CostBasis: ptr(USD(10000)), CurrentValue: ptr(USD(9000))})
	}
	opts := DefaultTLHOptions()
	opts.MaxCandidates = 2
	res, err := ScoreTLHCandidates(TLHRequest{Lots: lots, Summary: RealizedSummary{LongTerm: USD(2500)}, AsOf: asOf}, opts)
	if err != nil {
		t.Fatalf("ScoreTLHCandidates() error = %v", err)
	}
	// threshold 2450 needs three $1,000 losses, then truncated to two
	if len(res.Candidates) != 2 {
		t.Errorf("ScoreTLHCandidates() = %d candidates, want 2", len(res.Candidates))
	}
	if res.Budget.Dropped != 1 || !res.Budget.Met {
		t.Errorf("Budget = %+v, want one dropped and met", res.Budget)
	}
}

// Without realized gains the default goal still lists the losses.
func TestScoreTLHCandidates_DefaultGoalWithoutGains(t *testing.T) {
	req := TLHRequest{
		Lots: []TaxLot{{ID: "aapl-1", Symbol: "AAPL", Acquired: date.New(2023, 1, 10), Quantity: Q(100),
			CostBasis: ptr(USD(15000)), CurrentValue: ptr(USD(12000))}},
		AsOf: asOf,
	}
	opts := DefaultTLHOptions()
	opts.MinLoss = USD(1000)

	res, err := ScoreTLHCandidates(req, opts)
	if err != nil {
		t.Fatalf("ScoreTLHCandidates() error = %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("ScoreTLHCandidates() = %d candidates, want 1", len(res.Candidates))
	}
	if c := res.Candidates[0]; c.Lot.Symbol != "AAPL" || c.Rank != 1 {
		t.Errorf("candidate = %s ranked %d, want AAPL ranked 1", c.Lot.Symbol, c.Rank)
	}
	if res.Budget.Met || !res.Budget.Target.IsZero() {
		t.Errorf("Budget = %+v, want a zero target not met", res.Budget)
	}
	if !res.TotalLoss.Equal(USD(3000)) {
		t.Errorf("TotalLoss = %v, want $3,000", res.TotalLoss)
	}
	var noGains bool
	for _, w := range res.Warnings {
		noGains = noGains || w.Kind == NoGains
	}
	if !noGains {
		t.Errorf("Warnings = %v, want a no gains warning", res.Warnings)
	}
}

func TestScoreTLHCandidates_ZeroPrice(t *testing.T) {
	holdings := []Holding{{Symbol: "XYZ", Quantity: Q(10), Price: ptr(USD(0))}}
	req := TLHRequest{
		Lots:   []TaxLot{{ID: "xyz-1", Symbol: "XYZ", Acquired: date.New(2024, 1, 1), Quantity: Q(10), CostBasis: ptr(USD(1000))}},
		Prices: Prices{"XYZ": USD(0)},
		AsOf:   asOf,
	}
	opts := DefaultTLHOptions()
	opts.Goal = HarvestOpportunistically

	for name, tc := range map[string]TLHRequest{
		"price table": req,
		"lot price":   {Lots: []TaxLot{{ID: "xyz-1", Symbol: "XYZ", Quantity: Q(10), CostBasis: ptr(USD(1000)), CurrentPrice: ptr(USD(0))}}, AsOf: asOf},
		"lot value":   {Lots: []TaxLot{{ID: "xyz-1", Symbol: "XYZ", Quantity: Q(10), CostBasis: ptr(USD(1000)), CurrentValue: ptr(USD(0))}}, AsOf: asOf},
		"holdings":    {Lots: req.Lots, Prices: PricesFromHoldings(holdings), AsOf: asOf},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := ScoreTLHCandidates(tc, opts)
			if err != nil {
				t.Fatalf("ScoreTLHCandidates() error = %v", err)
			}
			if len(res.Candidates) != 0 {
				t.Errorf("ScoreTLHCandidates() = %v, want no candidate for a zero price", res.Candidates)
			}
			if len(res.Warnings) != 1 || res.Warnings[0].Kind != MissingPrice || res.Warnings[0].Symbol != "XYZ" {
				t.Errorf("Warnings = %v, want a missing price on XYZ", res.Warnings)
			}
		})
	}
}

func TestScoreTLHCandidates_OpportunisticUncapped(t *testing.T) {
	var lots []TaxLot
	for i := range 12 {
		lots = append(lots, TaxLot{ID: fmt.Sprintf("lot-%02d", i), Symbol: "AAA", Acquired: date.New(2023, 1, 1+i), Quantity: Q(10),
			CostBasis: ptr(USD(10000)), CurrentValue: ptr(USD(9000 - 100*i))})
	}
	opts := DefaultTLHOptions()
	opts.Goal = HarvestOpportunistically
	res, err := ScoreTLHCandidates(TLHRequest{Lots: lots, AsOf: asOf}, opts)
	if err != nil {
		t.Fatalf("ScoreTLHCandidates() error = %v", err)
	}
	if len(res.Candidates) != 12 {
		t.Errorf("ScoreTLHCandidates() = %d candidates, want 12", len(res.Candidates))
	}
	if res.Candidates[0].Lot.ID != "lot-11" {
		t.Errorf("first candidate = %s, want the largest loss lot-11", res.Candidates[0].Lot.ID)
	}
}

func TestScoreTLHCandidates_InvalidOptions(t *testing.T) {
	opts := DefaultTLHOptions()
	opts.MinLoss = USD(-1)
	opts.MaxCandidates = -3
	_, err := ScoreTLHCandidates(TLHRequest{AsOf: asOf}, opts)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("ScoreTLHCandidates() error = %v, want ErrInvalidConfig", err)
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("error %v should contain a *ConfigError", err)
	}
}
