package harvest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeDrift(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAPL", Quantity: Q(10), MarketValue: ptr(USD(6000))},
		{Symbol: "MSFT", Quantity: Q(10), Price: ptr(USD(300))},
		{Symbol: "TSLA", Quantity: Q(10), MarketValue: ptr(USD(1000))},
		{Symbol: "SPAXX", Quantity: Q(5000), MarketValue: ptr(USD(5000)), IsCashEquivalent: true},
		{Symbol: "NOPE", Quantity: Q(3)},
	}
	basket := []TargetBasketEntry{
		{Symbol: "AAPL", Weight: d(0.5), Sector: "Technology"},
		{Symbol: "MSFT", Weight: d(0.3), Sector: "Technology"},
		{Symbol: "JPM", Weight: d(0.2), Sector: "Financials"},
	}
	r := ComputeDrift(holdings, basket)

	if !r.TotalValue.Equal(USD(10000)) {
		t.Errorf("TotalValue = %v, want $10,000", r.TotalValue)
	}
	got := map[string]float64{}
	for _, e := range r.Entries {
		got[e.Symbol] = e.Drift.InexactFloat64()
	}
	want := map[string]float64{"AAPL": 0.1, "MSFT": 0, "JPM": -0.2, "TSLA": 0.1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("drift mismatch (-want +got):\n%s", diff)
	}
	if !r.TotalAbsDrift.Equal(d(0.4)) {
		t.Errorf("TotalAbsDrift = %s, want 0.4", r.TotalAbsDrift)
	}
	if !r.MaxAbsDrift.Equal(d(0.2)) {
		t.Errorf("MaxAbsDrift = %s, want 0.2", r.MaxAbsDrift)
	}
	if len(r.Overweights) != 2 || r.Overweights[0].Symbol != "AAPL" {
		t.Errorf("Overweights = %v, want AAPL then TSLA", r.Overweights)
	}
	if len(r.Underweights) != 1 || r.Underweights[0].Symbol != "JPM" {
		t.Errorf("Underweights = %v, want JPM", r.Underweights)
	}
	if len(r.Warnings) != 1 || r.Warnings[0].Kind != MissingValue || r.Warnings[0].Symbol != "NOPE" {
		t.Errorf("Warnings = %v, want a missing value on NOPE", r.Warnings)
	}
	penalties := r.Penalties()
	if len(penalties) != 2 || !penalties["TSLA"].Equal(d(0.1)) {
		t.Errorf("Penalties() = %v, want AAPL and TSLA at 0.1", penalties)
	}

	sectors := map[string]float64{}
	for _, s := range r.Sectors {
		sectors[s.Sector] = s.Drift.InexactFloat64()
	}
	wantSectors := map[string]float64{"Technology": 0.1, "Financials": -0.2, Unclassified: 0.1}
	if diff := cmp.Diff(wantSectors, sectors); diff != "" {
		t.Errorf("sector drift mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeDrift_Empty(t *testing.T) {
	r := ComputeDrift(nil, nil)
	if len(r.Entries) != 0 || !r.TotalAbsDrift.IsZero() {
		t.Errorf("ComputeDrift(nil, nil) = %+v, want an empty report", r)
	}
}
