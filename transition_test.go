package harvest

import (
	"testing"
)

func TestPlanTransition(t *testing.T) {
	holdings, lots := withdrawalFixture()
	basket := Basket{Entries: []TargetBasketEntry{
		{Symbol: "VTI", Weight: d(0.6)},
		{Symbol: "VXUS", Weight: d(0.4)},
	}}
	req := TransitionRequest{
		Allocation:    USD(3000),
		BufferPercent: 0,
		UseCashFirst:  true,
		AsOf:          asOf,
	}
	plan, err := PlanTransition(holdings, lots, RealizedSummary{}, basket, Prices{"VTI": USD(300)}, req, DefaultConfig())
	if err != nil {
		t.Fatalf("PlanTransition() error = %v", err)
	}
	if !plan.CashUsed.Equal(USD(1000)) || !plan.NeededFromSales.Equal(USD(2000)) {
		t.Errorf("CashUsed = %v NeededFromSales = %v, want $1,000 and $2,000", plan.CashUsed, plan.NeededFromSales)
	}
	if !plan.Sell.Proceeds.Equal(USD(2000)) || plan.Sell.Items[0].Lot.ID != "st-loss" {
		t.Errorf("Sell = %v for %v, want the short-term loss lot for $2,000", lotIDs(plan.Sell.Items), plan.Sell.Proceeds)
	}
	if len(plan.Buys) != 2 {
		t.Fatalf("Buys = %v, want 2", plan.Buys)
	}
	vti := plan.Buys[0]
	if !vti.Amount.Equal(USD(1800)) || vti.Shares == nil || !vti.Shares.Equal(Q(6)) {
		t.Errorf("VTI buy = %+v, want $1,800 and 6 shares", vti)
	}
	vxus := plan.Buys[1]
	if !vxus.Amount.Equal(USD(1200)) || vxus.Shares != nil {
		t.Errorf("VXUS buy = %+v, want $1,200 without shares", vxus)
	}
	var missing bool
	for _, w := range plan.Warnings {
		missing = missing || (w.Kind == MissingPrice && w.Symbol == "VXUS")
	}
	if !missing {
		t.Errorf("Warnings = %v, want a missing price for VXUS", plan.Warnings)
	}
}

func TestPlanTransition_NoCashFirst(t *testing.T) {
	holdings, lots := withdrawalFixture()
	req := TransitionRequest{Allocation: USD(1000), BufferAmount: ptr(USD(100)), AsOf: asOf}
	plan, err := PlanTransition(holdings, lots, RealizedSummary{}, Basket{}, nil, req, DefaultConfig())
	if err != nil {
		t.Fatalf("PlanTransition() error = %v", err)
	}
	if !plan.NeededFromSales.Equal(USD(1100)) {
		t.Errorf("NeededFromSales = %v, want $1,100", plan.NeededFromSales)
	}
	if len(plan.Buys) != 0 || len(plan.Warnings) != 1 {
		t.Errorf("plan buys %v warnings %v, want an empty basket warning", plan.Buys, plan.Warnings)
	}
}
