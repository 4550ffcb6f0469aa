package harvest

import (
	"errors"
	"testing"

	"github.com/etnz/harvest/date"
)

func TestAnalysis_Gate(t *testing.T) {
	a, err := NewAnalysis(loadSnapshot(t), DefaultConfig(), date.Date{})
	if err != nil {
		t.Fatalf("NewAnalysis() error = %v", err)
	}
	// VTI lots cover 15 of the 20 shares held.
	issues := a.Health().Issues
	if len(issues) != 1 || issues[0].Symbol != "VTI" || issues[0].Kind != QuantityMismatch {
		t.Fatalf("Health().Issues = %v, want a VTI quantity mismatch", issues)
	}

	if _, err := a.Harvest(); !errors.Is(err, ErrBlocked) {
		t.Errorf("Harvest() error = %v, want ErrBlocked", err)
	}
	if _, err := a.Withdraw(USD(1000), Money{}, nil); !errors.Is(err, ErrBlocked) {
		t.Errorf("Withdraw() error = %v, want ErrBlocked", err)
	}

	a.Acknowledge("vti", QuantityMismatch)
	res, err := a.Harvest()
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}
	// realized gains: 2500 ST + 500 LT, the AAPL loss covers them.
	if len(res.Candidates) != 1 || res.Candidates[0].Lot.ID != "aapl-1" {
		t.Fatalf("Harvest() = %v, want the AAPL lot", res.Candidates)
	}
	if !res.Budget.Met {
		t.Errorf("Budget = %+v, want met", res.Budget)
	}

	// AMD and MSFT are the Technology peers of AAPL.
	p := a.Propose(res)
	if len(p.Buys) != 2 || p.Buys[0].Symbol != "AMD" || p.Buys[1].Symbol != "MSFT" {
		t.Errorf("Propose() buys = %v, want AMD and MSFT", p.Buys)
	}
	if p.Replacements[0].Basis != SectorPeers {
		t.Errorf("replacement basis = %v, want sector peers", p.Replacements[0].Basis)
	}
}

func TestAnalysis_Workflows(t *testing.T) {
	a, err := NewAnalysis(loadSnapshot(t), DefaultConfig(), date.Date{})
	if err != nil {
		t.Fatalf("NewAnalysis() error = %v", err)
	}
	a.AcknowledgeAll()

	w, err := a.Withdraw(USD(5000), Money{}, []string{"AAPL"})
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	// 5000 + 1% - 2500 of cash
	if !w.NeededFromSales.Equal(USD(2550)) {
		t.Errorf("NeededFromSales = %v, want $2,550", w.NeededFromSales)
	}
	if !w.Sell.Proceeds.Equal(USD(2550)) {
		t.Errorf("Proceeds = %v, want $2,550", w.Sell.Proceeds)
	}

	tr, err := a.Transition(USD(10000), Money{}, nil)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if len(tr.Buys) != 4 {
		t.Errorf("Buys = %v, want one per basket entry", tr.Buys)
	}

	drift, basket, err := a.Drift()
	if err != nil {
		t.Fatalf("Drift() error = %v", err)
	}
	if len(basket.Entries) != 4 || drift.TotalAbsDrift.IsZero() {
		t.Errorf("Drift() = %s over %d entries", drift.TotalAbsDrift, len(basket.Entries))
	}
}

func TestNewAnalysis_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tax.State = d(-0.1)
	if _, err := NewAnalysis(Snapshot{}, cfg, asOf); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewAnalysis() error = %v, want ErrInvalidConfig", err)
	}
}

func TestAnalysis_AcknowledgeSpecs(t *testing.T) {
	a, err := NewAnalysis(loadSnapshot(t), DefaultConfig(), date.Date{})
	if err != nil {
		t.Fatalf("NewAnalysis() error = %v", err)
	}
	if err := a.AcknowledgeSpecs("VTI:oops"); err == nil {
		t.Errorf("AcknowledgeSpecs() expected an error for an unknown kind")
	}
	if err := a.AcknowledgeSpecs("vti:quantity_mismatch"); err != nil {
		t.Fatalf("AcknowledgeSpecs() error = %v", err)
	}
	if err := a.Gate(); err != nil {
		t.Errorf("Gate() = %v, want nil", err)
	}

	b, _ := NewAnalysis(loadSnapshot(t), DefaultConfig(), date.Date{})
	if err := b.AcknowledgeSpecs("*"); err != nil || b.Gate() != nil {
		t.Errorf("AcknowledgeSpecs(*) = %v, Gate() = %v", err, b.Gate())
	}
}

func TestNewAnalysis_AsOf(t *testing.T) {
	a, err := NewAnalysis(loadSnapshot(t), DefaultConfig(), date.Date{})
	if err != nil {
		t.Fatalf("NewAnalysis() error = %v", err)
	}
	if want := date.New(2025, 6, 30); a.AsOf() != want {
		t.Errorf("AsOf() = %s, want the snapshot date %s", a.AsOf(), want)
	}

	later := date.New(2025, 7, 15)
	if a, _ = NewAnalysis(loadSnapshot(t), DefaultConfig(), later); a.AsOf() != later {
		t.Errorf("AsOf() = %s, want %s", a.AsOf(), later)
	}

	if _, err := NewAnalysis(Snapshot{}, DefaultConfig(), date.Date{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewAnalysis() without date error = %v, want ErrInvalidConfig", err)
	}
}
