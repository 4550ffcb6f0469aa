package harvest

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Unclassified is the sector of symbols held but absent from the basket.
const Unclassified = "Unclassified"

// maxMovers is the size of the overweight and underweight lists.
const maxMovers = 10

// DriftEntry compares the current and target weight of a symbol.
type DriftEntry struct {
	Symbol  string          `json:"symbol"`
	Sector  string          `json:"sector"`
	Value   Money           `json:"value"`
	Current decimal.Decimal `json:"current"`
	Target  decimal.Decimal `json:"target"`
	Drift   decimal.Decimal `json:"drift"` // Current less target.
}

// SectorDrift is the drift rolled up by sector.
type SectorDrift struct {
	Sector  string          `json:"sector"`
	Current decimal.Decimal `json:"current"`
	Target  decimal.Decimal `json:"target"`
	Drift   decimal.Decimal `json:"drift"`
}

// DriftReport compares a portfolio to a target basket. The aggregate drift
// is the sum of the absolute drifts, 0 for a perfect match and 2 for
// disjoint portfolios.
type DriftReport struct {
	TotalValue    Money           `json:"total_value"`
	Entries       []DriftEntry    `json:"entries"` // Sorted by symbol.
	Sectors       []SectorDrift   `json:"sectors"`
	TotalAbsDrift decimal.Decimal `json:"total_abs_drift"`
	MaxAbsDrift   decimal.Decimal `json:"max_abs_drift"`
	Overweights   []DriftEntry    `json:"overweights"`
	Underweights  []DriftEntry    `json:"underweights"`
	Warnings      []Warning       `json:"warnings,omitempty"`
}

// Penalties returns the overweight of every symbol held above its target.
func (r DriftReport) Penalties() map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal)
	for _, e := range r.Entries {
		if e.Drift.IsPositive() {
			res[e.Symbol] = e.Drift
		}
	}
	return res
}

// Weights returns the current weight of every held symbol.
func (r DriftReport) Weights() map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal)
	for _, e := range r.Entries {
		if e.Current.IsPositive() {
			res[e.Symbol] = e.Current
		}
	}
	return res
}

// ComputeDrift computes the current weight of every non cash holding and
// compares it to the basket.
func ComputeDrift(holdings []Holding, basket []TargetBasketEntry) DriftReport {
	var report DriftReport
	values := make(map[string]Money)
	for _, h := range holdings {
		if h.IsCashEquivalent {
			continue
		}
		symbol := NormalizeSymbol(h.Symbol)
		v, ok := h.Value()
		if !ok {
			report.Warnings = append(report.Warnings, warnf(MissingValue, symbol, "no market value nor price, left out of the weights"))
			continue
		}
		values[symbol] = values[symbol].Add(v)
		report.TotalValue = report.TotalValue.Add(v)
	}

	entries := make(map[string]*DriftEntry)
	for _, b := range basket {
		symbol := NormalizeSymbol(b.Symbol)
		e, ok := entries[symbol]
		if !ok {
			e = &DriftEntry{Symbol: symbol, Sector: b.Sector}
			entries[symbol] = e
		}
		e.Target = e.Target.Add(b.Weight)
	}
	for symbol, v := range values {
		e, ok := entries[symbol]
		if !ok {
			e = &DriftEntry{Symbol: symbol}
			entries[symbol] = e
		}
		e.Value = v
		e.Current = v.Ratio(report.TotalValue)
	}

	sectors := make(map[string]*SectorDrift)
	report.Entries = make([]DriftEntry, 0, len(entries))
	for _, e := range entries {
		if e.Sector == "" {
			e.Sector = Unclassified
		}
		e.Drift = e.Current.Sub(e.Target)
		report.Entries = append(report.Entries, *e)

		abs := e.Drift.Abs()
		report.TotalAbsDrift = report.TotalAbsDrift.Add(abs)
		if abs.GreaterThan(report.MaxAbsDrift) {
			report.MaxAbsDrift = abs
		}
		s, ok := sectors[e.Sector]
		if !ok {
			s = &SectorDrift{Sector: e.Sector}
			sectors[e.Sector] = s
		}
		s.Current = s.Current.Add(e.Current)
		s.Target = s.Target.Add(e.Target)
	}
	slices.SortFunc(report.Entries, func(a, b DriftEntry) int { return cmp.Compare(a.Symbol, b.Symbol) })

	report.Sectors = make([]SectorDrift, 0, len(sectors))
	for _, s := range sectors {
		s.Drift = s.Current.Sub(s.Target)
		report.Sectors = append(report.Sectors, *s)
	}
	slices.SortFunc(report.Sectors, func(a, b SectorDrift) int {
		return cmp.Or(b.Drift.Abs().Cmp(a.Drift.Abs()), cmp.Compare(a.Sector, b.Sector))
	})

	report.Overweights = movers(report.Entries, func(d decimal.Decimal) bool { return d.IsPositive() }, func(a, b DriftEntry) int {
		return cmp.Or(b.Drift.Cmp(a.Drift), cmp.Compare(a.Symbol, b.Symbol))
	})
	report.Underweights = movers(report.Entries, func(d decimal.Decimal) bool { return d.IsNegative() }, func(a, b DriftEntry) int {
		return cmp.Or(a.Drift.Cmp(b.Drift), cmp.Compare(a.Symbol, b.Symbol))
	})
	return report
}

func movers(entries []DriftEntry, keep func(decimal.Decimal) bool, order func(a, b DriftEntry) int) []DriftEntry {
	res := []DriftEntry{}
	for _, e := range entries {
		if keep(e.Drift) {
			res = append(res, e)
		}
	}
	slices.SortFunc(res, order)
	if len(res) > maxMovers {
		res = res[:maxMovers]
	}
	return res
}
