package harvest

import "github.com/etnz/harvest/date"

// RealizedRow is a closed position reported by the broker for the year.
type RealizedRow struct {
	Symbol       string    `json:"symbol"`
	Quantity     Quantity  `json:"quantity"`
	Acquired     date.Date `json:"acquired,omitzero"`
	Sold         date.Date `json:"sold"`
	Cost         *Money    `json:"cost,omitempty"`
	Proceeds     *Money    `json:"proceeds,omitempty"`
	Gain         *Money    `json:"gain,omitempty"`
	Term         Term      `json:"term"`
	Disallowed   *Money    `json:"disallowed,omitempty"` // Wash-sale loss deferred by the broker.
	LotSelection string    `json:"lot_selection,omitempty"`
}

// gain returns the reported gain, or proceeds minus cost when absent.
func (r RealizedRow) gain() (Money, bool) {
	if r.Gain != nil {
		return *r.Gain, true
	}
	if r.Cost != nil && r.Proceeds != nil {
		return r.Proceeds.Sub(*r.Cost), true
	}
	return Money{}, false
}

// term returns the reported term, or derives it from the dates.
func (r RealizedRow) term() Term {
	if r.Term != UnknownTerm {
		return r.Term
	}
	if r.Acquired.IsZero() || r.Sold.IsZero() {
		return UnknownTerm
	}
	return termOf(r.Acquired, r.Sold)
}

// RealizedSummary aggregates the year to date realized gains by term.
type RealizedSummary struct {
	ShortTerm          Money     `json:"short_term"`
	LongTerm           Money     `json:"long_term"`
	Unknown            Money     `json:"unknown"`
	WashSaleDisallowed Money     `json:"wash_sale_disallowed"`
	Rows               int       `json:"rows"`
	Warnings           []Warning `json:"warnings,omitempty"`
}

// Total returns the net realized gain (negative for a net loss).
func (s RealizedSummary) Total() Money {
	return s.ShortTerm.Add(s.LongTerm).Add(s.Unknown)
}

// NetGain returns the realized gain to offset, never negative.
func (s RealizedSummary) NetGain() Money {
	return MaxMoney(Money{}, s.Total())
}

// SummarizeRealized totals realized rows by term.
func SummarizeRealized(rows []RealizedRow) RealizedSummary {
	var s RealizedSummary
	for _, r := range rows {
		g, ok := r.gain()
		if !ok {
			s.Warnings = append(s.Warnings, warnf(InvalidLot, NormalizeSymbol(r.Symbol), "realized row sold on %s has no gain nor proceeds and cost", r.Sold))
			continue
		}
		s.Rows++
		switch r.term() {
		case ShortTerm:
			s.ShortTerm = s.ShortTerm.Add(g)
		case LongTerm:
			s.LongTerm = s.LongTerm.Add(g)
		default:
			s.Unknown = s.Unknown.Add(g)
		}
		if r.Disallowed != nil {
			s.WashSaleDisallowed = s.WashSaleDisallowed.Add(*r.Disallowed)
		}
	}
	if s.Rows == 0 {
		s.Warnings = append(s.Warnings, warnf(NoRealizedRows, "", "no realized transactions, assuming no realized gains"))
	}
	return s
}
