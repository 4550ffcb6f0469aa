package harvest

import "slices"

// DefaultCashEquivalents lists the money market funds treated as cash.
var defaultCashEquivalents = []string{"VMFXX", "SPRXX", "SPAXX", "SWVXX", "FDLXX", "SNVXX", "VMMXX", "FZFXX"}

// DefaultCashEquivalents returns a fresh copy of the default money market symbols.
func DefaultCashEquivalents() []string { return slices.Clone(defaultCashEquivalents) }

// CashClassifier tells cash equivalents apart from investable securities.
// Its zero value knows the default money market funds only.
type CashClassifier struct {
	set map[string]struct{}
}

// NewCashClassifier returns a classifier knowing the default money market
// funds and the extra symbols.
func NewCashClassifier(extra ...string) CashClassifier {
	set := make(map[string]struct{}, len(defaultCashEquivalents)+len(extra))
	for _, s := range defaultCashEquivalents {
		set[s] = struct{}{}
	}
	for _, s := range extra {
		if s = NormalizeSymbol(s); s != "" {
			set[s] = struct{}{}
		}
	}
	return CashClassifier{set: set}
}

// IsCashEquivalent reports whether symbol is a cash equivalent.
func (c CashClassifier) IsCashEquivalent(symbol string) bool {
	symbol = NormalizeSymbol(symbol)
	if c.set == nil {
		return slices.Contains(defaultCashEquivalents, symbol)
	}
	_, ok := c.set[symbol]
	return ok
}

// Symbols returns the known cash equivalents, sorted.
func (c CashClassifier) Symbols() []string {
	if c.set == nil {
		res := DefaultCashEquivalents()
		slices.Sort(res)
		return res
	}
	res := make([]string, 0, len(c.set))
	for s := range c.set {
		res = append(res, s)
	}
	slices.Sort(res)
	return res
}

// Annotate returns a copy of holdings with normalized symbols and the cash
// flag set. A flag already set is kept.
func (c CashClassifier) Annotate(holdings []Holding) []Holding {
	res := make([]Holding, len(holdings))
	for i, h := range holdings {
		h.Symbol = NormalizeSymbol(h.Symbol)
		h.IsCashEquivalent = h.IsCashEquivalent || c.IsCashEquivalent(h.Symbol)
		res[i] = h
	}
	return res
}

// cashSymbols returns the set of symbols flagged as cash in holdings.
func cashSymbols(holdings []Holding) map[string]bool {
	res := make(map[string]bool)
	for _, h := range holdings {
		if h.IsCashEquivalent {
			res[NormalizeSymbol(h.Symbol)] = true
		}
	}
	return res
}
