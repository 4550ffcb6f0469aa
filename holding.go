package harvest

import (
	"regexp"
	"strings"
)

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// ValidSymbol reports whether s is a well formed ticker once normalized.
func ValidSymbol(s string) bool { return symbolPattern.MatchString(NormalizeSymbol(s)) }

// Holding is a current position in the account.
type Holding struct {
	Symbol           string   `json:"symbol"`
	Quantity         Quantity `json:"quantity"`
	MarketValue      *Money   `json:"market_value,omitempty"`
	Price            *Money   `json:"price,omitempty"`
	CostBasis        *Money   `json:"cost_basis,omitempty"`
	IsCashEquivalent bool     `json:"is_cash_equivalent,omitempty"`
}

// Value returns the market value of the position, or price times quantity
// when the market value is unknown.
func (h Holding) Value() (Money, bool) {
	if h.MarketValue != nil {
		return *h.MarketValue, true
	}
	if h.Price != nil {
		return h.Price.Mul(h.Quantity), true
	}
	return Money{}, false
}

// Prices maps symbols to their last known price.
type Prices map[string]Money

// Get looks up the price of a symbol, ignoring case and surrounding spaces.
func (p Prices) Get(symbol string) (Money, bool) {
	if p == nil {
		return Money{}, false
	}
	if m, ok := p[symbol]; ok {
		return m, true
	}
	m, ok := p[NormalizeSymbol(symbol)]
	return m, ok
}

// PricesFromHoldings derives a price per symbol from holdings carrying a
// price or a market value. Explicit prices win over the ones derived from
// the market value.
func PricesFromHoldings(holdings []Holding) Prices {
	prices := make(Prices)
	for _, h := range holdings {
		symbol := NormalizeSymbol(h.Symbol)
		switch {
		case h.Price != nil:
			prices[symbol] = *h.Price
		case h.MarketValue != nil && h.Quantity.IsPositive():
			if _, exists := prices[symbol]; !exists {
				prices[symbol] = h.MarketValue.Div(h.Quantity)
			}
		}
	}
	return prices
}

// Merge returns a copy of p with the entries of q added when missing from p.
func (p Prices) Merge(q Prices) Prices {
	res := make(Prices, len(p)+len(q))
	for k, v := range q {
		res[NormalizeSymbol(k)] = v
	}
	for k, v := range p {
		res[NormalizeSymbol(k)] = v
	}
	return res
}
