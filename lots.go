package harvest

import (
	"fmt"

	"github.com/etnz/harvest/date"
	"github.com/google/uuid"
)

// lotNamespace scopes the synthetic lot ids.
var lotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/harvest/lots"))

// TaxLot is a single purchase of a security still held in the account.
type TaxLot struct {
	ID            string    `json:"id,omitempty"`
	Symbol        string    `json:"symbol"`
	Acquired      date.Date `json:"acquired"`
	Quantity      Quantity  `json:"quantity"`
	CostBasis     *Money    `json:"cost_basis,omitempty"` // Total cost of the lot.
	BasisPerShare *Money    `json:"basis_per_share,omitempty"`
	CurrentPrice  *Money    `json:"current_price,omitempty"`
	CurrentValue  *Money    `json:"current_value,omitempty"`
	Covered       *bool     `json:"covered,omitempty"`
}

// Basis returns the total cost basis of the lot.
func (l TaxLot) Basis() (Money, bool) {
	if l.CostBasis != nil {
		return *l.CostBasis, true
	}
	if l.BasisPerShare != nil {
		return l.BasisPerShare.Mul(l.Quantity), true
	}
	return Money{}, false
}

// valuation returns the lot's market value and the price per share, using
// the lot's own value or price first and the price table last.
func (l TaxLot) valuation(prices Prices) (value, price Money, ok bool) {
	switch {
	case l.CurrentValue != nil:
		value = *l.CurrentValue
		if l.Quantity.IsPositive() {
			price = value.Div(l.Quantity)
		}
		return value, price, true
	case l.CurrentPrice != nil:
		return l.CurrentPrice.Mul(l.Quantity), *l.CurrentPrice, true
	}
	p, found := prices.Get(l.Symbol)
	if !found {
		return Money{}, Money{}, false
	}
	return p.Mul(l.Quantity), p, true
}

// portion returns the basis attributed to q shares of the lot, pro-rata.
func (l TaxLot) portion(basis Money, q Quantity) Money {
	if q.Equal(l.Quantity) || l.Quantity.IsZero() {
		return basis
	}
	return basis.Mul(q).Div(l.Quantity)
}

// ResolveLots normalizes symbols, resolves the total basis and gives every
// lot a stable id. Lots that cannot be used are dropped with a warning.
//
// Synthetic ids are derived from the lot content and its position, so that
// the same snapshot always yields the same ids.
func ResolveLots(lots []TaxLot) ([]TaxLot, []Warning) {
	var (
		res      = make([]TaxLot, 0, len(lots))
		warnings []Warning
	)
	for i, l := range lots {
		l.Symbol = NormalizeSymbol(l.Symbol)
		if l.Symbol == "" {
			warnings = append(warnings, warnf(InvalidLot, "", "lot #%d has no symbol", i+1))
			continue
		}
		if !l.Quantity.IsPositive() {
			warnings = append(warnings, warnf(InvalidLot, l.Symbol, "lot #%d has a non positive quantity %s", i+1, l.Quantity))
			continue
		}
		basis, ok := l.Basis()
		if !ok {
			warnings = append(warnings, warnf(InvalidLot, l.Symbol, "lot #%d has no cost basis nor basis per share", i+1))
			continue
		}
		l.CostBasis = &basis
		if l.ID == "" {
			key := fmt.Sprintf("%d|%s|%s|%s|%s", i, l.Symbol, l.Acquired, l.Quantity, basis.Decimal())
			l.ID = uuid.NewSHA1(lotNamespace, []byte(key)).String()
		}
		res = append(res, l)
	}
	return res, warnings
}
