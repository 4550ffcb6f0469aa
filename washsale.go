package harvest

import (
	"fmt"

	"github.com/etnz/harvest/date"
)

// DefaultWashSaleWindowDays is the number of days on each side of a sale
// during which a purchase of the same security is a wash-sale risk.
const DefaultWashSaleWindowDays = 30

// WashSaleDisclaimer is attached to every harvesting output.
const WashSaleDisclaimer = "Wash-sale checks only look at trades in this account. " +
	"Purchases in other accounts, including retirement accounts and a spouse's accounts, " +
	"can still disallow a loss. This is an estimate, not tax advice."

// WashSaleCheck is the outcome of the wash-sale guard for one sale.
type WashSaleCheck struct {
	Risk   bool   `json:"risk"`
	Reason string `json:"reason,omitempty"`
}

// CheckWashSale flags a sale of symbol on saleDate when the account bought
// the same symbol within windowDays of it. The check never blocks a sale.
func CheckWashSale(symbol string, saleDate date.Date, trades []Trade, windowDays int) WashSaleCheck {
	symbol = NormalizeSymbol(symbol)
	window := date.Window(saleDate, windowDays)
	var (
		closest date.Date
		best    = -1
	)
	for _, t := range trades {
		if t.Side != Buy || NormalizeSymbol(t.Symbol) != symbol || !window.Contains(t.Date) {
			continue
		}
		dist := t.Date.Sub(saleDate)
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < best || (dist == best && t.Date.Before(closest)) {
			best, closest = dist, t.Date
		}
	}
	if best < 0 {
		return WashSaleCheck{}
	}
	return WashSaleCheck{
		Risk:   true,
		Reason: fmt.Sprintf("buy on %s within %d-day window", closest, windowDays),
	}
}
