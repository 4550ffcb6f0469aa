package renderer

import (
	"encoding/csv"
	"io"

	"github.com/etnz/harvest"
)

// WriteSellChecklist writes the lots to sell as CSV, one row per lot.
func WriteSellChecklist(w io.Writer, items []harvest.SellPlanItem) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Symbol", "Action", "Lot", "Qty", "Price", "Proceeds", "Basis", "Gain/Loss", "Term", "Rationale"})
	for _, it := range items {
		cw.Write([]string{
			it.Lot.Symbol,
			"SELL",
			it.Lot.ID,
			it.Quantity.String(),
			it.Price.Decimal().Round(4).String(),
			amount(it.Proceeds),
			amount(it.Basis),
			amount(it.Gain),
			it.Term.String(),
			it.Rationale,
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteBuyChecklist writes the buy targets of a transition as CSV.
func WriteBuyChecklist(w io.Writer, buys []harvest.BuyTarget) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Symbol", "Target weight", "Target $", "Price", "Est shares"})
	for _, b := range buys {
		price, shares := "", ""
		if b.Price != nil {
			price = b.Price.Decimal().Round(4).String()
		}
		if b.Shares != nil {
			shares = b.Shares.Decimal().Round(4).String()
		}
		cw.Write([]string{b.Symbol, b.Weight.Round(6).String(), amount(b.Amount), price, shares})
	}
	cw.Flush()
	return cw.Error()
}

// WriteOrderChecklist writes proposal orders as CSV, sells first.
func WriteOrderChecklist(w io.Writer, orders []harvest.Order) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Side", "Symbol", "Lot", "Qty", "Amount", "Rationale"})
	for _, o := range orders {
		qty, amt := "", ""
		if o.Quantity != nil {
			qty = o.Quantity.String()
		}
		if o.Amount != nil {
			amt = amount(*o.Amount)
		}
		cw.Write([]string{o.Side.String(), o.Symbol, o.LotID, qty, amt, o.Rationale})
	}
	cw.Flush()
	return cw.Error()
}

// WriteBasket writes a target basket as CSV.
func WriteBasket(w io.Writer, entries []harvest.TargetBasketEntry) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"symbol", "weight", "sector"})
	for _, e := range entries {
		cw.Write([]string{e.Symbol, e.Weight.Round(6).String(), e.Sector})
	}
	cw.Flush()
	return cw.Error()
}

// amount is a plain two decimals amount, without currency symbol.
func amount(m harvest.Money) string { return m.Decimal().StringFixed(2) }
