package harvest

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/etnz/harvest/date"
	"github.com/shopspring/decimal"
)

// WithdrawalRequest is a request to raise cash from the account.
type WithdrawalRequest struct {
	Amount         Money
	CushionPercent Percent // Extra cash raised on top of Amount.
	ManualCash     Money   // Cash not visible in the holdings.
	Exclusions     []string
	AsOf           date.Date
}

// SaleDrift compares the share of the proceeds raised from a symbol to its
// weight in the portfolio. Selling in proportion to the weights keeps the
// allocation.
type SaleDrift struct {
	Symbol    string          `json:"symbol"`
	SoldShare decimal.Decimal `json:"sold_share"`
	Weight    decimal.Decimal `json:"weight"`
	Drift     decimal.Decimal `json:"drift"`
}

func (s SaleDrift) String() string {
	return fmt.Sprintf("%s: sold %s%% of proceeds vs %s%% weight (drift %s%%)", s.Symbol,
		s.SoldShare.Shift(2).StringFixed(2), s.Weight.Shift(2).StringFixed(2), s.Drift.Shift(2).StringFixed(2))
}

// WithdrawalPlan raises the requested cash with the least tax.
type WithdrawalPlan struct {
	Requested       Money       `json:"requested"`
	Buffer          Money       `json:"buffer"`
	CashAvailable   Money       `json:"cash_available"`
	NeededFromSales Money       `json:"needed_from_sales"`
	Sell            SellPlan    `json:"sell"`
	DriftNotes      []SaleDrift `json:"drift_notes,omitempty"`
	Notes           []string    `json:"notes,omitempty"`
}

// CashAvailable sums the manual cash and the cash equivalents of holdings.
func CashAvailable(holdings []Holding, manual Money) Money {
	cash := manual
	for _, h := range holdings {
		if !h.IsCashEquivalent {
			continue
		}
		if v, ok := h.Value(); ok {
			cash = cash.Add(v)
		} else {
			// money market funds are worth a dollar a share.
			cash = cash.Add(USD(h.Quantity.Decimal()))
		}
	}
	return cash
}

// PlanWithdrawal uses the available cash first and sells the remainder with
// the MinTax lot selection. Holdings are expected to be annotated by a
// CashClassifier.
func PlanWithdrawal(holdings []Holding, lots []TaxLot, summary RealizedSummary, req WithdrawalRequest, cfg Config) (WithdrawalPlan, error) {
	if req.Amount.IsNegative() {
		return WithdrawalPlan{}, configErrorf("withdrawal.amount", "must be non negative, got %s", req.Amount)
	}
	if req.CushionPercent < 0 {
		return WithdrawalPlan{}, configErrorf("withdrawal.cushion_percent", "must be non negative, got %v", float64(req.CushionPercent))
	}
	plan := WithdrawalPlan{
		Requested:     req.Amount,
		Buffer:        percentOf(req.Amount, req.CushionPercent),
		CashAvailable: CashAvailable(holdings, req.ManualCash),
	}
	plan.NeededFromSales = MaxMoney(Money{}, req.Amount.Add(plan.Buffer).Sub(plan.CashAvailable))

	sell, err := SelectLotsForAmount(SellRequest{
		Target:     plan.NeededFromSales,
		Lots:       lots,
		Prices:     PricesFromHoldings(holdings),
		Summary:    summary,
		Exclusions: req.Exclusions,
		TaxRates:   cfg.Tax,
		AsOf:       req.AsOf,
		Tolerance:  cfg.Sell.Tolerance,
		Cash:       cfg.Cash,
	})
	if err != nil {
		return WithdrawalPlan{}, fmt.Errorf("cannot select lots for the withdrawal: %w", err)
	}
	plan.Sell = sell
	if !plan.NeededFromSales.IsPositive() {
		plan.Notes = append(plan.Notes, "the withdrawal is covered by existing cash and cash equivalents")
	}
	plan.DriftNotes = saleDrift(holdings, sell)
	return plan, nil
}

// saleDrift compares the proceeds raised per symbol to the current weights.
func saleDrift(holdings []Holding, plan SellPlan) []SaleDrift {
	if !plan.Proceeds.IsPositive() {
		return nil
	}
	weights := ComputeDrift(holdings, nil).Weights()
	sold := make(map[string]Money)
	for _, it := range plan.Items {
		sold[it.Lot.Symbol] = sold[it.Lot.Symbol].Add(it.Proceeds)
	}
	res := make([]SaleDrift, 0, len(sold))
	for symbol, proceeds := range sold {
		share := proceeds.Ratio(plan.Proceeds)
		res = append(res, SaleDrift{
			Symbol:    symbol,
			SoldShare: share,
			Weight:    weights[symbol],
			Drift:     share.Sub(weights[symbol]),
		})
	}
	slices.SortFunc(res, func(a, b SaleDrift) int { return cmp.Compare(a.Symbol, b.Symbol) })
	return res
}
