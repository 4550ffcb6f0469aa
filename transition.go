package harvest

import (
	"fmt"

	"github.com/etnz/harvest/date"
	"github.com/shopspring/decimal"
)

// TransitionRequest funds an allocation to a target basket.
type TransitionRequest struct {
	Allocation    Money
	BufferAmount  *Money  // Takes precedence over BufferPercent.
	BufferPercent Percent // Of the allocation.
	ManualCash    Money
	UseCashFirst  bool // Spend cash equivalents before selling.
	// ExcludeFromSelling are symbols never sold, e.g. the ones already in the basket.
	ExcludeFromSelling []string
	AsOf               date.Date
}

// BuyTarget is a purchase needed to reach the basket.
type BuyTarget struct {
	Symbol string          `json:"symbol"`
	Weight decimal.Decimal `json:"weight"`
	Amount Money           `json:"amount"`
	Price  *Money          `json:"price,omitempty"`
	Shares *Quantity       `json:"shares,omitempty"` // Estimated from the price.
}

// TransitionPlan funds the basket allocation and lists the buys.
type TransitionPlan struct {
	Allocation      Money       `json:"allocation"`
	Buffer          Money       `json:"buffer"`
	CashAvailable   Money       `json:"cash_available"`
	CashUsed        Money       `json:"cash_used"`
	NeededFromSales Money       `json:"needed_from_sales"`
	Sell            SellPlan    `json:"sell"`
	Buys            []BuyTarget `json:"buys"`
	DriftNotes      []SaleDrift `json:"drift_notes,omitempty"`
	Warnings        []Warning   `json:"warnings,omitempty"`
}

// PlanTransition raises the allocation plus a buffer, from cash first when
// asked to, then by selling lots with the MinTax ordering, and splits the
// allocation over the basket.
func PlanTransition(holdings []Holding, lots []TaxLot, summary RealizedSummary, basket Basket, prices Prices, req TransitionRequest, cfg Config) (TransitionPlan, error) {
	if req.Allocation.IsNegative() {
		return TransitionPlan{}, configErrorf("transition.allocation", "must be non negative, got %s", req.Allocation)
	}
	if req.BufferPercent < 0 || (req.BufferAmount != nil && req.BufferAmount.IsNegative()) {
		return TransitionPlan{}, configErrorf("transition.buffer", "must be non negative")
	}
	plan := TransitionPlan{Allocation: req.Allocation, Buys: []BuyTarget{}}
	if req.BufferAmount != nil {
		plan.Buffer = *req.BufferAmount
	} else {
		plan.Buffer = percentOf(req.Allocation, req.BufferPercent)
	}
	if req.UseCashFirst {
		plan.CashAvailable = CashAvailable(holdings, req.ManualCash)
	} else {
		plan.CashAvailable = req.ManualCash
	}
	need := req.Allocation.Add(plan.Buffer)
	plan.CashUsed = MinMoney(plan.CashAvailable, need)
	plan.NeededFromSales = MaxMoney(Money{}, need.Sub(plan.CashAvailable))

	prices = PricesFromHoldings(holdings).Merge(prices)
	var driftWeights map[string]decimal.Decimal
	if cfg.Sell.DriftAware && len(basket.Entries) > 0 {
		driftWeights = ComputeDrift(holdings, basket.Entries).Penalties()
	}
	sell, err := SelectLotsForAmount(SellRequest{
		Target:       plan.NeededFromSales,
		Lots:         lots,
		Prices:       prices,
		Summary:      summary,
		Exclusions:   req.ExcludeFromSelling,
		DriftWeights: driftWeights,
		TaxRates:     cfg.Tax,
		AsOf:         req.AsOf,
		Tolerance:    cfg.Sell.Tolerance,
		Cash:         cfg.Cash,
	})
	if err != nil {
		return TransitionPlan{}, fmt.Errorf("cannot select lots for the transition: %w", err)
	}
	plan.Sell = sell
	plan.DriftNotes = saleDrift(holdings, sell)

	if len(basket.Entries) == 0 {
		plan.Warnings = append(plan.Warnings, warnf(BasketFilter, "", "the target basket is empty, no buys generated"))
		return plan, nil
	}
	var total decimal.Decimal
	for _, e := range basket.Entries {
		total = total.Add(e.Weight)
	}
	if !total.IsPositive() {
		plan.Warnings = append(plan.Warnings, warnf(BasketFilter, "", "the target basket weights sum to zero"))
		return plan, nil
	}
	for _, e := range basket.Entries {
		weight := e.Weight.Div(total)
		buy := BuyTarget{
			Symbol: e.Symbol,
			Weight: weight,
			Amount: req.Allocation.Scale(weight).Round(),
		}
		if p, ok := prices.Get(e.Symbol); ok && p.IsPositive() {
			shares := buy.Amount.DivPrice(p).Truncate()
			buy.Price, buy.Shares = &p, &shares
		} else {
			plan.Warnings = append(plan.Warnings, warnf(MissingPrice, e.Symbol, "no price, share estimate skipped"))
		}
		plan.Buys = append(plan.Buys, buy)
	}
	return plan, nil
}
