package harvest

import (
	"cmp"
	"errors"
	"slices"

	"github.com/etnz/harvest/date"
	"github.com/shopspring/decimal"
)

// TaxRates are the marginal rates used to estimate the tax of a sale. They
// are fractions, 0.32 means 32%.
type TaxRates struct {
	ShortTerm decimal.Decimal `json:"short_term"`
	LongTerm  decimal.Decimal `json:"long_term"`
	State     decimal.Decimal `json:"state"`
	// CarryDiscount values a loss left over once this year's gains of the
	// same term are offset. It is carried forward and worth less today.
	CarryDiscount decimal.Decimal `json:"carry_discount"`
}

// DefaultTaxRates returns 32% short-term, 15% long-term, 5% state and a
// carried loss worth half its immediate value.
func DefaultTaxRates() TaxRates {
	return TaxRates{
		ShortTerm:     decimal.New(32, -2),
		LongTerm:      decimal.New(15, -2),
		State:         decimal.New(5, -2),
		CarryDiscount: decimal.New(5, -1),
	}
}

// Validate checks that every rate is a fraction.
func (r TaxRates) Validate() error {
	var errs []error
	one := decimal.NewFromInt(1)
	for _, f := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"tax.short_term", r.ShortTerm},
		{"tax.long_term", r.LongTerm},
		{"tax.state", r.State},
		{"tax.carry_discount", r.CarryDiscount},
	} {
		if f.rate.IsNegative() || f.rate.GreaterThan(one) {
			errs = append(errs, configErrorf(f.name, "must be within 0 and 1, got %s", f.rate))
		}
	}
	return errors.Join(errs...)
}

func (r TaxRates) rate(term Term) decimal.Decimal {
	if term == LongTerm {
		return r.LongTerm.Add(r.State)
	}
	return r.ShortTerm.Add(r.State)
}

// gainOffsets tracks this year's realized gains still available to absorb
// the losses of a sale, by term.
type gainOffsets struct {
	short, long Money
}

func newGainOffsets(s RealizedSummary) *gainOffsets {
	return &gainOffsets{
		short: MaxMoney(Money{}, s.ShortTerm),
		long:  MaxMoney(Money{}, s.LongTerm),
	}
}

// estimate returns the tax of a gain, or the saving of a loss as a negative
// amount. A loss saves the full rate up to the realized gains of its term
// left to offset, and the discounted rate beyond. carried reports whether
// part of the loss is carried forward.
func (o *gainOffsets) estimate(gain Money, term Term, rates TaxRates) (tax Money, carried bool) {
	rate := rates.rate(term)
	if !gain.IsNegative() {
		return gain.Scale(rate), false
	}
	pool := &o.short
	if term == LongTerm {
		pool = &o.long
	}
	loss := gain.Neg()
	offset := MinMoney(loss, *pool)
	*pool = pool.Sub(offset)
	carry := loss.Sub(offset)
	benefit := offset.Scale(rate).Add(carry.Scale(rate.Mul(rates.CarryDiscount)))
	return benefit.Neg(), carry.IsPositive()
}

// DefaultSellTolerance is the amount under which a sell target is reached.
var DefaultSellTolerance = USD(decimal.New(1, -2))

// SellRequest describes the cash to raise and the inventory to raise it from.
type SellRequest struct {
	Target       Money
	Lots         []TaxLot
	Prices       Prices
	Summary      RealizedSummary
	Exclusions   []string
	DriftWeights map[string]decimal.Decimal // Overweight fraction per symbol.
	TaxRates     TaxRates
	AsOf         date.Date
	Tolerance    Money
	Cash         CashClassifier
}

// SellPlanItem is a single lot sale. Items are in execution order.
type SellPlanItem struct {
	Lot          TaxLot   `json:"lot"`
	Quantity     Quantity `json:"quantity"`
	Price        Money    `json:"price"`
	Proceeds     Money    `json:"proceeds"`
	Basis        Money    `json:"basis"`
	Gain         Money    `json:"gain"`
	Term         Term     `json:"term"`
	Tier         Tier     `json:"tier"`
	Partial      bool     `json:"partial"`
	EstimatedTax Money    `json:"estimated_tax"` // Negative for a tax saving.
	Rationale    string   `json:"rationale"`
}

// SellPlan is the outcome of the MinTax lot selection.
type SellPlan struct {
	Target            Money          `json:"target"`
	Items             []SellPlanItem `json:"items"`
	Proceeds          Money          `json:"proceeds"`
	Shortfall         Money          `json:"shortfall"`
	RealizedShortTerm Money          `json:"realized_short_term"`
	RealizedLongTerm  Money          `json:"realized_long_term"`
	EstimatedTax      Money          `json:"estimated_tax"`
	Warnings          []Warning      `json:"warnings,omitempty"`
}

// sellCandidate is an eligible lot, valued.
type sellCandidate struct {
	lot      TaxLot
	price    Money
	proceeds Money
	basis    Money
	gain     Money
	term     Term
	tier     Tier
}

func (r SellRequest) validate() error {
	var errs []error
	if r.Target.IsNegative() {
		errs = append(errs, configErrorf("target", "must be non negative, got %s", r.Target))
	}
	if r.Tolerance.IsNegative() {
		errs = append(errs, configErrorf("tolerance", "must be non negative, got %s", r.Tolerance))
	}
	if r.AsOf.IsZero() {
		errs = append(errs, configErrorf("as_of", "a date is required"))
	}
	errs = append(errs, r.TaxRates.Validate())
	return errors.Join(errs...)
}

// SelectLotsForAmount picks the lots to sell to raise the target amount with
// the least tax: short-term losses, long-term losses, long-term gains and
// finally short-term gains. It never sells more than the target plus the
// tolerance and reports a shortfall when the eligible inventory is too small.
func SelectLotsForAmount(req SellRequest) (SellPlan, error) {
	if err := req.validate(); err != nil {
		return SellPlan{}, err
	}
	plan := SellPlan{Target: req.Target, Items: []SellPlanItem{}}

	excluded := make(map[string]bool, len(req.Exclusions))
	for _, s := range req.Exclusions {
		excluded[NormalizeSymbol(s)] = true
	}
	warnedExcluded := make(map[string]bool)

	var (
		candidates []sellCandidate
		inventory  Money
	)
	for _, l := range req.Lots {
		symbol := NormalizeSymbol(l.Symbol)
		l.Symbol = symbol
		switch {
		case excluded[symbol]:
			if !warnedExcluded[symbol] {
				warnedExcluded[symbol] = true
				plan.Warnings = append(plan.Warnings, warnf(Excluded, symbol, "excluded from selling"))
			}
			continue
		case req.Cash.IsCashEquivalent(symbol):
			continue
		case l.Acquired.IsZero():
			plan.Warnings = append(plan.Warnings, warnf(InvalidLot, symbol, "lot %s has no acquisition date, skipped", l.ID))
			continue
		}
		basis, ok := l.Basis()
		if !ok {
			plan.Warnings = append(plan.Warnings, warnf(InvalidLot, symbol, "lot %s has no cost basis, skipped", l.ID))
			continue
		}
		value, price, ok := l.valuation(req.Prices)
		if !ok || !price.IsPositive() {
			plan.Warnings = append(plan.Warnings, warnf(MissingPrice, symbol, "no price for lot %s, skipped", l.ID))
			continue
		}
		term := termOf(l.Acquired, req.AsOf)
		gain := value.Sub(basis)
		candidates = append(candidates, sellCandidate{
			lot:      l,
			price:    price,
			proceeds: value,
			basis:    basis,
			gain:     gain,
			term:     term,
			tier:     tierOf(term, gain),
		})
		inventory = inventory.Add(value)
	}

	slices.SortStableFunc(candidates, func(a, b sellCandidate) int {
		if c := cmp.Compare(a.tier, b.tier); c != 0 {
			return c
		}
		var c int
		if a.tier == ShortTermLoss || a.tier == LongTermLoss {
			c = a.gain.Cmp(b.gain) // largest loss first
		} else {
			c = b.basis.Ratio(b.proceeds).Cmp(a.basis.Ratio(a.proceeds)) // highest basis per dollar first
		}
		if c != 0 {
			return c
		}
		if len(req.DriftWeights) > 0 {
			if c := req.DriftWeights[b.lot.Symbol].Cmp(req.DriftWeights[a.lot.Symbol]); c != 0 {
				return c
			}
		}
		return cmp.Or(
			b.proceeds.Cmp(a.proceeds),
			compareDates(a.lot.Acquired, b.lot.Acquired),
			cmp.Compare(a.lot.ID, b.lot.ID),
		)
	})

	offsets := newGainOffsets(req.Summary)
	remaining := req.Target
	for _, c := range candidates {
		if remaining.LessThanOrEqual(req.Tolerance) {
			break
		}
		item := SellPlanItem{
			Lot:      c.lot,
			Quantity: c.lot.Quantity,
			Price:    c.price,
			Proceeds: c.proceeds,
			Basis:    c.basis,
			Term:     c.term,
			Tier:     c.tier,
		}
		if c.proceeds.GreaterThan(remaining) {
			item.Quantity = remaining.DivPrice(c.price).Truncate()
			if !item.Quantity.IsPositive() {
				continue
			}
			item.Partial = true
			item.Proceeds = c.price.Mul(item.Quantity)
			item.Basis = c.lot.portion(c.basis, item.Quantity)
		}
		item.Gain = item.Proceeds.Sub(item.Basis)
		var carried bool
		item.EstimatedTax, carried = offsets.estimate(item.Gain, c.term, req.TaxRates)
		item.Rationale = c.tier.rationale()
		if carried {
			item.Rationale += ", loss beyond this year's gains carried forward"
		}
		if item.Partial {
			item.Rationale += " (partial lot)"
		}

		plan.Items = append(plan.Items, item)
		plan.Proceeds = plan.Proceeds.Add(item.Proceeds)
		plan.EstimatedTax = plan.EstimatedTax.Add(item.EstimatedTax)
		if c.term == LongTerm {
			plan.RealizedLongTerm = plan.RealizedLongTerm.Add(item.Gain)
		} else {
			plan.RealizedShortTerm = plan.RealizedShortTerm.Add(item.Gain)
		}
		remaining = remaining.Sub(item.Proceeds)
	}

	plan.Shortfall = MaxMoney(Money{}, req.Target.Sub(inventory))
	if plan.Shortfall.IsPositive() {
		plan.Warnings = append(plan.Warnings, warnf(InsufficientInventory, "", "eligible lots can raise %s, %s short of %s", inventory, plan.Shortfall, req.Target))
	}
	return plan, nil
}
