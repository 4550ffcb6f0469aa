package harvest

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/harvest/date"
	"github.com/shopspring/decimal"
)

// TLHOptions tunes the tax-loss harvesting candidate scorer.
type TLHOptions struct {
	MinLoss            Money          // Minimum loss in dollars.
	MinLossPercent     Percent        // Minimum loss relative to the basis.
	TermPreference     TermPreference // Primary ranking key.
	NearLongTermDays   int            // Short-term lots this close to long-term get a note.
	WashSaleWindowDays int
	Goal               Goal
	BudgetTolerance    decimal.Decimal
	MaxCandidates      int // 0 means unlimited.
	Cash               CashClassifier
}

// DefaultTLHOptions returns the default scorer options.
func DefaultTLHOptions() TLHOptions {
	return TLHOptions{
		MinLoss:            USD(500),
		MinLossPercent:     5,
		TermPreference:     AutoTerm,
		NearLongTermDays:   30,
		WashSaleWindowDays: DefaultWashSaleWindowDays,
		Goal:               OffsetRealizedGains,
		BudgetTolerance:    DefaultBudgetTolerance,
		Cash:               NewCashClassifier(),
	}
}

// Validate returns a joined *ConfigError for every invalid option.
func (o TLHOptions) Validate() error {
	var errs []error
	if o.MinLoss.IsNegative() {
		errs = append(errs, configErrorf("tlh.min_loss", "must be non negative, got %s", o.MinLoss))
	}
	if o.MinLossPercent < 0 || o.MinLossPercent > 100 {
		errs = append(errs, configErrorf("tlh.min_loss_percent", "must be within 0 and 100, got %v", float64(o.MinLossPercent)))
	}
	if o.NearLongTermDays < 0 || o.NearLongTermDays > LongTermDays {
		errs = append(errs, configErrorf("tlh.near_long_term_days", "must be within 0 and %d, got %d", LongTermDays, o.NearLongTermDays))
	}
	if o.WashSaleWindowDays < 0 {
		errs = append(errs, configErrorf("tlh.wash_sale_window_days", "must be non negative, got %d", o.WashSaleWindowDays))
	}
	if o.BudgetTolerance.IsNegative() || o.BudgetTolerance.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, configErrorf("tlh.budget_tolerance", "must be within [0, 1), got %s", o.BudgetTolerance))
	}
	if o.MaxCandidates < 0 {
		errs = append(errs, configErrorf("tlh.max_candidates", "must be non negative, got %d", o.MaxCandidates))
	}
	return errors.Join(errs...)
}

// TLHRequest holds the account data scored for harvesting.
type TLHRequest struct {
	Lots    []TaxLot
	Prices  Prices
	Trades  []Trade
	Summary RealizedSummary
	AsOf    date.Date
}

// TLHCandidate is a lot currently at a loss worth harvesting.
type TLHCandidate struct {
	Lot             TaxLot        `json:"lot"`
	Price           Money         `json:"price"`
	Value           Money         `json:"value"`
	Basis           Money         `json:"basis"`
	Gain            Money         `json:"gain"` // Negative.
	LossPercent     Percent       `json:"loss_percent"`
	Term            Term          `json:"term"`
	DaysHeld        int           `json:"days_held"`
	DaysToLongTerm  int           `json:"days_to_long_term"`
	NearLongTerm    bool          `json:"near_long_term"`
	WashSale        WashSaleCheck `json:"wash_sale"`
	Rank            int           `json:"rank"`
	BudgetRemaining Money         `json:"budget_remaining"`
	Notes           []string      `json:"notes,omitempty"`
}

// Loss returns the harvested loss as a positive amount.
func (c TLHCandidate) Loss() Money { return c.Gain.Neg() }

// TLHResult is the ranked list of harvesting candidates.
type TLHResult struct {
	Candidates []TLHCandidate   `json:"candidates"`
	Budget     LossBudgetStatus `json:"budget"`
	TotalLoss  Money            `json:"total_loss"`
	Warnings   []Warning        `json:"warnings,omitempty"`
	Disclaimer string           `json:"disclaimer"`
}

// ScoreTLHCandidates finds the lots at a loss, ranks them and applies the
// loss budget.
func ScoreTLHCandidates(req TLHRequest, opts TLHOptions) (TLHResult, error) {
	if err := opts.Validate(); err != nil {
		return TLHResult{}, err
	}
	if req.AsOf.IsZero() {
		return TLHResult{}, configErrorf("as_of", "a date is required")
	}
	res := TLHResult{Disclaimer: WashSaleDisclaimer}

	var candidates []TLHCandidate
	for _, l := range req.Lots {
		symbol := NormalizeSymbol(l.Symbol)
		if opts.Cash.IsCashEquivalent(symbol) {
			continue
		}
		basis, ok := l.Basis()
		if !ok {
			res.Warnings = append(res.Warnings, warnf(InvalidLot, symbol, "lot %s has no cost basis", l.ID))
			continue
		}
		value, price, ok := l.valuation(req.Prices)
		if !ok || !price.IsPositive() {
			res.Warnings = append(res.Warnings, warnf(MissingPrice, symbol, "no positive price for lot %s, skipped", l.ID))
			continue
		}
		gain := value.Sub(basis)
		if !gain.IsNegative() || !basis.IsPositive() {
			continue
		}
		loss := gain.Neg()
		lossPercent := PercentOf(loss.Ratio(basis))
		if loss.LessThan(opts.MinLoss) && lossPercent < opts.MinLossPercent {
			continue
		}

		c := TLHCandidate{
			Lot:         l,
			Price:       price,
			Value:       value,
			Basis:       basis,
			Gain:        gain,
			LossPercent: lossPercent,
			Term:        termOf(l.Acquired, req.AsOf),
		}
		c.Lot.Symbol = symbol
		if !l.Acquired.IsZero() {
			c.DaysHeld = req.AsOf.Sub(l.Acquired)
		}
		if c.Term == ShortTerm {
			c.DaysToLongTerm = LongTermDays - c.DaysHeld
			if c.DaysToLongTerm <= opts.NearLongTermDays {
				c.NearLongTerm = true
				c.Notes = append(c.Notes, fmt.Sprintf("%d days from long-term status, consider holding", c.DaysToLongTerm))
			}
		}
		c.WashSale = CheckWashSale(symbol, req.AsOf, req.Trades, opts.WashSaleWindowDays)
		if c.WashSale.Risk {
			c.Notes = append(c.Notes, "wash-sale risk: "+c.WashSale.Reason)
		}
		candidates = append(candidates, c)
	}

	shortFirst := opts.TermPreference == PreferShortTerm ||
		(opts.TermPreference == AutoTerm && req.Summary.ShortTerm.IsPositive())
	termKey := func(c TLHCandidate) int {
		if shortFirst && c.Term != ShortTerm {
			return 1
		}
		return 0
	}
	slices.SortStableFunc(candidates, func(a, b TLHCandidate) int {
		return cmp.Or(
			cmp.Compare(termKey(a), termKey(b)),
			b.Loss().Cmp(a.Loss()),
			cmp.Compare(b.LossPercent, a.LossPercent),
			compareDates(a.Lot.Acquired, b.Lot.Acquired),
			cmp.Compare(a.Lot.ID, b.Lot.ID),
		)
	})
	for i := range candidates {
		candidates[i].Rank = i + 1
	}

	kept, status := ApplyLossBudget(candidates, req.Summary, opts.Goal, opts.BudgetTolerance)
	if opts.MaxCandidates > 0 && len(kept) > opts.MaxCandidates {
		kept = kept[:opts.MaxCandidates]
	}
	res.Candidates = kept
	res.Budget = status
	res.Warnings = append(res.Warnings, status.Warnings...)
	for _, c := range kept {
		res.TotalLoss = res.TotalLoss.Add(c.Loss())
		if c.WashSale.Risk {
			res.Warnings = append(res.Warnings, warnf(WashSaleRisk, c.Lot.Symbol, "%s", c.WashSale.Reason))
		}
	}
	return res, nil
}

func compareDates(a, b date.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
