package harvest

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultRemovalWarnFraction is the share of the benchmark weight a single
// filtering step may remove before a warning is raised.
var DefaultRemovalWarnFraction = decimal.New(10, -2)

// UniverseEntry is a constituent of the benchmark a basket is built from.
type UniverseEntry struct {
	Symbol string          `json:"symbol"`
	Weight decimal.Decimal `json:"weight"`
	Sector string          `json:"sector,omitempty"`
}

// TargetBasketEntry is a constituent of the target basket.
type TargetBasketEntry struct {
	Symbol string          `json:"symbol"`
	Weight decimal.Decimal `json:"weight"`
	Sector string          `json:"sector,omitempty"`
}

// BasketSpec describes how a benchmark universe is turned into a basket.
type BasketSpec struct {
	Exclusions             []string
	Screens                map[string][]string // Category name to the symbols it removes.
	EnabledScreens         []string
	SingleNameCap          decimal.Decimal
	HoldingsCount          int
	IncludeCashEquivalents bool
	RemovalWarnFraction    decimal.Decimal
	Cash                   CashClassifier
}

// DefaultBasketSpec returns a 5% cap over 100 names.
func DefaultBasketSpec() BasketSpec {
	return BasketSpec{
		SingleNameCap:       decimal.New(5, -2),
		HoldingsCount:       100,
		RemovalWarnFraction: DefaultRemovalWarnFraction,
		Cash:                NewCashClassifier(),
	}
}

// Validate returns a joined *ConfigError for every invalid setting.
func (s BasketSpec) Validate() error {
	var errs []error
	one := decimal.NewFromInt(1)
	if !s.SingleNameCap.IsPositive() || s.SingleNameCap.GreaterThan(one) {
		errs = append(errs, configErrorf("basket.single_name_cap", "must be within (0, 1], got %s", s.SingleNameCap))
	}
	if s.HoldingsCount < 1 {
		errs = append(errs, configErrorf("basket.holdings_count", "must be at least 1, got %d", s.HoldingsCount))
	}
	if s.RemovalWarnFraction.IsNegative() || s.RemovalWarnFraction.GreaterThan(one) {
		errs = append(errs, configErrorf("basket.removal_warn_fraction", "must be within 0 and 1, got %s", s.RemovalWarnFraction))
	}
	for _, name := range s.EnabledScreens {
		if _, ok := s.Screens[name]; !ok {
			errs = append(errs, configErrorf("basket.screens", "unknown screen %q", name))
		}
	}
	return errors.Join(errs...)
}

// FilterStep reports what a basket construction step removed.
type FilterStep struct {
	Name     string          `json:"name"`
	Removed  []string        `json:"removed,omitempty"`
	Fraction decimal.Decimal `json:"fraction"` // Share of the original weight removed.
}

// Basket is a target allocation. Entries are sorted by weight, largest first.
type Basket struct {
	Entries  []TargetBasketEntry `json:"entries"`
	Steps    []FilterStep        `json:"steps"`
	Warnings []Warning           `json:"warnings,omitempty"`
}

// Sectors returns the sector of every entry.
func (b Basket) Sectors() SectorMap {
	res := make(SectorMap, len(b.Entries))
	for _, e := range b.Entries {
		if e.Sector != "" {
			res[e.Symbol] = e.Sector
		}
	}
	return res
}

// BuildTargetBasket filters the universe, caps single names, keeps the
// largest names and renormalizes the weights to sum to one.
func BuildTargetBasket(universe []UniverseEntry, spec BasketSpec) (Basket, error) {
	if err := spec.Validate(); err != nil {
		return Basket{}, err
	}
	var basket Basket

	// merge duplicates, and drop non positive weights.
	var (
		entries []TargetBasketEntry
		index   = make(map[string]int)
		total   decimal.Decimal
		dropped []string
	)
	for _, u := range universe {
		symbol := NormalizeSymbol(u.Symbol)
		if symbol == "" {
			continue
		}
		if !u.Weight.IsPositive() {
			dropped = append(dropped, symbol)
			continue
		}
		total = total.Add(u.Weight)
		if i, ok := index[symbol]; ok {
			entries[i].Weight = entries[i].Weight.Add(u.Weight)
			continue
		}
		index[symbol] = len(entries)
		entries = append(entries, TargetBasketEntry{Symbol: symbol, Weight: u.Weight, Sector: u.Sector})
	}
	basket.Steps = append(basket.Steps, FilterStep{Name: "non_positive", Removed: dropped, Fraction: decimal.Zero})

	filter := func(name string, remove func(TargetBasketEntry) bool) {
		step := FilterStep{Name: name}
		var removed decimal.Decimal
		entries = slices.DeleteFunc(entries, func(e TargetBasketEntry) bool {
			if remove(e) {
				step.Removed = append(step.Removed, e.Symbol)
				removed = removed.Add(e.Weight)
				return true
			}
			return false
		})
		if total.IsPositive() {
			step.Fraction = removed.Div(total)
		}
		basket.Steps = append(basket.Steps, step)
		if step.Fraction.GreaterThan(spec.RemovalWarnFraction) {
			basket.Warnings = append(basket.Warnings, warnf(BasketFilter, "",
				"step %s removed %s%% of the benchmark weight, the basket may no longer track it",
				name, step.Fraction.Shift(2).StringFixed(1)))
		}
	}

	excluded := make(map[string]bool)
	for _, s := range spec.Exclusions {
		excluded[NormalizeSymbol(s)] = true
	}
	filter("exclusions", func(e TargetBasketEntry) bool { return excluded[e.Symbol] })

	for _, name := range spec.EnabledScreens {
		screened := make(map[string]bool)
		for _, s := range spec.Screens[name] {
			screened[NormalizeSymbol(s)] = true
		}
		filter("screen:"+name, func(e TargetBasketEntry) bool { return screened[e.Symbol] })
	}

	if !spec.IncludeCashEquivalents {
		filter("cash_equivalents", func(e TargetBasketEntry) bool { return spec.Cash.IsCashEquivalent(e.Symbol) })
	}

	if len(entries) == 0 {
		basket.Entries = []TargetBasketEntry{}
		basket.Warnings = append(basket.Warnings, warnf(BasketFilter, "", "no symbol left in the basket"))
		return basket, nil
	}

	entries, w := capWeights(entries, spec.SingleNameCap)
	basket.Warnings = append(basket.Warnings, w...)
	sortBasket(entries)

	if len(entries) > spec.HoldingsCount {
		step := FilterStep{Name: "top_n"}
		var removed decimal.Decimal
		for _, e := range entries[spec.HoldingsCount:] {
			step.Removed = append(step.Removed, e.Symbol)
			removed = removed.Add(e.Weight)
		}
		step.Fraction = removed
		basket.Steps = append(basket.Steps, step)
		if removed.GreaterThan(spec.RemovalWarnFraction) {
			basket.Warnings = append(basket.Warnings, warnf(BasketFilter, "",
				"keeping the top %d names removed %s%% of the weight", spec.HoldingsCount, removed.Shift(2).StringFixed(1)))
		}
		entries, w = capWeights(entries[:spec.HoldingsCount], spec.SingleNameCap)
		basket.Warnings = append(basket.Warnings, w...)
		sortBasket(entries)
	}
	basket.Entries = entries
	return basket, nil
}

func sortBasket(entries []TargetBasketEntry) {
	slices.SortFunc(entries, func(a, b TargetBasketEntry) int {
		return cmp.Or(b.Weight.Cmp(a.Weight), cmp.Compare(a.Symbol, b.Symbol))
	})
}

// capWeights renormalizes the weights to sum to one with no weight above
// limit. Names over the limit are pinned at it and their excess is spread
// over the others pro-rata, until no name exceeds the limit. When the limit
// cannot be honored, weights are made equal.
func capWeights(entries []TargetBasketEntry, limit decimal.Decimal) ([]TargetBasketEntry, []Warning) {
	n := len(entries)
	res := slices.Clone(entries)
	if n == 0 {
		return res, nil
	}
	one := decimal.NewFromInt(1)
	count := decimal.NewFromInt(int64(n))
	if limit.Mul(count).LessThan(one) {
		equal := one.Div(count)
		for i := range res {
			res[i].Weight = equal
		}
		return res, []Warning{warnf(CapInfeasible, "",
			"a %s%% cap over %d names cannot sum to 100%%, using equal weights", limit.Shift(2).String(), n)}
	}

	pinned := make([]bool, n)
	for pass := 0; pass <= n; pass++ {
		var (
			free       decimal.Decimal
			pinnedUsed decimal.Decimal
		)
		for i, e := range entries {
			if pinned[i] {
				pinnedUsed = pinnedUsed.Add(limit)
			} else {
				free = free.Add(e.Weight)
			}
		}
		left := one.Sub(pinnedUsed)
		changed := false
		for i, e := range entries {
			if pinned[i] {
				res[i].Weight = limit
				continue
			}
			if free.IsZero() {
				res[i].Weight = decimal.Zero
				continue
			}
			res[i].Weight = e.Weight.Mul(left).Div(free)
			if res[i].Weight.GreaterThan(limit) {
				pinned[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return res, nil
}

// SectorMap maps symbols to their sector.
type SectorMap map[string]string

// Lookup returns the sector of symbol, ignoring case on both the symbol and
// the keys of the map.
func (m SectorMap) Lookup(symbol string) (string, bool) {
	symbol = NormalizeSymbol(symbol)
	if s, ok := m[symbol]; ok && s != "" {
		return s, true
	}
	for k, s := range m {
		if s != "" && NormalizeSymbol(k) == symbol {
			return s, true
		}
	}
	return "", false
}

func (e TargetBasketEntry) String() string {
	return fmt.Sprintf("%s %s%%", e.Symbol, e.Weight.Shift(2).StringFixed(2))
}
