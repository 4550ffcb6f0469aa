package cmd

import (
	"fmt"
	"strings"

	"github.com/etnz/harvest"
	"github.com/shopspring/decimal"
)

// parseAmount parses a dollar amount flag, empty is zero.
func parseAmount(name, s string) (harvest.Money, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return harvest.Money{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return harvest.Money{}, fmt.Errorf("invalid -%s %q: %w", name, s, err)
	}
	if d.IsNegative() {
		return harvest.Money{}, fmt.Errorf("-%s must not be negative, got %s", name, s)
	}
	return harvest.USD(d), nil
}

// symbolList is a comma separated list of symbols that can also be repeated.
type symbolList []string

func (l *symbolList) String() string { return strings.Join(*l, ",") }
func (l *symbolList) Set(s string) error {
	for _, sym := range strings.Split(s, ",") {
		sym = harvest.NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		if !harvest.ValidSymbol(sym) {
			return fmt.Errorf("invalid symbol %q", sym)
		}
		*l = append(*l, sym)
	}
	return nil
}
