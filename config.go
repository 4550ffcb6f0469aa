package harvest

import "errors"

// Config gathers every tunable of the engine. It is passed explicitly to
// each computation, the engine reads no other settings.
type Config struct {
	Cash       CashClassifier
	Health     HealthTolerance
	TLH        TLHOptions
	Tax        TaxRates
	Basket     BasketSpec
	Sell       SellConfig
	Withdrawal WithdrawalConfig
	Transition TransitionConfig
}

// SellConfig tunes the MinTax lot selection shared by the workflows.
type SellConfig struct {
	Tolerance Money
	// DriftAware breaks ties by selling overweight symbols first.
	DriftAware bool
}

// WithdrawalConfig holds the withdrawal workflow defaults.
type WithdrawalConfig struct {
	CushionPercent Percent // Extra cash raised on top of the requested amount.
}

// TransitionConfig holds the transition workflow defaults.
type TransitionConfig struct {
	BufferPercent Percent
	UseCashFirst  bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	cash := NewCashClassifier()
	tlh := DefaultTLHOptions()
	tlh.Cash = cash
	basket := DefaultBasketSpec()
	basket.Cash = cash
	return Config{
		Cash:       cash,
		Health:     DefaultHealthTolerance(),
		TLH:        tlh,
		Tax:        DefaultTaxRates(),
		Basket:     basket,
		Sell:       SellConfig{Tolerance: DefaultSellTolerance, DriftAware: true},
		Withdrawal: WithdrawalConfig{CushionPercent: 1},
		Transition: TransitionConfig{UseCashFirst: true},
	}
}

// WithCashEquivalents returns a copy of c where every component knows the
// extra cash equivalents.
func (c Config) WithCashEquivalents(extra ...string) Config {
	c.Cash = NewCashClassifier(extra...)
	c.TLH.Cash = c.Cash
	c.Basket.Cash = c.Cash
	return c
}

// Validate returns every configuration problem joined in a single error.
// The basket is not validated here as it is only used by basket commands.
func (c Config) Validate() error {
	errs := []error{
		c.Health.Validate(),
		c.TLH.Validate(),
		c.Tax.Validate(),
	}
	if c.Sell.Tolerance.IsNegative() {
		errs = append(errs, configErrorf("sell.tolerance", "must be non negative, got %s", c.Sell.Tolerance))
	}
	if c.Withdrawal.CushionPercent < 0 {
		errs = append(errs, configErrorf("withdrawal.cushion_percent", "must be non negative, got %v", float64(c.Withdrawal.CushionPercent)))
	}
	if c.Transition.BufferPercent < 0 {
		errs = append(errs, configErrorf("transition.buffer_percent", "must be non negative, got %v", float64(c.Transition.BufferPercent)))
	}
	return errors.Join(errs...)
}

// percentOf returns p percent of m.
func percentOf(m Money, p Percent) Money {
	if p == 0 {
		return Money{cur: m.cur}
	}
	return m.Scale(p.Fraction()).Round()
}
