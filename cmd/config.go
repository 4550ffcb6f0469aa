package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/etnz/harvest"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// configValidate checks configuration files.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		return harvest.ValidSymbol(fl.Field().String())
	})
}

// FileConfig is the content of harvest.yaml. Missing fields keep their default.
type FileConfig struct {
	CashEquivalents []string `yaml:"cash_equivalents" validate:"dive,symbol"`
	Health          struct {
		AbsoluteTolerance *float64 `yaml:"absolute_tolerance" validate:"omitempty,gte=0"`
		RelativeTolerance *float64 `yaml:"relative_tolerance" validate:"omitempty,gte=0"`
	} `yaml:"health"`
	TLH struct {
		MinLoss            *float64 `yaml:"min_loss" validate:"omitempty,gte=0"`
		MinLossPercent     *float64 `yaml:"min_loss_percent" validate:"omitempty,gte=0,lte=100"`
		TermPreference     string   `yaml:"term_preference" validate:"omitempty,oneof=auto short neutral"`
		Goal               string   `yaml:"goal" validate:"omitempty,oneof=offset_realized_gains harvest_opportunistically"`
		MaxCandidates      *int     `yaml:"max_candidates" validate:"omitempty,gte=0"`
		NearLongTermDays   *int     `yaml:"near_long_term_days" validate:"omitempty,gte=0"`
		WashSaleWindowDays *int     `yaml:"wash_sale_window_days" validate:"omitempty,gte=0"`
		BudgetTolerance    *float64 `yaml:"budget_tolerance" validate:"omitempty,gte=0,lt=1"`
	} `yaml:"tlh"`
	Tax struct {
		ShortTerm     *float64 `yaml:"short_term" validate:"omitempty,gte=0,lte=1"`
		LongTerm      *float64 `yaml:"long_term" validate:"omitempty,gte=0,lte=1"`
		State         *float64 `yaml:"state" validate:"omitempty,gte=0,lte=1"`
		CarryDiscount *float64 `yaml:"carry_discount" validate:"omitempty,gte=0,lte=1"`
	} `yaml:"tax"`
	Basket struct {
		SingleNameCap          *float64            `yaml:"single_name_cap" validate:"omitempty,gt=0,lte=1"`
		HoldingsCount          *int                `yaml:"holdings_count" validate:"omitempty,gte=1"`
		Exclusions             []string            `yaml:"exclusions" validate:"dive,symbol"`
		Screens                map[string][]string `yaml:"screens" validate:"dive,dive,symbol"`
		EnabledScreens         []string            `yaml:"enabled_screens"`
		IncludeCashEquivalents bool                `yaml:"include_cash_equivalents"`
		RemovalWarnFraction    *float64            `yaml:"removal_warn_fraction" validate:"omitempty,gte=0,lte=1"`
	} `yaml:"basket"`
	Sell struct {
		Tolerance  *float64 `yaml:"tolerance" validate:"omitempty,gte=0"`
		DriftAware *bool    `yaml:"drift_aware"`
	} `yaml:"sell"`
	Withdrawal struct {
		CushionPercent *float64 `yaml:"cushion_percent" validate:"omitempty,gte=0,lte=100"`
	} `yaml:"withdrawal"`
	Transition struct {
		BufferPercent *float64 `yaml:"buffer_percent" validate:"omitempty,gte=0,lte=100"`
		UseCashFirst  *bool    `yaml:"use_cash_first"`
	} `yaml:"transition"`
}

// DecodeConfig reads and validates a configuration file, unknown fields are errors.
func DecodeConfig(r io.Reader) (harvest.Config, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return harvest.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := configValidate.Struct(fc); err != nil {
		return harvest.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return fc.Config()
}

// LoadConfig reads the configuration file at path. A missing file is the
// default configuration unless required.
func LoadConfig(path string, required bool) (harvest.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return harvest.DefaultConfig(), nil
	}
	if err != nil {
		return harvest.Config{}, fmt.Errorf("cannot open configuration: %w", err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return harvest.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Config applies the file on top of the default configuration.
func (fc FileConfig) Config() (harvest.Config, error) {
	cfg := harvest.DefaultConfig().WithCashEquivalents(fc.CashEquivalents...)

	setDecimal := func(dst *decimal.Decimal, v *float64) {
		if v != nil {
			*dst = decimal.NewFromFloat(*v)
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setPercent := func(dst *harvest.Percent, v *float64) {
		if v != nil {
			*dst = harvest.Percent(*v)
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	if v := fc.Health.AbsoluteTolerance; v != nil {
		cfg.Health.Absolute = harvest.Q(*v)
	}
	setDecimal(&cfg.Health.Relative, fc.Health.RelativeTolerance)

	if v := fc.TLH.MinLoss; v != nil {
		cfg.TLH.MinLoss = harvest.USD(*v)
	}
	setPercent(&cfg.TLH.MinLossPercent, fc.TLH.MinLossPercent)
	if fc.TLH.TermPreference != "" {
		p, err := harvest.ParseTermPreference(fc.TLH.TermPreference)
		if err != nil {
			return harvest.Config{}, err
		}
		cfg.TLH.TermPreference = p
	}
	if fc.TLH.Goal != "" {
		g, err := harvest.ParseGoal(fc.TLH.Goal)
		if err != nil {
			return harvest.Config{}, err
		}
		cfg.TLH.Goal = g
	}
	setInt(&cfg.TLH.MaxCandidates, fc.TLH.MaxCandidates)
	setInt(&cfg.TLH.NearLongTermDays, fc.TLH.NearLongTermDays)
	setInt(&cfg.TLH.WashSaleWindowDays, fc.TLH.WashSaleWindowDays)
	setDecimal(&cfg.TLH.BudgetTolerance, fc.TLH.BudgetTolerance)

	setDecimal(&cfg.Tax.ShortTerm, fc.Tax.ShortTerm)
	setDecimal(&cfg.Tax.LongTerm, fc.Tax.LongTerm)
	setDecimal(&cfg.Tax.State, fc.Tax.State)
	setDecimal(&cfg.Tax.CarryDiscount, fc.Tax.CarryDiscount)

	setDecimal(&cfg.Basket.SingleNameCap, fc.Basket.SingleNameCap)
	setInt(&cfg.Basket.HoldingsCount, fc.Basket.HoldingsCount)
	setDecimal(&cfg.Basket.RemovalWarnFraction, fc.Basket.RemovalWarnFraction)
	cfg.Basket.Exclusions = fc.Basket.Exclusions
	cfg.Basket.Screens = fc.Basket.Screens
	cfg.Basket.EnabledScreens = fc.Basket.EnabledScreens
	cfg.Basket.IncludeCashEquivalents = fc.Basket.IncludeCashEquivalents
	if err := cfg.Basket.Validate(); err != nil {
		return harvest.Config{}, err
	}

	if v := fc.Sell.Tolerance; v != nil {
		cfg.Sell.Tolerance = harvest.USD(*v)
	}
	setBool(&cfg.Sell.DriftAware, fc.Sell.DriftAware)
	setPercent(&cfg.Withdrawal.CushionPercent, fc.Withdrawal.CushionPercent)
	setPercent(&cfg.Transition.BufferPercent, fc.Transition.BufferPercent)
	setBool(&cfg.Transition.UseCashFirst, fc.Transition.UseCashFirst)

	return cfg, cfg.Validate()
}
