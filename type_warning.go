package harvest

import "fmt"

// WarningKind classifies non fatal problems found while computing a plan.
type WarningKind int

const (
	MissingPrice WarningKind = iota + 1
	InvalidLot
	Excluded
	InsufficientInventory
	BasketFilter
	CapInfeasible
	NoGains
	WashSaleRisk
	MissingValue
	NoRealizedRows
)

var warningKindNames = map[WarningKind]string{
	MissingPrice:          "missing_price",
	InvalidLot:            "invalid_lot",
	Excluded:              "excluded",
	InsufficientInventory: "insufficient_inventory",
	BasketFilter:          "basket_filter",
	CapInfeasible:         "cap_infeasible",
	NoGains:               "no_gains",
	WashSaleRisk:          "wash_sale_risk",
	MissingValue:          "missing_value",
	NoRealizedRows:        "no_realized_rows",
}

func (k WarningKind) String() string {
	if s, ok := warningKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k WarningKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *WarningKind) UnmarshalText(text []byte) error {
	for kind, name := range warningKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown warning kind: %q", text)
}

// Warning is a recoverable problem. Computation continues and the warning is
// reported next to the result.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Symbol  string      `json:"symbol,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Symbol == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s %s: %s", w.Kind, w.Symbol, w.Message)
}

func warnf(kind WarningKind, symbol, format string, args ...any) Warning {
	return Warning{Kind: kind, Symbol: symbol, Message: fmt.Sprintf(format, args...)}
}
