package harvest

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// UniverseFormat locates the constituents in a benchmark JSON document.
type UniverseFormat struct {
	Path   string // JSONPath to the list of constituents, e.g. "$.holdings[*]".
	Symbol string // Field names within a constituent.
	Weight string
	Sector string
}

// DefaultUniverseFormat reads a top level array of {symbol, weight, sector}.
func DefaultUniverseFormat() UniverseFormat {
	return UniverseFormat{Path: "$[*]", Symbol: "symbol", Weight: "weight", Sector: "sector"}
}

// ImportUniverse reads benchmark constituents from a JSON document, such as
// an ETF holdings export. Constituents without a symbol or a weight are
// skipped with a warning.
func ImportUniverse(r io.Reader, format UniverseFormat) ([]UniverseEntry, []Warning, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, nil, fmt.Errorf("cannot decode universe: %w", err)
	}
	jval, err := jsonpath.Get(format.Path, jobj)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot select %q in universe: %w", format.Path, err)
	}
	// a path to a single array returns it directly, a wildcard returns the elements.
	jlist, ok := jval.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("path %q does not select a list but %T", format.Path, jval)
	}
	if len(jlist) == 1 {
		if inner, ok := jlist[0].([]any); ok {
			jlist = inner
		}
	}

	var (
		entries  []UniverseEntry
		warnings []Warning
	)
	for i, item := range jlist {
		obj, ok := item.(map[string]any)
		if !ok {
			warnings = append(warnings, warnf(InvalidLot, "", "constituent #%d is not an object", i+1))
			continue
		}
		symbol, _ := obj[format.Symbol].(string)
		symbol = NormalizeSymbol(symbol)
		if symbol == "" {
			warnings = append(warnings, warnf(InvalidLot, "", "constituent #%d has no %q", i+1, format.Symbol))
			continue
		}
		weight, err := jsonDecimal(obj[format.Weight])
		if err != nil {
			warnings = append(warnings, warnf(InvalidLot, symbol, "invalid %q: %v", format.Weight, err))
			continue
		}
		sector, _ := obj[format.Sector].(string)
		entries = append(entries, UniverseEntry{Symbol: symbol, Weight: weight, Sector: strings.TrimSpace(sector)})
	}
	return entries, warnings, nil
}

// jsonDecimal converts a JSON number or a numeric string like "6.5%" to a
// decimal. Percent signs are dropped, weights are renormalized anyway.
func jsonDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(x), "%")
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return decimal.Zero, fmt.Errorf("not a number %q", x)
		}
		return decimal.NewFromString(s)
	case nil:
		return decimal.Zero, fmt.Errorf("missing")
	default:
		return decimal.Zero, fmt.Errorf("unexpected %T", v)
	}
}
