package harvest

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// IssueKind classifies data health problems.
type IssueKind int

const (
	// MissingBasis is raised for a holding without any lot with a known cost basis.
	MissingBasis IssueKind = iota + 1
	// QuantityMismatch is raised when lots do not add up to the held quantity.
	QuantityMismatch
)

func (k IssueKind) String() string {
	switch k {
	case MissingBasis:
		return "missing_basis"
	case QuantityMismatch:
		return "quantity_mismatch"
	default:
		return "unknown"
	}
}

func (k IssueKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ParseIssueKind parses the String() form of an IssueKind.
func ParseIssueKind(s string) (IssueKind, error) {
	switch s {
	case "missing_basis":
		return MissingBasis, nil
	case "quantity_mismatch":
		return QuantityMismatch, nil
	default:
		return 0, fmt.Errorf("unknown issue kind: %q", s)
	}
}

func (k *IssueKind) UnmarshalText(text []byte) (err error) {
	*k, err = ParseIssueKind(string(text))
	return err
}

// Severity of a health issue.
type Severity int

const (
	// Blocking issues stop every workflow until acknowledged.
	Blocking Severity = iota + 1
)

func (s Severity) String() string {
	if s == Blocking {
		return "blocking"
	}
	return "unknown"
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// HealthIssue is a data problem that makes recommendations unreliable.
type HealthIssue struct {
	Symbol          string    `json:"symbol"`
	Kind            IssueKind `json:"kind"`
	Severity        Severity  `json:"severity"`
	Detail          string    `json:"detail"`
	HoldingQuantity Quantity  `json:"holding_quantity"`
	LotQuantity     Quantity  `json:"lot_quantity"`
}

// HealthTolerance is the accepted difference between the held quantity and
// the sum of the lots: the larger of Absolute and Relative times the held
// quantity.
type HealthTolerance struct {
	Absolute Quantity
	Relative decimal.Decimal
}

// DefaultHealthTolerance returns 1e-4 relative and 1e-4 shares absolute.
func DefaultHealthTolerance() HealthTolerance {
	return HealthTolerance{Absolute: Q(decimal.New(1, -4)), Relative: decimal.New(1, -4)}
}

func (t HealthTolerance) allowed(held Quantity) Quantity {
	rel := Q(held.Abs().Decimal().Mul(t.Relative))
	if rel.GreaterThan(t.Absolute) {
		return rel
	}
	return t.Absolute
}

// Validate checks that the tolerance is usable.
func (t HealthTolerance) Validate() error {
	if t.Absolute.IsNegative() {
		return configErrorf("health.absolute", "must be non negative, got %s", t.Absolute)
	}
	if t.Relative.IsNegative() {
		return configErrorf("health.relative", "must be non negative, got %s", t.Relative)
	}
	return nil
}

// Acknowledgements records which issues the user accepted for the current
// session. Its zero value is empty and ready to use.
type Acknowledgements struct {
	set map[ackKey]bool
}

type ackKey struct {
	symbol string
	kind   IssueKind
}

// Acknowledge accepts the issue of that kind on symbol.
func (a *Acknowledgements) Acknowledge(symbol string, kind IssueKind) {
	if a.set == nil {
		a.set = make(map[ackKey]bool)
	}
	a.set[ackKey{NormalizeSymbol(symbol), kind}] = true
}

// Has reports whether the issue has been acknowledged.
func (a Acknowledgements) Has(issue HealthIssue) bool {
	return a.set[ackKey{NormalizeSymbol(issue.Symbol), issue.Kind}]
}

// ParseAcknowledgement parses "SYMBOL:kind", e.g. "VTI:quantity_mismatch".
func ParseAcknowledgement(s string) (symbol string, kind IssueKind, err error) {
	symbol, k, found := strings.Cut(s, ":")
	if !found || symbol == "" {
		return "", 0, fmt.Errorf("invalid acknowledgement %q, want SYMBOL:kind", s)
	}
	kind, err = ParseIssueKind(k)
	if err != nil {
		return "", 0, err
	}
	return NormalizeSymbol(symbol), kind, nil
}

// Len returns the number of acknowledged issues.
func (a Acknowledgements) Len() int { return len(a.set) }

// HealthReport is the outcome of the data health validation.
type HealthReport struct {
	Issues   []HealthIssue `json:"issues"`
	Warnings []Warning     `json:"warnings,omitempty"`
	Checked  int           `json:"checked"` // Number of symbols checked.
}

// Clear reports whether no issue was found.
func (r HealthReport) Clear() bool { return len(r.Issues) == 0 }

// Pending returns the issues not yet acknowledged.
func (r HealthReport) Pending(acks Acknowledgements) []HealthIssue {
	var res []HealthIssue
	for _, issue := range r.Issues {
		if !acks.Has(issue) {
			res = append(res, issue)
		}
	}
	return res
}

// Gate returns a *BlockedError while some issue is not acknowledged.
func (r HealthReport) Gate(acks Acknowledgements) error {
	if pending := r.Pending(acks); len(pending) > 0 {
		return &BlockedError{Issues: pending}
	}
	return nil
}

// ValidateHealth checks that every non cash holding is backed by lots with a
// known basis, and that the lots add up to the held quantity.
func ValidateHealth(holdings []Holding, lots []TaxLot, tol HealthTolerance, cash CashClassifier) HealthReport {
	type position struct {
		held, inLots Quantity
		hasHolding   bool
		hasBasis     bool
	}
	positions := make(map[string]*position)
	get := func(symbol string) *position {
		p, ok := positions[symbol]
		if !ok {
			p = &position{}
			positions[symbol] = p
		}
		return p
	}
	isCash := cashSymbols(holdings)

	for _, h := range holdings {
		symbol := NormalizeSymbol(h.Symbol)
		if isCash[symbol] || cash.IsCashEquivalent(symbol) {
			continue
		}
		p := get(symbol)
		p.hasHolding = true
		p.held = p.held.Add(h.Quantity)
	}

	var report HealthReport
	resolved, warnings := ResolveLots(lots)
	report.Warnings = warnings
	for _, l := range lots {
		symbol := NormalizeSymbol(l.Symbol)
		if symbol == "" || isCash[symbol] || cash.IsCashEquivalent(symbol) {
			continue
		}
		p := get(symbol)
		p.inLots = p.inLots.Add(l.Quantity)
	}
	for _, l := range resolved {
		if p, ok := positions[l.Symbol]; ok {
			p.hasBasis = true
		}
	}

	for symbol, p := range positions {
		if p.hasHolding && p.held.IsPositive() && !p.hasBasis {
			report.Issues = append(report.Issues, HealthIssue{
				Symbol:          symbol,
				Kind:            MissingBasis,
				Severity:        Blocking,
				Detail:          fmt.Sprintf("%s shares held without any lot carrying a cost basis", p.held),
				HoldingQuantity: p.held,
				LotQuantity:     p.inLots,
			})
		}
		diff := p.inLots.Sub(p.held).Abs()
		if diff.GreaterThan(tol.allowed(p.held)) {
			report.Issues = append(report.Issues, HealthIssue{
				Symbol:          symbol,
				Kind:            QuantityMismatch,
				Severity:        Blocking,
				Detail:          fmt.Sprintf("lots add up to %s shares but %s are held", p.inLots, p.held),
				HoldingQuantity: p.held,
				LotQuantity:     p.inLots,
			})
		}
	}
	report.Checked = len(positions)

	slices.SortFunc(report.Issues, func(a, b HealthIssue) int {
		return cmp.Or(cmp.Compare(a.Symbol, b.Symbol), cmp.Compare(a.Kind, b.Kind))
	})
	return report
}
