package harvest

import (
	"fmt"
	"strings"
)

// Goal drives how many harvesting candidates are surfaced.
type Goal int

const (
	// OffsetRealizedGains stops suggesting losses once realized gains are offset.
	OffsetRealizedGains Goal = iota
	// HarvestOpportunistically surfaces every qualifying candidate.
	HarvestOpportunistically
)

func (g Goal) String() string {
	switch g {
	case OffsetRealizedGains:
		return "offset_realized_gains"
	case HarvestOpportunistically:
		return "harvest_opportunistically"
	default:
		return "unknown"
	}
}

// ParseGoal parses a string into a Goal.
func ParseGoal(s string) (Goal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "offset_realized_gains", "offset_gains", "offset":
		return OffsetRealizedGains, nil
	case "harvest_opportunistically", "opportunistic":
		return HarvestOpportunistically, nil
	default:
		return 0, fmt.Errorf("unknown goal: %q", s)
	}
}

func (g Goal) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Goal) UnmarshalText(text []byte) (err error) {
	*g, err = ParseGoal(string(text))
	return err
}

// TermPreference controls the primary ranking key of harvesting candidates.
type TermPreference int

const (
	// AutoTerm ranks short-term losses first only when short-term gains were realized.
	AutoTerm TermPreference = iota
	// PreferShortTerm always ranks short-term losses first.
	PreferShortTerm
	// NeutralTerm ignores the term when ranking.
	NeutralTerm
)

func (p TermPreference) String() string {
	switch p {
	case AutoTerm:
		return "auto"
	case PreferShortTerm:
		return "short"
	case NeutralTerm:
		return "neutral"
	default:
		return "unknown"
	}
}

// ParseTermPreference parses a string into a TermPreference.
func ParseTermPreference(s string) (TermPreference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return AutoTerm, nil
	case "short", "short_term", "st":
		return PreferShortTerm, nil
	case "neutral", "none":
		return NeutralTerm, nil
	default:
		return 0, fmt.Errorf("unknown term preference: %q", s)
	}
}

func (p TermPreference) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *TermPreference) UnmarshalText(text []byte) (err error) {
	*p, err = ParseTermPreference(string(text))
	return err
}
