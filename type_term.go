package harvest

import (
	"fmt"
	"strings"

	"github.com/etnz/harvest/date"
)

// LongTermDays is the holding period after which a lot is long-term.
const LongTermDays = 365

// Term is the holding period classification of a lot or a realized gain.
type Term int

const (
	// UnknownTerm is used when the holding period cannot be determined.
	UnknownTerm Term = iota
	// ShortTerm lots have been held less than LongTermDays.
	ShortTerm
	// LongTerm lots have been held at least LongTermDays.
	LongTerm
)

func (t Term) String() string {
	switch t {
	case ShortTerm:
		return "ST"
	case LongTerm:
		return "LT"
	default:
		return "unknown"
	}
}

// ParseTerm parses a string into a Term.
func ParseTerm(s string) (Term, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "st", "short", "short-term", "short_term":
		return ShortTerm, nil
	case "lt", "long", "long-term", "long_term":
		return LongTerm, nil
	case "", "unknown":
		return UnknownTerm, nil
	default:
		return UnknownTerm, fmt.Errorf("unknown term: %q", s)
	}
}

func (t Term) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Term) UnmarshalText(text []byte) (err error) {
	*t, err = ParseTerm(string(text))
	return err
}

// termOf classifies a lot acquired on 'acquired' if it were sold on 'on'.
func termOf(acquired, on date.Date) Term {
	if acquired.IsZero() {
		return UnknownTerm
	}
	if on.Sub(acquired) < LongTermDays {
		return ShortTerm
	}
	return LongTerm
}
