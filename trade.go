package harvest

import (
	"fmt"
	"strings"

	"github.com/etnz/harvest/date"
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide parses "buy", "b", "sell" or "s" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "b", "bought":
		return Buy, nil
	case "sell", "s", "sold":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown trade side: %q", s)
	}
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(text []byte) (err error) {
	*s, err = ParseSide(string(text))
	return err
}

// Trade is a recent execution in the account, used to detect wash sales.
type Trade struct {
	Symbol   string    `json:"symbol"`
	Date     date.Date `json:"date"`
	Quantity Quantity  `json:"quantity"`
	Side     Side      `json:"side"`
}
