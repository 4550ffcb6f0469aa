package harvest

// Tier is the MinTax selling priority of a lot. Lower tiers are sold first.
type Tier int

const (
	ShortTermLoss Tier = iota + 1
	LongTermLoss
	LongTermGain
	ShortTermGain
)

func (t Tier) String() string {
	switch t {
	case ShortTermLoss:
		return "short_term_loss"
	case LongTermLoss:
		return "long_term_loss"
	case LongTermGain:
		return "long_term_gain"
	case ShortTermGain:
		return "short_term_gain"
	default:
		return "unknown"
	}
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// rationale explains why a lot of that tier is sold.
func (t Tier) rationale() string {
	switch t {
	case ShortTermLoss:
		return "tier 1 short-term loss: realizes a loss taxed at the short-term rate"
	case LongTermLoss:
		return "tier 2 long-term loss: realizes a loss without any taxable gain"
	case LongTermGain:
		return "tier 3 long-term gain: highest basis first to limit the taxable gain"
	case ShortTermGain:
		return "tier 4 short-term gain: last resort, taxed at the short-term rate"
	default:
		return ""
	}
}

func tierOf(term Term, gain Money) Tier {
	switch {
	case gain.IsNegative() && term == ShortTerm:
		return ShortTermLoss
	case gain.IsNegative():
		return LongTermLoss
	case term == LongTerm:
		return LongTermGain
	default:
		return ShortTermGain
	}
}
