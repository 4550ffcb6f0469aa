package harvest

import "github.com/shopspring/decimal"

// DefaultBudgetTolerance lets the harvested losses stop 2% short of the
// realized gains to offset.
var DefaultBudgetTolerance = decimal.New(2, -2)

// LossBudgetStatus reports how far the harvesting candidates go toward the
// realized gains.
type LossBudgetStatus struct {
	Goal      Goal      `json:"goal"`
	Target    Money     `json:"target"`    // Realized gains to offset.
	Threshold Money     `json:"threshold"` // Target less the tolerance.
	Projected Money     `json:"projected"` // Losses harvested by the kept candidates.
	Remaining Money     `json:"remaining"` // Threshold not covered yet.
	Met       bool      `json:"met"`
	Dropped   int       `json:"dropped"` // Candidates removed by the budget.
	Warnings  []Warning `json:"warnings,omitempty"`
}

// LossTarget returns the losses needed to offset the realized gains for
// goal. Opportunistic harvesting has no target.
func LossTarget(summary RealizedSummary, goal Goal) Money {
	if goal != OffsetRealizedGains {
		return Money{}
	}
	return summary.NetGain()
}

// ApplyLossBudget keeps the smallest prefix of ranked candidates whose
// losses reach the realized gains, less the tolerance, when the goal is to
// offset realized gains. With no net realized gain the list is kept whole.
// Candidates are never reordered.
func ApplyLossBudget(ranked []TLHCandidate, summary RealizedSummary, goal Goal, tol decimal.Decimal) ([]TLHCandidate, LossBudgetStatus) {
	status := LossBudgetStatus{Goal: goal, Target: LossTarget(summary, goal)}
	status.Threshold = status.Target.Scale(decimal.NewFromInt(1).Sub(tol))

	if goal != OffsetRealizedGains {
		res := make([]TLHCandidate, len(ranked))
		copy(res, ranked)
		for _, c := range res {
			status.Projected = status.Projected.Add(c.Loss())
		}
		status.Met = true
		return res, status
	}

	// Without gains to offset there is no budget: every qualifying
	// candidate is listed and the target stays unmet.
	if !status.Target.IsPositive() {
		res := make([]TLHCandidate, len(ranked))
		copy(res, ranked)
		for _, c := range res {
			status.Projected = status.Projected.Add(c.Loss())
		}
		status.Warnings = append(status.Warnings, warnf(NoGains, "", "no net realized gains to offset, listing every qualifying candidate"))
		return res, status
	}

	res := make([]TLHCandidate, 0, len(ranked))
	for _, c := range ranked {
		status.Projected = status.Projected.Add(c.Loss())
		c.BudgetRemaining = MaxMoney(Money{}, status.Threshold.Sub(status.Projected))
		res = append(res, c)
		if status.Projected.GreaterThanOrEqual(status.Threshold) {
			status.Met = true
			break
		}
	}
	status.Remaining = MaxMoney(Money{}, status.Threshold.Sub(status.Projected))
	status.Dropped = len(ranked) - len(res)
	return res, status
}
