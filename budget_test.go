package harvest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func rankedLosses(losses ...int) []TLHCandidate {
	res := make([]TLHCandidate, len(losses))
	for i, l := range losses {
		res[i] = TLHCandidate{Lot: TaxLot{ID: string(rune('a' + i))}, Gain: USD(-l), Rank: i + 1}
	}
	return res
}

func TestApplyLossBudget_Offset(t *testing.T) {
	ranked := rankedLosses(3000, 2000, 1000)
	got, status := ApplyLossBudget(ranked, RealizedSummary{ShortTerm: USD(4000)}, OffsetRealizedGains, DefaultBudgetTolerance)

	if len(got) != 2 {
		t.Fatalf("ApplyLossBudget() kept %d candidates, want 2", len(got))
	}
	if !status.Threshold.Equal(USD(3920)) {
		t.Errorf("Threshold = %v, want $3,920", status.Threshold)
	}
	if !status.Projected.Equal(USD(5000)) || !status.Met || status.Dropped != 1 {
		t.Errorf("status = %+v, want projected $5,000, met, one dropped", status)
	}
	if !got[0].BudgetRemaining.Equal(USD(920)) || !got[1].BudgetRemaining.IsZero() {
		t.Errorf("BudgetRemaining = %v, %v, want $920, $0", got[0].BudgetRemaining, got[1].BudgetRemaining)
	}
	if ranked[0].BudgetRemaining.IsPositive() {
		t.Errorf("ApplyLossBudget() mutated its input")
	}
}

// The kept list is the smallest prefix reaching the threshold.
func TestApplyLossBudget_SmallestPrefix(t *testing.T) {
	ranked := rankedLosses(500, 400, 300, 200, 100)
	for target := 1; target <= 1600; target += 50 {
		summary := RealizedSummary{LongTerm: USD(target)}
		got, _ := ApplyLossBudget(ranked, summary, OffsetRealizedGains, decimal.Zero)
		var sum int64
		for _, c := range got {
			sum += c.Loss().Decimal().IntPart()
		}
		if sum < int64(target) && len(got) != len(ranked) {
			t.Errorf("target %d: kept %d candidates summing %d, below target", target, len(got), sum)
		}
		if len(got) > 1 {
			prev := sum - got[len(got)-1].Loss().Decimal().IntPart()
			if prev >= int64(target) {
				t.Errorf("target %d: prefix of %d already reached the target", target, len(got)-1)
			}
		}
	}
}

func TestApplyLossBudget_NoGains(t *testing.T) {
	ranked := rankedLosses(300, 100)
	got, status := ApplyLossBudget(ranked, RealizedSummary{ShortTerm: USD(-50)}, OffsetRealizedGains, DefaultBudgetTolerance)
	if len(got) != 2 || got[0].Lot.ID != "a" || got[1].Lot.ID != "b" {
		t.Errorf("ApplyLossBudget() = %v, want both candidates in rank order", got)
	}
	if status.Met || status.Dropped != 0 {
		t.Errorf("status = %+v, want unmet with nothing dropped", status)
	}
	if !status.Projected.Equal(USD(400)) {
		t.Errorf("Projected = %v, want $400", status.Projected)
	}
	if len(status.Warnings) != 1 || status.Warnings[0].Kind != NoGains {
		t.Errorf("Warnings = %v, want a no gains warning", status.Warnings)
	}
}

func TestApplyLossBudget_Opportunistic(t *testing.T) {
	ranked := rankedLosses(3000, 2000, 1000)
	got, status := ApplyLossBudget(ranked, RealizedSummary{ShortTerm: USD(100)}, HarvestOpportunistically, DefaultBudgetTolerance)
	if len(got) != 3 || status.Dropped != 0 {
		t.Errorf("ApplyLossBudget() kept %d, dropped %d, want all", len(got), status.Dropped)
	}
	for i := range got {
		if got[i].Lot.ID != ranked[i].Lot.ID {
			t.Errorf("ApplyLossBudget() reordered candidate %d", i)
		}
	}
}
