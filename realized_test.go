package harvest

import (
	"testing"

	"github.com/etnz/harvest/date"
)

func TestSummarizeRealized(t *testing.T) {
	rows := []RealizedRow{
		{Symbol: "AAPL", Sold: date.New(2025, 2, 1), Gain: ptr(USD(1000)), Term: ShortTerm},
		{Symbol: "MSFT", Sold: date.New(2025, 2, 1), Gain: ptr(USD(-300)), Term: LongTerm, Disallowed: ptr(USD(25))},
		{Symbol: "VTI", Acquired: date.New(2020, 1, 1), Sold: date.New(2025, 2, 1), Cost: ptr(USD(100)), Proceeds: ptr(USD(600))},
		{Symbol: "X", Sold: date.New(2025, 2, 1), Gain: ptr(USD(50))},
		{Symbol: "BAD", Sold: date.New(2025, 2, 1)},
	}
	s := SummarizeRealized(rows)
	if !s.ShortTerm.Equal(USD(1000)) {
		t.Errorf("ShortTerm = %v, want $1,000", s.ShortTerm)
	}
	if !s.LongTerm.Equal(USD(200)) {
		t.Errorf("LongTerm = %v, want $200", s.LongTerm)
	}
	if !s.Unknown.Equal(USD(50)) {
		t.Errorf("Unknown = %v, want $50", s.Unknown)
	}
	if !s.WashSaleDisallowed.Equal(USD(25)) {
		t.Errorf("WashSaleDisallowed = %v, want $25", s.WashSaleDisallowed)
	}
	if s.Rows != 4 {
		t.Errorf("Rows = %d, want 4", s.Rows)
	}
	if !s.Total().Equal(USD(1250)) || !s.NetGain().Equal(USD(1250)) {
		t.Errorf("Total() = %v, NetGain() = %v, want $1,250", s.Total(), s.NetGain())
	}
	if len(s.Warnings) != 1 {
		t.Errorf("Warnings = %v, want 1", s.Warnings)
	}
}

func TestSummarizeRealized_Empty(t *testing.T) {
	s := SummarizeRealized(nil)
	if !s.NetGain().IsZero() {
		t.Errorf("NetGain() = %v, want 0", s.NetGain())
	}
	if len(s.Warnings) != 1 || s.Warnings[0].Kind != NoRealizedRows {
		t.Errorf("Warnings = %v, want a no realized rows warning", s.Warnings)
	}
	loss := RealizedSummary{ShortTerm: USD(-500)}
	if !loss.NetGain().IsZero() {
		t.Errorf("NetGain() of a net loss = %v, want 0", loss.NetGain())
	}
}
