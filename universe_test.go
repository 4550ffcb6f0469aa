package harvest

import (
	"strings"
	"testing"
)

func TestImportUniverse(t *testing.T) {
	doc := `{
		"fund": "Example 500",
		"holdings": [
			{"ticker": "aapl", "pct": "7.1%", "gics": "Technology"},
			{"ticker": "MSFT", "pct": 6.5, "gics": "Technology"},
			{"ticker": "", "pct": 1},
			{"ticker": "JPM", "pct": "n/a", "gics": "Financials"}
		]
	}`
	format := UniverseFormat{Path: "$.holdings[*]", Symbol: "ticker", Weight: "pct", Sector: "gics"}
	entries, warnings, err := ImportUniverse(strings.NewReader(doc), format)
	if err != nil {
		t.Fatalf("ImportUniverse() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ImportUniverse() = %v, want 2 entries", entries)
	}
	if entries[0].Symbol != "AAPL" || !entries[0].Weight.Equal(d(7.1)) || entries[0].Sector != "Technology" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if !entries[1].Weight.Equal(d(6.5)) {
		t.Errorf("entries[1].Weight = %s, want 6.5", entries[1].Weight)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want 2", warnings)
	}
}

func TestImportUniverse_Default(t *testing.T) {
	doc := `[{"symbol":"SPY","weight":0.5},{"symbol":"QQQ","weight":0.5,"sector":"Technology"}]`
	entries, _, err := ImportUniverse(strings.NewReader(doc), DefaultUniverseFormat())
	if err != nil {
		t.Fatalf("ImportUniverse() error = %v", err)
	}
	if len(entries) != 2 || entries[1].Sector != "Technology" {
		t.Errorf("ImportUniverse() = %+v", entries)
	}
}
