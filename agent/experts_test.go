package agent

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/etnz/harvest"
	"github.com/etnz/harvest/date"
	"google.golang.org/genai"
)

func analysis(t *testing.T) *harvest.Analysis {
	t.Helper()
	f, err := os.Open("../testdata/snapshot.jsonl")
	if err != nil {
		t.Fatalf("cannot open snapshot: %v", err)
	}
	defer f.Close()
	s, err := harvest.DecodeSnapshot(f)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	a, err := harvest.NewAnalysis(s, harvest.DefaultConfig(), date.Date{})
	if err != nil {
		t.Fatalf("NewAnalysis() error = %v", err)
	}
	return a
}

func call(lib Library, name string, args map[string]any) *genai.FunctionResponse {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
}

func TestAnalystFunctions(t *testing.T) {
	a := analysis(t)
	lib := NewLibrary(AnalystFunctions(a))

	resp := call(lib, "Health", nil)
	if out, _ := resp.Response["output"].(string); !strings.Contains(out, "quantity_mismatch") {
		t.Errorf("Health output = %v, want the VTI mismatch", resp.Response)
	}

	// The snapshot has a blocking issue: the workflows report it as an error.
	resp = call(lib, "Harvest", nil)
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Harvest response = %v, want an error while blocked", resp.Response)
	}

	a.AcknowledgeAll()
	resp = call(lib, "Harvest", nil)
	if out, _ := resp.Response["output"].(string); !strings.Contains(out, "# Harvest Proposal") {
		t.Errorf("Harvest response = %v, want a proposal", resp.Response)
	}

	resp = call(lib, "Withdraw", map[string]any{"amount": 1000.0})
	if out, _ := resp.Response["output"].(string); !strings.Contains(out, "# Withdrawal Plan") {
		t.Errorf("Withdraw response = %v, want a plan", resp.Response)
	}
	resp = call(lib, "Withdraw", map[string]any{"amount": "lots"})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Withdraw response = %v, want an error for a bad amount", resp.Response)
	}
	resp = call(lib, "Withdraw", map[string]any{"amount": 1000.0, "exclusions": []any{"not a symbol"}})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Withdraw response = %v, want an error for a bad exclusion", resp.Response)
	}

	resp = call(lib, "Transition", map[string]any{"allocation": 5000.0, "exclusions": []any{"aapl"}})
	if out, _ := resp.Response["output"].(string); !strings.Contains(out, "# Transition Plan") {
		t.Errorf("Transition response = %v, want a plan", resp.Response)
	}

	resp = call(lib, "Drift", nil)
	if out, _ := resp.Response["output"].(string); !strings.Contains(out, "# Drift Report") {
		t.Errorf("Drift response = %v", resp.Response)
	}

	resp = call(lib, "Topic", map[string]any{"topic": "washsale"})
	if out, _ := resp.Response["output"].(string); !strings.Contains(out, "# Wash Sales") {
		t.Errorf("Topic response = %v", resp.Response)
	}

	resp = call(lib, "Unknown", nil)
	if got, want := resp.Response["error"], "unknown function Unknown"; got != want {
		t.Errorf("Unknown response error = %v, want %v", got, want)
	}
}

func TestDeclarations(t *testing.T) {
	decls := NewDeclaration(AnalystFunctions(analysis(t)))
	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	if got, want := strings.Join(names, ","), "Health,Harvest,Withdraw,Transition,Drift,Topic"; got != want {
		t.Errorf("declarations = %s, want %s", got, want)
	}

	e := NewAnalyst(analysis(t))
	if d := e.Declaration(); d.Name != "Analyst" || d.Parameters.Required[0] != "question" {
		t.Errorf("Declaration() = %+v", d)
	}
	f := newFacilitator(e, NewResearcher())
	if got := len(f.Config.Tools[0].FunctionDeclarations); got != 2 {
		t.Errorf("facilitator tools = %d, want 2", got)
	}
}
