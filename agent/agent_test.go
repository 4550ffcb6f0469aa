package agent

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/etnz/harvest"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestBriefing(t *testing.T) {
	a := analysis(t)

	got := Briefing(a)
	want := []string{
		"Which data issues block the plans on VTI, and how do I fix them?",
		"How are the lots reconciled with the holdings?",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Briefing() while blocked mismatch (-want +got):\n%s", diff)
	}

	a.AcknowledgeAll()
	got = Briefing(a)
	if len(got) < 2 {
		t.Fatalf("Briefing() = %v, want the plan questions", got)
	}
	if !strings.HasPrefix(got[0], "Why is AAPL the top harvesting candidate") {
		t.Errorf("Briefing()[0] = %q, want a question about AAPL", got[0])
	}
	if !strings.Contains(strings.Join(got, "\n"), "realized gains do the candidates offset") {
		t.Errorf("Briefing() = %v, want a question about the loss budget", got)
	}
	if last := got[len(got)-1]; last != "How would a $10,000 withdrawal be taxed?" {
		t.Errorf("Briefing() ends with %q, want the withdrawal question", last)
	}
}

func TestAgent_Next(t *testing.T) {
	var out bytes.Buffer
	a := New(&out, strings.NewReader("  second  \nthird"))
	prompts := []string{" first "}

	for _, want := range []string{"first", "second", "third"} {
		got, err := a.next(&prompts)
		if err != nil {
			t.Fatalf("next() error = %v", err)
		}
		if got != want {
			t.Errorf("next() = %q, want %q", got, want)
		}
	}
	if _, err := a.next(&prompts); !errors.Is(err, io.EOF) {
		t.Errorf("next() error = %v, want EOF", err)
	}
	// prompts are echoed after the prompt, typed questions are not
	if got := out.String(); !strings.HasPrefix(got, prompt+"first\n"+prompt+prompt) {
		t.Errorf("output = %q", got)
	}
}

func TestAgent_Suggest(t *testing.T) {
	var out bytes.Buffer
	a := New(&out, strings.NewReader(""))
	a.suggest()
	if out.Len() != 0 {
		t.Errorf("suggest() without suggestions wrote %q", out.String())
	}
	a.Suggestions = []string{"Why?"}
	a.suggest()
	if got, want := out.String(), "You could ask:\n  - Why?\n"; got != want {
		t.Errorf("suggest() wrote %q, want %q", got, want)
	}
}

func TestNewLibrary_Duplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewLibrary() with a duplicated name should panic")
		}
	}()
	f := &Func{Decl: &genai.FunctionDeclaration{Name: "Health"}}
	NewLibrary([]*Func{f, f})
}

func TestArgs(t *testing.T) {
	args := map[string]any{
		"amount":  1500.5,
		"zero":    0.0,
		"text":    "hello",
		"symbols": []any{"aapl", " msft"},
		"bad":     []any{"AAPL", 3.0},
	}
	if got, err := amountArg(args, "amount"); err != nil || !got.Equal(harvest.USD(1500.5)) {
		t.Errorf("amountArg(amount) = %v, %v, want $1,500.50", got, err)
	}
	for _, name := range []string{"zero", "text", "missing"} {
		if _, err := amountArg(args, name); err == nil {
			t.Errorf("amountArg(%s) expected an error", name)
		}
	}
	if got, err := stringArg(args, "text"); err != nil || got != "hello" {
		t.Errorf("stringArg(text) = %q, %v, want hello", got, err)
	}
	if _, err := stringArg(args, "amount"); err == nil {
		t.Errorf("stringArg(amount) expected an error")
	}
	got, err := symbolsArg(args, "symbols")
	if err != nil {
		t.Fatalf("symbolsArg(symbols) error = %v", err)
	}
	if diff := cmp.Diff([]string{"AAPL", "MSFT"}, got); diff != "" {
		t.Errorf("symbolsArg(symbols) mismatch (-want +got):\n%s", diff)
	}
	if got, err := symbolsArg(args, "missing"); err != nil || got != nil {
		t.Errorf("symbolsArg(missing) = %v, %v, want nil", got, err)
	}
	for _, name := range []string{"bad", "text"} {
		if _, err := symbolsArg(args, name); err == nil {
			t.Errorf("symbolsArg(%s) expected an error", name)
		}
	}
}
