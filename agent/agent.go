// Package agent is a conversational assistant that explains harvest plans.
//
// A facilitator talks to the user and delegates to experts: an analyst that
// runs the harvest workflows on the loaded snapshot, and a researcher
// grounded with Google Search. Nothing it says is tax advice and it never
// trades.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/harvest"
	"google.golang.org/genai"
)

// Agent is a chat session about the plans of one account.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Render formats the facilitator's markdown answers, nil prints them raw.
	Render func(markdown string) string
	// Suggestions are the questions offered when the session opens and on
	// "help".
	Suggestions []string
}

// New creates a new Agent reading questions from r and writing answers to w.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start creates the chats of the facilitator and of every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "explain> "

// Run answers the prompts first, then reads questions until "bye" or EOF.
// A failed answer is reported and the session goes on, unless ctx is done.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Ask anything about your plans. Type 'help' for suggestions, 'bye' to exit.")
	if len(prompts) == 0 {
		a.suggest()
	}

	for {
		input, err := a.next(&prompts)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil // Ctrl+D
			}
			return err
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "bye", "quit", "exit":
			return nil
		case "help":
			a.suggest()
			continue
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(a.w, "The assistant could not answer:", err)
			continue
		}
		answer := content.Parts[0].Text
		if a.Render != nil {
			answer = a.Render(answer)
		}
		fmt.Fprintln(a.w, answer)
	}
}

// next prints the prompt and returns the next question, taken from prompts
// first and echoed, then read from the user.
func (a *Agent) next(prompts *[]string) (string, error) {
	fmt.Fprint(a.w, prompt)
	if len(*prompts) > 0 {
		input := strings.TrimSpace((*prompts)[0])
		*prompts = (*prompts)[1:]
		fmt.Fprintln(a.w, input)
		return input, nil
	}
	line, err := a.r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *Agent) suggest() {
	if len(a.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(a.w, "You could ask:")
	for _, s := range a.Suggestions {
		fmt.Fprintln(a.w, "  -", s)
	}
}

// Briefing returns the questions worth asking about a: the pending data
// issues first, since they block every plan, then the top harvesting
// candidate, the loss budget, wash-sale risks and the largest overweight.
func Briefing(a *harvest.Analysis) []string {
	var res []string
	if pending := a.Health().Pending(a.Acknowledged()); len(pending) > 0 {
		var symbols []string
		for _, issue := range pending {
			symbols = append(symbols, issue.Symbol)
		}
		slices.Sort(symbols)
		res = append(res, fmt.Sprintf("Which data issues block the plans on %s, and how do I fix them?", strings.Join(slices.Compact(symbols), ", ")))
		return append(res, "How are the lots reconciled with the holdings?")
	}

	if tlh, err := a.Harvest(); err == nil {
		if len(tlh.Candidates) > 0 {
			top := tlh.Candidates[0]
			res = append(res, fmt.Sprintf("Why is %s the top harvesting candidate, and what should replace it?", top.Lot.Symbol))
		}
		if tlh.Budget.Target.IsPositive() {
			res = append(res, fmt.Sprintf("How much of the %s of realized gains do the candidates offset?", tlh.Budget.Target))
		}
		if slices.ContainsFunc(tlh.Candidates, func(c harvest.TLHCandidate) bool { return c.WashSale.Risk }) {
			res = append(res, "Which candidates carry a wash-sale risk, and what should I wait for?")
		}
	}
	if drift, _, err := a.Drift(); err == nil && len(drift.Overweights) > 0 {
		res = append(res, fmt.Sprintf("Why is %s overweight, and what would trimming it cost in tax?", drift.Overweights[0].Symbol))
	}
	return append(res, "How would a $10,000 withdrawal be taxed?")
}
