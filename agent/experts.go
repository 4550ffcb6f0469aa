package agent

import (
	"context"
	"fmt"

	"github.com/etnz/harvest"
	"github.com/etnz/harvest/docs"
	"github.com/etnz/harvest/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of answering the user's request.

			The user owns a taxable brokerage account and wants to understand the plans computed on it:
			tax-loss harvesting, withdrawals, transitions to a target basket, and drift.

			Learn about the experts from the Tools and ask them questions. They keep the context
			of your previous questions.

			Never present anything as tax advice, and never suggest that a trade will be executed:
			every plan is a proposal the user has to enter at their broker.
			Answer in markdown, quote the figures given by the experts, do not invent any.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded with Google Search.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is a market researcher. Ask the Researcher about securities, funds,
		sectors, or the rules of wash sales and capital gains whenever grounding is needed.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a market researcher. Use Google Search to ground your assertions about
			companies, funds, sectors and US tax rules. Cite what you found.
			`}}},
		},
	}
}

// NewAnalyst returns an expert that runs the harvest workflows on a.
func NewAnalyst(a *harvest.Analysis) *Expert {
	lib := AnalystFunctions(a)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It has the user's account snapshot loaded and can
		check data health, list tax-loss harvesting candidates, plan withdrawals and transitions,
		and measure drift.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: fmt.Sprintf(`
				You are the analyst of the user's account as of %s.
				Use the Tools to compute figures, never compute them yourself.
				When a tool reports blocking data issues, explain them and how to acknowledge them.
				The Topic tool documents how every workflow works.
			`, a.AsOf())}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return failure(id, f.Decl.Name, err)
	}
	return success(id, f.Decl.Name, out)
}

func markdownResponse(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func symbolsSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: description}
}

// AnalystFunctions are the tools of the analyst, bound to a.
func AnalystFunctions(a *harvest.Analysis) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Health",
				Description: "Health reconciles the tax lots with the holdings and lists the blocking data issues.",
				Response:    markdownResponse("A markdown report of the data issues."),
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return renderer.HealthMarkdown(a.Health(), a.Acknowledged()), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Harvest",
				Description: "Harvest ranks the tax-loss harvesting candidates and proposes sells with replacement buys.",
				Response:    markdownResponse("A markdown report of the candidates followed by the proposal."),
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				res, err := a.Harvest()
				if err != nil {
					return "", err
				}
				return renderer.TLHMarkdown(res) + "\n" + renderer.ProposalMarkdown(a.Propose(res)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Withdraw",
				Description: "Withdraw plans the sales that raise an amount of cash with the least tax.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"amount":     {Type: genai.TypeNumber, Description: "The amount to withdraw, in dollars."},
						"exclusions": symbolsSchema("Symbols that must not be sold."),
					},
					Required: []string{"amount"},
				},
				Response: markdownResponse("A markdown withdrawal plan."),
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				amount, err := amountArg(args, "amount")
				if err != nil {
					return "", err
				}
				exclusions, err := symbolsArg(args, "exclusions")
				if err != nil {
					return "", err
				}
				plan, err := a.Withdraw(amount, harvest.Money{}, exclusions)
				if err != nil {
					return "", err
				}
				return renderer.WithdrawalMarkdown(plan), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transition",
				Description: "Transition plans how to fund an allocation into the target basket: cash first, then the least taxed sales.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"allocation": {Type: genai.TypeNumber, Description: "The amount to invest in the basket, in dollars."},
						"exclusions": symbolsSchema("Symbols that must not be sold."),
					},
					Required: []string{"allocation"},
				},
				Response: markdownResponse("A markdown transition plan."),
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				allocation, err := amountArg(args, "allocation")
				if err != nil {
					return "", err
				}
				exclusions, err := symbolsArg(args, "exclusions")
				if err != nil {
					return "", err
				}
				plan, err := a.Transition(allocation, harvest.Money{}, exclusions)
				if err != nil {
					return "", err
				}
				return renderer.TransitionMarkdown(plan), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Drift",
				Description: "Drift compares the holdings with the target basket built from the index universe.",
				Response:    markdownResponse("A markdown drift report."),
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				r, _, err := a.Drift()
				if err != nil {
					return "", err
				}
				return renderer.DriftMarkdown(r), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Topic",
				Description: "Topic returns the documentation of a workflow. Use '*' to read them all.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {Type: genai.TypeString, Description: "One of snapshot, health, harvesting, washsale, mintax, basket, config or '*'."},
					},
					Required: []string{"topic"},
				},
				Response: markdownResponse("The markdown documentation."),
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				topic, err := stringArg(args, "topic")
				if err != nil {
					return "", err
				}
				return docs.GetTopic(topic)
			},
		},
	}
}
