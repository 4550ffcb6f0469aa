package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/harvest/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type explainCmd struct {
	research bool
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "discuss the plans with an AI assistant" }
func (*explainCmd) Usage() string {
	return `tlh explain [-research] [<question>]

  Starts an interactive session with an assistant that can run the workflows
  on the snapshot and explain them. It needs a Gemini API key in GEMINI_API_KEY,
  which can be set in a .env file. Answers are not tax advice.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.research, "research", false, "allow the assistant to search the web")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAnalysis()
	if err != nil {
		return reportError("loading snapshot", err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	experts := []*agent.Expert{agent.NewAnalyst(a)}
	if c.research {
		experts = append(experts, agent.NewResearcher())
	}
	assistant := agent.New(os.Stdout, os.Stdin, experts...)
	assistant.Render = renderMarkdown
	assistant.Suggestions = agent.Briefing(a)

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := assistant.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
