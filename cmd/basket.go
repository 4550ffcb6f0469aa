package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/harvest/renderer"
	"github.com/google/subcommands"
)

type basketCmd struct {
	csv  string
	json bool
}

func (*basketCmd) Name() string     { return "basket" }
func (*basketCmd) Synopsis() string { return "build the direct indexing target basket" }
func (*basketCmd) Usage() string {
	return `tlh basket [-csv <file>] [-json]

  Builds the target basket from the snapshot universe: exclusions, screens,
  the holdings count and the single name cap.
`
}

func (c *basketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "write the basket as CSV to this file ('-' for stdout)")
	f.BoolVar(&c.json, "json", false, "print the basket as JSON")
}

func (c *basketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAnalysis()
	if err != nil {
		return reportError("loading snapshot", err)
	}
	b, err := a.Basket()
	if err != nil {
		return reportError("building basket", err)
	}
	if c.json {
		if err := printJSON(b); err != nil {
			return reportError("encoding basket", err)
		}
	} else {
		printMarkdown(renderer.BasketMarkdown(b))
	}

	if c.csv != "" {
		err := writeFile(c.csv, func(w io.Writer) error { return renderer.WriteBasket(w, b.Entries) })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing basket %q: %v\n", c.csv, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
