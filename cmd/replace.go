package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/harvest"
	"github.com/google/subcommands"
)

type replaceCmd struct{}

func (*replaceCmd) Name() string     { return "replace" }
func (*replaceCmd) Synopsis() string { return "suggest replacement symbols for a sale" }
func (*replaceCmd) Usage() string {
	return `tlh replace <symbol>...

  Suggests symbols that keep the market exposure of a sold symbol: a known ETF
  alternative, or peers from the same sector of the snapshot.
`
}

func (c *replaceCmd) SetFlags(f *flag.FlagSet) {}

func (c *replaceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}
	a, err := loadAnalysis()
	if err != nil {
		return reportError("loading snapshot", err)
	}

	var b strings.Builder
	b.WriteString("# Replacements\n\n")
	for _, arg := range f.Args() {
		symbol := harvest.NormalizeSymbol(arg)
		if !harvest.ValidSymbol(symbol) {
			fmt.Fprintf(os.Stderr, "Error: invalid symbol %q\n", arg)
			return subcommands.ExitUsageError
		}
		r := harvest.SuggestReplacements(symbol, a.Sectors())
		if len(r.Symbols) == 0 {
			fmt.Fprintf(&b, "- **%s**: no replacement found\n", r.Symbol)
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s (%s", r.Symbol, strings.Join(r.Symbols, ", "), r.Basis)
		if r.Sector != "" {
			fmt.Fprintf(&b, ", %s", r.Sector)
		}
		b.WriteString(")\n")
	}
	fmt.Fprintf(&b, "\n_%s_\n", harvest.ReplacementDisclaimer)
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
