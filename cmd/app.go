// Package cmd implements the tlh command line.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/harvest"
	"github.com/etnz/harvest/date"
	"github.com/etnz/harvest/logger"
	"github.com/etnz/harvest/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&healthCmd{}, "analysis")
	c.Register(&harvestCmd{}, "analysis")
	c.Register(&withdrawCmd{}, "analysis")
	c.Register(&transitionCmd{}, "direct indexing")
	c.Register(&basketCmd{}, "direct indexing")
	c.Register(&driftCmd{}, "direct indexing")
	c.Register(&replaceCmd{}, "direct indexing")

	c.Register(&topicCmd{}, "help")
	c.Register(&explainCmd{}, "help")
	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var snapshotFile = flag.String("snapshot", "snapshot.jsonl", "Path to the portfolio snapshot (JSONL format)")
var configFile = flag.String("config", "harvest.yaml", "Path to the configuration file (YAML format)")
var asOf = flag.String("as-of", "", "Analysis date, defaults to the snapshot date. See 'topic snapshot' for supported date formats.")
var verbose = flag.Bool("v", false, "Print debug logs")
var universeFile = flag.String("universe", "", "Replace the snapshot universe with the constituents of a benchmark JSON file")
var universePath = flag.String("universe-path", harvest.DefaultUniverseFormat().Path, "JSONPath to the constituents in the -universe file")
var acks ackFlag

func init() {
	flag.Var(&acks, "ack", "Acknowledge a blocking data issue, as SYMBOL:kind or * for all. Can be repeated.")
}

// ackFlag collects repeated -ack flags.
type ackFlag []string

func (a *ackFlag) String() string { return strings.Join(*a, ",") }
func (a *ackFlag) Set(s string) error {
	if _, _, err := harvest.ParseAcknowledgement(s); err != nil && s != "*" {
		return err
	}
	*a = append(*a, s)
	return nil
}

// setupLogger configures the global logger from the -v flag.
func setupLogger() {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger.SetGlobalLogger(logger.New(logger.Config{Level: level.String(), Pretty: true}))
}

// loadConfig loads the configuration named by -config. The default file is optional.
func loadConfig() (harvest.Config, error) {
	required := isFlagSet("config")
	cfg, err := LoadConfig(*configFile, required)
	if err != nil {
		return cfg, err
	}
	log.Debug().Str("path", *configFile).Msg("configuration loaded")
	return cfg, nil
}

// loadAnalysis decodes the snapshot named by -snapshot and applies the
// configuration and the -ack flags.
func loadAnalysis() (*harvest.Analysis, error) {
	setupLogger()
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	var on date.Date
	if *asOf != "" {
		if on, err = date.Parse(*asOf); err != nil {
			return nil, fmt.Errorf("invalid -as-of: %w", err)
		}
	}

	f, err := os.Open(*snapshotFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot: %w", err)
	}
	defer f.Close()
	s, err := harvest.DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", *snapshotFile, err)
	}

	if *universeFile != "" {
		if err := importUniverse(&s); err != nil {
			return nil, err
		}
	}

	a, err := harvest.NewAnalysis(s, cfg, on)
	if err != nil {
		return nil, err
	}
	if err := a.AcknowledgeSpecs(acks...); err != nil {
		return nil, err
	}
	log.Debug().
		Str("as_of", a.AsOf().String()).
		Int("holdings", len(a.Holdings())).
		Int("lots", len(a.Lots())).
		Int("issues", len(a.Health().Issues)).
		Msg("snapshot loaded")
	for _, w := range a.Warnings() {
		log.Warn().Msg(w.String())
	}
	return a, nil
}

// importUniverse replaces the universe of s with the -universe file.
func importUniverse(s *harvest.Snapshot) error {
	f, err := os.Open(*universeFile)
	if err != nil {
		return fmt.Errorf("cannot open universe: %w", err)
	}
	defer f.Close()
	format := harvest.DefaultUniverseFormat()
	format.Path = *universePath
	entries, warnings, err := harvest.ImportUniverse(f, format)
	if err != nil {
		return fmt.Errorf("%s: %w", *universeFile, err)
	}
	log.Debug().Str("path", *universeFile).Int("constituents", len(entries)).Msg("universe imported")
	s.Universe = entries
	s.Warnings = append(s.Warnings, warnings...)
	return nil
}

// narrativeContext describes what the analysis lacks or overrides.
func narrativeContext(a *harvest.Analysis) renderer.NarrativeContext {
	report := a.Health()
	return renderer.NarrativeContext{
		MissingGains:    a.Summary().Rows == 0,
		HealthOverrides: len(report.Pending(a.Acknowledged())) < len(report.Issues),
		Options:         a.Config().TLH,
		Screens:         a.Config().Basket.EnabledScreens,
	}
}

// reportError prints err and returns the matching exit status. Blocked
// workflows also print the pending issues so they can be acknowledged.
func reportError(action string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", action, err)
	var blocked *harvest.BlockedError
	if errors.As(err, &blocked) {
		fmt.Fprintln(os.Stderr, "Fix the snapshot or acknowledge the issues with:")
		for _, issue := range blocked.Issues {
			fmt.Fprintf(os.Stderr, "  -ack %s:%s\n", issue.Symbol, issue.Kind)
		}
	}
	if errors.Is(err, harvest.ErrInvalidConfig) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// isFlagSet reports whether the global flag name was set on the command line.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// renderMarkdown renders markdown for the terminal, falling back to the raw text.
func renderMarkdown(content string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

func printMarkdown(content string) { fmt.Print(renderMarkdown(content)) }

// IsCommand reports whether name is a subcommand registered on c.
func IsCommand(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
