// Command tlh plans tax-aware trades from a portfolio snapshot.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/harvest/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	// GEMINI_API_KEY may come from a .env file.
	_ = godotenv.Load()

	name := path.Base(os.Args[0])
	cmd.Completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	if sub := flag.Arg(0); sub != "" && !cmd.IsCommand(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
