// Command pft tracks a stock portfolio: holdings, history, quotes and imports.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/etnz/folio/agent"
	"github.com/etnz/folio/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "pft")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion().Complete("pft")
	flag.Parse()

	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		if sc.Name() == name {
			found = true
		}
	})
	return found
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	csv := predict.Files("*.csv")
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"backend":  predict.Something,
			"token":    predict.Something,
			"currency": predict.Set{"USD", "EUR", "GBP", "CHF", "JPY"},
			"provider": predict.Set{"yahoo", "eodhd"},
			"v":        predict.Nothing,
			"raw":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"holdings": {Flags: map[string]complete.Predictor{"i": csv}},
			"history": {Flags: map[string]complete.Predictor{
				"i": csv,
				"w": predict.Set(agent.Windows()),
			}},
			"quote":     {Args: predict.Something},
			"dashboard": {},
			"compare": {
				Flags: map[string]complete.Predictor{"w": predict.Set(agent.Windows())},
				Args:  predict.Something,
			},
			"stocks": {},
			"add": {Flags: map[string]complete.Predictor{
				"s": predict.Something,
				"q": predict.Something,
				"p": predict.Something,
				"d": predict.Something,
				"c": predict.Something,
			}},
			"delete": {Args: predict.Something},
			"import": {Flags: map[string]complete.Predictor{
				"i":       csv,
				"dry-run": predict.Nothing,
				"retry":   predict.Set{"1", "2", "3"},
				"delay":   predict.Something,
			}},
			"assist": {Flags: map[string]complete.Predictor{"i": csv}},
			"help":   {},
			"topic":  {Args: predict.Set{"csv", "windows", "providers", "*"}},
		},
	}
}
