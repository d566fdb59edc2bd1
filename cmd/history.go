package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio/agent"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
)

type historyCmd struct {
	input  string
	window string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio value over a time window" }
func (*historyCmd) Usage() string {
	return `pft history [-i <file.csv>] [-w <window>]

  Displays the daily value of the portfolio, valuing each position at the close
  price of the day, carrying the last known price over days without quotes.
  A position counts only from its purchase date.

  Windows: ` + strings.Join(agent.Windows(), ", ") + `
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "CSV file of positions. Reads the backend if empty.")
	f.StringVar(&c.window, "w", string(date.OneMonth), "Time window of the history.")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := date.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing window: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg := loadConfig()
	p, err := newPortfolio(cfg, c.input, cfg.logger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report, err := p.History(ctx, w)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating history report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(report)
	return subcommands.ExitSuccess
}
