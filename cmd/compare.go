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

type compareCmd struct {
	window string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the performance of some symbols" }
func (*compareCmd) Usage() string {
	return `pft compare [-w <window>] <symbol>...

  Displays each symbol's latest quote and its change over the window, then
  their closes side by side.

  Windows: ` + strings.Join(agent.Windows(), ", ") + `

Usage Examples:
# Compare two stocks over six months.
$ pft compare -w 6M AAPL MSFT

`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", string(date.OneMonth), "Time window of the comparison.")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}
	w, err := date.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing window: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg := loadConfig()
	log := cfg.logger()
	market, err := cfg.market(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	// comparisons do not need positions.
	p := &portfolio{market: market}
	report, err := p.Compare(ctx, f.Args(), w)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(report)
	return subcommands.ExitSuccess
}
