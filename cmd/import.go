package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type importCmd struct {
	input  string
	dryRun bool
	retry  int
	delay  time.Duration
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import positions from a CSV file into the backend" }
func (*importCmd) Usage() string {
	return `pft import -i <file.csv> [-dry-run] [-retry <n>] [-delay <duration>]

  Parses the CSV file and submits each valid row to the backend, one at a time.
  Invalid rows are reported and skipped. Rows rejected by the backend can be
  submitted again with -retry.

  Recognized columns (case insensitive): symbol/ticker, quantity/shares,
  purchase price/price/cost, purchase date/date, commission/fee.

Usage Examples:
# Preview what would be imported.
$ pft import -i positions.csv -dry-run

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "CSV file to import.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Only parse and validate the file.")
	f.IntVar(&c.retry, "retry", 0, "Number of extra rounds for rows rejected by the backend.")
	f.DurationVar(&c.delay, "delay", folio.DefaultImportDelay, "Pause between two submissions.")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		return subcommands.ExitUsageError
	}
	cfg := loadConfig()
	log := cfg.logger()

	rows, err := parseFile(c.input, cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.dryRun {
		printMarkdown(renderer.ParsedMarkdown(rows))
		return subcommands.ExitSuccess
	}

	b, err := cfg.backend(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	delay := c.delay
	if delay == 0 {
		delay = -1
	}
	im := &folio.Importer{Sink: b, Delay: delay, Log: log, OnProgress: progress(log)}

	report, err := im.Import(ctx, rows)
	for i := 0; err == nil && i < c.retry && report.Failed > 0; i++ {
		log.Info().Int("round", i+1).Int("rows", report.Failed).Msg("retrying failed rows")
		var retried folio.ImportReport
		retried, err = im.Retry(ctx, report.FailedRows())
		report = report.Merge(retried)
	}
	printMarkdown(renderer.ImportMarkdown(report))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import interrupted: %v\n", err)
		return subcommands.ExitFailure
	}
	if report.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
