package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/folio"
	"github.com/etnz/folio/backend"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type addCmd struct {
	symbol     string
	quantity   float64
	price      string
	on         string
	commission float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a purchase lot to the backend" }
func (*addCmd) Usage() string {
	return `pft add -s <symbol> -q <quantity> [-p <price>] [-d <date>] [-c <commission>]

  Stores a single lot in the backend. The backend keeps one price per lot, so
  the commission is spread over the shares.

Usage Examples:
# Record 10 shares of Apple bought at $150 today.
$ pft add -s AAPL -q 10 -p 150

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the lot.")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares.")
	f.StringVar(&c.price, "p", "", "Purchase price per share. Unknown if empty.")
	f.StringVar(&c.on, "d", "", "Purchase date. Defaults to today.")
	f.Float64Var(&c.commission, "c", 0, "Commission paid for the lot.")
}

// position returns the lot described by the flags, valued in currency.
func (c *addCmd) position(currency string) (folio.Position, error) {
	on := date.Today()
	if c.on != "" {
		var err error
		if on, err = date.ParseAny(c.on); err != nil {
			return folio.Position{}, err
		}
	}
	p := folio.Position{
		Symbol:     folio.NormalizeSymbol(c.symbol),
		TradeDate:  on,
		Quantity:   folio.Q(c.quantity),
		Commission: folio.M(c.commission, currency),
	}
	if c.price != "" {
		v, err := strconv.ParseFloat(c.price, 64)
		if err != nil {
			return folio.Position{}, fmt.Errorf("invalid price %q: %w", c.price, err)
		}
		p.PurchasePrice, p.HasPrice = folio.M(v, currency), true
	}
	if p.Quantity.IsZero() {
		return folio.Position{}, fmt.Errorf("quantity is required")
	}
	return p, p.Validate()
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := loadConfig()
	log := cfg.logger()

	p, err := c.position(cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	b, err := cfg.backend(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	stock, err := b.AddStock(ctx, backend.NewCreateStockInput(p))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Str("id", stock.ID).Str("symbol", stock.Symbol).Msg("stock added")
	fmt.Fprintf(stdout, "Added %s (id %s)\n", p, stock.ID)
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete lots from the backend" }
func (*deleteCmd) Usage() string {
	return `pft delete <id>...

  Removes the lots with the given record ids from the backend. Ids are listed by
  'pft stocks'.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one id is required")
		return subcommands.ExitUsageError
	}
	cfg := loadConfig()
	log := cfg.logger()
	b, err := cfg.backend(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		if err := b.DeleteStock(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(stdout, "Deleted %s\n", id)
	}
	return status
}

type stocksCmd struct{}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "list the lots stored in the backend" }
func (*stocksCmd) Usage() string {
	return `pft stocks

  Lists the backend's records with their ids, as needed by 'pft delete'.
`
}

func (*stocksCmd) SetFlags(*flag.FlagSet) {}

func (*stocksCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := loadConfig()
	b, err := cfg.backend(cfg.logger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	stocks, err := b.ListStocks(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.StocksMarkdown(stocks))
	return subcommands.ExitSuccess
}
