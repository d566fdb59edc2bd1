package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/agent"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/rs/zerolog"
)

// portfolio renders reports about positions valued on a market.
type portfolio struct {
	market    *folio.Market
	positions func(context.Context) ([]folio.Position, error)
}

var _ agent.Portfolio = (*portfolio)(nil)

// newPortfolio returns the portfolio of positions read from the CSV file, or
// from the backend when file is empty.
func newPortfolio(cfg config, file string, log zerolog.Logger) (*portfolio, error) {
	market, err := cfg.market(log)
	if err != nil {
		return nil, err
	}
	p := &portfolio{market: market}
	if file != "" {
		p.positions = func(context.Context) ([]folio.Position, error) {
			return readPositions(file, cfg.Currency, log)
		}
		return p, nil
	}
	b, err := cfg.backend(log)
	if err != nil {
		return nil, err
	}
	p.positions = b.Positions
	return p, nil
}

// readPositions returns the valid positions of a CSV file.
func readPositions(file, currency string, log zerolog.Logger) ([]folio.Position, error) {
	rows, err := parseFile(file, currency)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if !r.Valid() {
			log.Warn().Str("file", file).Int("line", r.Line).Strs("errors", r.Errors).Msg("ignoring invalid row")
		}
	}
	return folio.ValidPositions(rows), nil
}

func parseFile(file, currency string) ([]folio.ParsedRow, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := folio.ParseCSV(f, currency)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", file, err)
	}
	return rows, nil
}

func (p *portfolio) Holdings(ctx context.Context) (string, error) {
	positions, err := p.positions(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot load positions: %w", err)
	}
	holdings, summary := p.market.Portfolio(ctx, positions)
	return renderer.HoldingsMarkdown(holdings, summary), nil
}

func (p *portfolio) Quotes(ctx context.Context, symbols []string) (string, error) {
	quotes := p.market.Quotes(ctx, symbols)
	return renderer.QuotesMarkdown(quotes, missing(symbols, quotes)), nil
}

func (p *portfolio) Compare(ctx context.Context, symbols []string, w date.Window) (string, error) {
	return renderer.CompareMarkdown(p.market.Compare(ctx, symbols, w), w), nil
}

func (p *portfolio) History(ctx context.Context, w date.Window) (string, error) {
	positions, err := p.positions(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot load positions: %w", err)
	}
	return renderer.HistoryMarkdown(p.market.History(ctx, positions, w), w), nil
}

// missing returns the symbols without a quote, normalized and in order.
func missing(symbols []string, quotes []folio.Quote) []string {
	quoted := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		quoted[q.Symbol] = true
	}
	var result []string
	for _, s := range symbols {
		s = folio.NormalizeSymbol(s)
		if s == "" || quoted[s] {
			continue
		}
		quoted[s] = true
		result = append(result, s)
	}
	return result
}
