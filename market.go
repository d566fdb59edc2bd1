package folio

import (
	"context"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// QuoteSource resolves the current quote of a symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// HistorySource resolves the price series of a symbol over a chart window.
//
// An empty history is a valid answer, for instance for a newly listed symbol.
type HistorySource interface {
	History(ctx context.Context, symbol string, w date.Window) (*date.History[float64], error)
}

// DefaultConcurrency is the default maximum number of requests in flight.
const DefaultConcurrency = 8

// Market fans out quote and history requests to its sources, one request per symbol.
//
// A failure for one symbol never fails the batch: the symbol degrades to a missing
// quote or an empty history, and the failure is logged.
type Market struct {
	quotes    QuoteSource
	histories HistorySource
	log       zerolog.Logger

	// Concurrency bounds the number of requests in flight, DefaultConcurrency if not positive.
	Concurrency int
}

// NewMarket returns a Market over the given sources.
// It panics if a source is nil: a market without source would silently value everything at zero.
func NewMarket(quotes QuoteSource, histories HistorySource, log zerolog.Logger) *Market {
	if quotes == nil || histories == nil {
		panic("folio: NewMarket requires a quote source and a history source")
	}
	return &Market{quotes: quotes, histories: histories, log: log, Concurrency: DefaultConcurrency}
}

// distinct returns normalized, non empty and unique symbols in input order.
func distinct(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = NormalizeSymbol(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func (m *Market) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	limit := m.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)
	return g, ctx
}

// Quotes resolves the quotes of symbols concurrently and waits for all of them.
//
// Quotes that could not be resolved are absent from the result, which is
// ordered like the distinct input symbols.
func (m *Market) Quotes(ctx context.Context, symbols []string) []Quote {
	symbols = distinct(symbols)
	results := make([]Quote, len(symbols))
	g, ctx := m.group(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			q, err := m.quotes.Quote(ctx, symbol)
			if err != nil {
				m.log.Warn().Err(err).Str("symbol", symbol).Msg("quote unavailable")
				return nil
			}
			q.Symbol = symbol
			results[i] = q
			return nil
		})
	}
	_ = g.Wait() // errors are isolated per symbol.

	quotes := make([]Quote, 0, len(results))
	for _, q := range results {
		if !q.IsZero() {
			quotes = append(quotes, q)
		}
	}
	m.log.Debug().Int("requested", len(symbols)).Int("resolved", len(quotes)).Msg("quotes fetched")
	return quotes
}

// Histories resolves the price series of symbols over w concurrently and waits for all of them.
//
// Every distinct symbol has an entry, empty if its series could not be resolved.
func (m *Market) Histories(ctx context.Context, symbols []string, w date.Window) map[string]*date.History[float64] {
	symbols = distinct(symbols)
	results := make([]*date.History[float64], len(symbols))
	g, ctx := m.group(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			h, err := m.histories.History(ctx, symbol, w)
			if err != nil {
				m.log.Warn().Err(err).Str("symbol", symbol).Stringer("window", w).Msg("history unavailable")
				h = nil
			}
			if h == nil {
				h = new(date.History[float64])
			}
			results[i] = h
			return nil
		})
	}
	_ = g.Wait()

	histories := make(map[string]*date.History[float64], len(symbols))
	for i, symbol := range symbols {
		histories[symbol] = results[i]
	}
	return histories
}

// Portfolio values positions with current quotes.
func (m *Market) Portfolio(ctx context.Context, positions []Position) ([]Holding, Summary) {
	return Aggregate(positions, m.Quotes(ctx, symbolsOf(positions)))
}

// History reconstructs the portfolio value of positions over w.
func (m *Market) History(ctx context.Context, positions []Position, w date.Window) []HistoryPoint {
	return BuildHistory(positions, m.Histories(ctx, symbolsOf(positions), w))
}

func symbolsOf(positions []Position) []string {
	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}
	return symbols
}
