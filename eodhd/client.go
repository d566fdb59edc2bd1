// Package eodhd implements market data sources on top of the EOD Historical Data API.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com"

// DefaultExchange is appended to symbols without exchange suffix.
const DefaultExchange = "US"

// Client resolves quotes and price histories from EODHD.
//
// It implements both folio.QuoteSource and folio.HistorySource.
type Client struct {
	apiKey   string
	base     string
	currency string
	http     *http.Client
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

// WithCurrency sets the currency of the returned prices. Without it prices are unitless.
func WithCurrency(cur string) Option { return func(c *Client) { c.currency = cur } }

// WithCacheDir stores cached responses in dir instead of os.TempDir().
// An empty dir disables the cache.
func WithCacheDir(dir string) Option {
	return func(c *Client) {
		if dir == "" {
			c.http = &http.Client{}
			return
		}
		c.http = newCachingClient(nil, dir, c.log)
	}
}

// New returns a Client authenticated with apiKey, whose answers are cached for the day.
func New(apiKey string, log zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("eodhd: an API key is required")
	}
	c := &Client{apiKey: apiKey, base: DefaultBaseURL, log: log}
	c.http = newCachingClient(nil, "", log)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ticker returns the EODHD ticker of symbol: symbols without exchange get DefaultExchange.
func Ticker(symbol string) string {
	symbol = folio.NormalizeSymbol(symbol)
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + "." + DefaultExchange
}

// Quote implements folio.QuoteSource.
func (c *Client) Quote(ctx context.Context, symbol string) (folio.Quote, error) {
	rt, err := fetchRealTime(ctx, c.http, c.base, c.apiKey, Ticker(symbol))
	if err != nil {
		return folio.Quote{}, fmt.Errorf("cannot fetch quote of %s: %w", symbol, err)
	}
	if !rt.Close.IsPositive() {
		return folio.Quote{}, fmt.Errorf("no price for %s", symbol)
	}
	q := folio.NewQuote(symbol, folio.M(rt.Close, c.currency), folio.M(rt.PreviousClose, c.currency))
	if rt.PreviousClose.IsZero() {
		// the provider computed the change anyway.
		q.Change = folio.M(rt.Change, c.currency)
		q.ChangePercent = folio.Percent(rt.ChangePercent)
	}
	return q, nil
}

// History implements folio.HistorySource. EODHD is end-of-day only: intraday
// windows get the daily closes of their range.
func (c *Client) History(ctx context.Context, symbol string, w date.Window) (*date.History[float64], error) {
	r := w.Range(date.Today())
	c.log.Debug().Str("symbol", symbol).Stringer("range", r).Msg("eodhd history")
	prices, err := fetchPrices(ctx, c.http, c.base, c.apiKey, Ticker(symbol), r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %s history of %s: %w", w, symbol, err)
	}
	h := new(date.History[float64])
	for _, p := range prices {
		if p.Date.IsZero() {
			continue
		}
		h.Append(p.Date, p.Close.InexactFloat64())
	}
	return h, nil
}

var (
	_ folio.QuoteSource   = (*Client)(nil)
	_ folio.HistorySource = (*Client)(nil)
)
