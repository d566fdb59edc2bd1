// Package yahoo implements market data sources on top of the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Yahoo Finance chart API root.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client resolves quotes and price histories from the Yahoo Finance chart endpoint.
//
// It implements both folio.QuoteSource and folio.HistorySource. Prices are
// reported in the client currency and never converted: a symbol priced in
// another currency is an error.
type Client struct {
	Base     string // DefaultBaseURL if empty.
	Currency string
	HTTP     *http.Client // http.DefaultClient if nil.
	Log      zerolog.Logger
}

// New returns a client for the public endpoint.
func New(currency string, log zerolog.Logger) *Client {
	return &Client{Base: DefaultBaseURL, Currency: currency, HTTP: &http.Client{Timeout: 30 * time.Second}, Log: log}
}

// chart fetches the raw chart document of symbol.
func (c *Client) chart(ctx context.Context, symbol, interval, rng string) (any, error) {
	base := c.Base
	if base == "" {
		base = DefaultBaseURL
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		strings.TrimRight(base, "/"), url.PathEscape(folio.NormalizeSymbol(symbol)), url.QueryEscape(interval), url.QueryEscape(rng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	// the endpoint rejects requests without a browser like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.Log.Debug().Str("symbol", symbol).Str("range", rng).Int("status", resp.StatusCode).Msg("yahoo chart")

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(content, &jobj); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cannot http GET %v: %v", req.URL.Path, resp.Status)
		}
		return nil, fmt.Errorf("invalid chart payload for %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		if desc, err := getString("$.chart.error.description", jobj); err == nil && desc != "" {
			return nil, fmt.Errorf("cannot http GET %v: %v: %s", req.URL.Path, resp.Status, desc)
		}
		return nil, fmt.Errorf("cannot http GET %v: %v", req.URL.Path, resp.Status)
	}
	return jobj, nil
}

// Quote implements folio.QuoteSource.
func (c *Client) Quote(ctx context.Context, symbol string) (folio.Quote, error) {
	jobj, err := c.chart(ctx, symbol, "1d", "1d")
	if err != nil {
		return folio.Quote{}, err
	}
	price, err := getFloat("$.chart.result[0].meta.regularMarketPrice", jobj)
	if err != nil {
		return folio.Quote{}, fmt.Errorf("no price for %s: %w", symbol, err)
	}
	if err := c.checkCurrency(symbol, jobj); err != nil {
		return folio.Quote{}, err
	}
	// a missing previous close only means no day change.
	previous, _ := getFloat("$.chart.result[0].meta.chartPreviousClose", jobj)
	return folio.NewQuote(symbol, folio.M(price, c.Currency), folio.M(previous, c.Currency)), nil
}

// checkCurrency rejects a chart priced in another currency than the client's.
// Prices are not converted, so such a chart would be valued with the wrong unit.
// A chart without currency is accepted.
func (c *Client) checkCurrency(symbol string, jobj any) error {
	cur, err := getString("$.chart.result[0].meta.currency", jobj)
	if err != nil || cur == "" || c.Currency == "" || strings.EqualFold(cur, c.Currency) {
		return nil
	}
	c.Log.Warn().Str("symbol", symbol).Str("currency", cur).Str("want", c.Currency).Msg("chart currency differs from client currency")
	return fmt.Errorf("%s is priced in %s, not %s", symbol, cur, c.Currency)
}

// History implements folio.HistorySource.
//
// Missing closes are skipped. Intraday samples of a day collapse into the last one.
func (c *Client) History(ctx context.Context, symbol string, w date.Window) (*date.History[float64], error) {
	jobj, err := c.chart(ctx, symbol, w.Interval(), w.ProviderRange())
	if err != nil {
		return nil, err
	}
	if err := c.checkCurrency(symbol, jobj); err != nil {
		return nil, err
	}
	h := new(date.History[float64])
	stamps, err := getList("$.chart.result[0].timestamp", jobj)
	if err != nil {
		// listed today or no trade in range.
		return h, nil
	}
	closes, err := getList("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return nil, fmt.Errorf("no closes for %s: %w", symbol, err)
	}
	for i, ts := range stamps {
		if i >= len(closes) {
			break
		}
		sec, ok := ts.(float64)
		if !ok {
			continue
		}
		price, ok := closes[i].(float64)
		if !ok {
			continue
		}
		h.Append(date.Of(time.Unix(int64(sec), 0)), price)
	}
	return h, nil
}

// get evaluates path against jobj.
func get(path string, jobj any) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	return jval, nil
}

func getFloat(path string, jobj any) (float64, error) {
	jval, err := get(path, jobj)
	if err != nil {
		return 0, err
	}
	// jsonpath may wrap a single answer in a list.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error parsing %q: not a number %v", path, jval)
	}
	return val, nil
}

func getString(path string, jobj any) (string, error) {
	jval, err := get(path, jobj)
	if err != nil {
		return "", err
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error parsing %q: not a string %v", path, jval)
	}
	return val, nil
}

func getList(path string, jobj any) ([]any, error) {
	jval, err := get(path, jobj)
	if err != nil {
		return nil, err
	}
	val, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list %v", path, jval)
	}
	return val, nil
}

var (
	_ folio.QuoteSource   = (*Client)(nil)
	_ folio.HistorySource = (*Client)(nil)
)
