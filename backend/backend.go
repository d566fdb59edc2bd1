// Package backend is a client for the portfolio backend REST API, which stores
// the user's stock positions and daily portfolio snapshots.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrNoBaseURL is returned by New when the backend address is not configured.
var ErrNoBaseURL = errors.New("backend: base URL is not configured")

// TokenSource provides the bearer token of the current user.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
// An empty StaticToken sends no authorization header.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// UserStock is a position record as stored by the backend.
type UserStock struct {
	ID            string    `json:"id"`
	UID           string    `json:"uid"`
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice *float64  `json:"purchasePrice"`
	PurchaseDate  date.Date `json:"purchaseDate"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// Position converts the record to a lot valued in currency.
func (s UserStock) Position(currency string) folio.Position {
	p := folio.Position{
		Symbol:    folio.NormalizeSymbol(s.Symbol),
		TradeDate: s.PurchaseDate,
		Quantity:  folio.Q(s.Quantity),
	}
	if s.PurchasePrice != nil {
		p.PurchasePrice, p.HasPrice = folio.M(*s.PurchasePrice, currency), true
	}
	return p
}

// CreateStockInput is the payload to add a position.
type CreateStockInput struct {
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice *float64  `json:"purchasePrice,omitempty"`
	PurchaseDate  date.Date `json:"purchaseDate"`
}

// NewCreateStockInput returns the payload storing p. The backend keeps a single
// price per record, so the commission is blended into it.
func NewCreateStockInput(p folio.Position) CreateStockInput {
	in := CreateStockInput{
		Symbol:       folio.NormalizeSymbol(p.Symbol),
		Quantity:     p.Quantity.Float64(),
		PurchaseDate: p.TradeDate,
	}
	if price, ok := p.EffectivePrice(); ok {
		v := price.Float64()
		in.PurchasePrice = &v
	}
	return in
}

// OverviewItem is a daily snapshot of the portfolio.
type OverviewItem struct {
	Date            date.Date `json:"date"`
	TotalInvested   float64   `json:"totalInvested"`
	TotalValue      float64   `json:"totalValue"`
	TotalPnlPercent float64   `json:"totalPnlPercent"`
	TotalPnlValue   float64   `json:"totalPnlValue"`
}

// Deltas are the changes between yesterday's and today's snapshots.
type Deltas struct {
	DeltaPnlPercent float64 `json:"deltaPnlPercent"`
	DeltaPnlValue   float64 `json:"deltaPnlValue"`
	DeltaValue      float64 `json:"deltaValue"`
}

// Overview is the dashboard overview. Yesterday and Deltas are nil for a new portfolio.
type Overview struct {
	Today     OverviewItem  `json:"today"`
	Yesterday *OverviewItem `json:"yesterday"`
	Deltas    *Deltas       `json:"deltas"`
}

// envelope carries the error message the backend may put in any answer.
type envelope struct {
	Error string `json:"error"`
}

// Client talks to the backend API.
type Client struct {
	rest     *resty.Client
	currency string
	log      zerolog.Logger
}

// New returns a client for the backend at baseURL, authenticated with tokens.
// Positions are valued in currency.
func New(baseURL string, tokens TokenSource, currency string, log zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log}).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			token, err := tokens.Token(r.Context())
			if err != nil {
				return fmt.Errorf("cannot get authentication token: %w", err)
			}
			if token != "" {
				r.SetAuthToken(token)
			}
			return nil
		})
	return &Client{rest: rest, currency: currency, log: log}, nil
}

// check turns a failed exchange into an error.
func check(resp *resty.Response, err error, body *envelope) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		if e, ok := resp.Error().(*envelope); ok && e.Error != "" {
			return fmt.Errorf("%s %s: %s: %s", resp.Request.Method, resp.Request.URL, resp.Status(), e.Error)
		}
		return fmt.Errorf("%s %s: %s", resp.Request.Method, resp.Request.URL, resp.Status())
	}
	if body != nil && body.Error != "" {
		return errors.New(body.Error)
	}
	return nil
}

// ListStocks returns the user's stock records.
func (c *Client) ListStocks(ctx context.Context) ([]UserStock, error) {
	var result struct {
		envelope
		Stocks []UserStock `json:"stocks"`
	}
	resp, err := c.rest.R().SetContext(ctx).SetResult(&result).SetError(&envelope{}).Get("/api/portfolio/stocks")
	if err := check(resp, err, &result.envelope); err != nil {
		return nil, fmt.Errorf("cannot list stocks: %w", err)
	}
	c.log.Debug().Int("count", len(result.Stocks)).Msg("stocks listed")
	return result.Stocks, nil
}

// Positions returns the user's stock records as lots.
// Invalid records, like a negative quantity, are logged and skipped.
func (c *Client) Positions(ctx context.Context) ([]folio.Position, error) {
	stocks, err := c.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	positions := make([]folio.Position, 0, len(stocks))
	for _, s := range stocks {
		p := s.Position(c.currency)
		if err := p.Validate(); err != nil {
			c.log.Warn().Err(err).Str("id", s.ID).Str("symbol", s.Symbol).Msg("skipping invalid stock record")
			continue
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// AddStock stores a new stock record and returns it as stored.
func (c *Client) AddStock(ctx context.Context, in CreateStockInput) (UserStock, error) {
	var result struct {
		envelope
		Stock *UserStock `json:"stock"`
	}
	resp, err := c.rest.R().SetContext(ctx).SetBody(in).SetResult(&result).SetError(&envelope{}).Post("/api/portfolio/stocks")
	if err := check(resp, err, &result.envelope); err != nil {
		return UserStock{}, fmt.Errorf("cannot add %s: %w", in.Symbol, err)
	}
	if result.Stock == nil {
		return UserStock{}, fmt.Errorf("cannot add %s: no stock returned from server", in.Symbol)
	}
	return *result.Stock, nil
}

// AddPosition implements folio.PositionSink.
func (c *Client) AddPosition(ctx context.Context, p folio.Position) error {
	_, err := c.AddStock(ctx, NewCreateStockInput(p))
	return err
}

// DeleteStock removes the stock record id.
func (c *Client) DeleteStock(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("cannot delete stock: empty id")
	}
	resp, err := c.rest.R().SetContext(ctx).SetPathParam("id", id).SetError(&envelope{}).Delete("/api/portfolio/stocks/{id}")
	if err := check(resp, err, nil); err != nil {
		return fmt.Errorf("cannot delete stock %s: %w", id, err)
	}
	return nil
}

// DashboardOverview returns today's snapshot and its comparison with yesterday.
func (c *Client) DashboardOverview(ctx context.Context) (Overview, error) {
	var result struct {
		envelope
		Overview
	}
	resp, err := c.rest.R().SetContext(ctx).SetResult(&result).SetError(&envelope{}).Get("/api/dashboard/overview")
	if err := check(resp, err, &result.envelope); err != nil {
		return Overview{}, fmt.Errorf("cannot get dashboard overview: %w", err)
	}
	return result.Overview, nil
}

var _ folio.PositionSink = (*Client)(nil)

// restyLogger routes resty's own messages to zerolog.
type restyLogger struct{ log zerolog.Logger }

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
