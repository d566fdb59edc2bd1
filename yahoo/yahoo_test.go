package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartAAPL = `{"chart":{"result":[{
	"meta":{"currency":"USD","symbol":"AAPL","regularMarketPrice":150.5,"chartPreviousClose":148.0},
	"timestamp":[1704985800,1705072200,1705417800],
	"indicators":{"quote":[{"close":[185.59,null,183.63]}]}
}],"error":null}}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return &Client{Base: server.URL, Currency: "USD", HTTP: server.Client(), Log: zerolog.Nop()}
}

func TestClient_Quote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		w.Write([]byte(chartAAPL))
	})

	q, err := c.Quote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.InDelta(t, 150.5, q.Price.Float64(), 1e-9)
	assert.InDelta(t, 2.5, q.Change.Float64(), 1e-9)
	assert.InDelta(t, 1.6892, float64(q.ChangePercent), 1e-3)
}

func TestClient_Quote_NoPreviousClose(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":42}}],"error":null}}`))
	})
	q, err := c.Quote(context.Background(), "NEW")
	require.NoError(t, err)
	assert.InDelta(t, 42, q.Price.Float64(), 1e-9)
	assert.True(t, q.Change.IsZero())
}

func TestClient_CurrencyMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Replace(chartAAPL, `"currency":"USD"`, `"currency":"EUR"`, 1)))
	})

	_, err := c.Quote(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "AAPL is priced in EUR, not USD")

	_, err = c.History(context.Background(), "AAPL", date.OneMonth)
	assert.ErrorContains(t, err, "priced in EUR")

	// no currency configured: prices stay unitless, nothing to check.
	c.Currency = ""
	_, err = c.Quote(context.Background(), "AAPL")
	assert.NoError(t, err)
}

func TestClient_Quote_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})
	_, err := c.Quote(context.Background(), "ZZZZ")
	assert.ErrorContains(t, err, "symbol may be delisted")
}

func TestClient_Quote_Malformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})
	_, err := c.Quote(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestClient_History(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "5d", r.URL.Query().Get("range"))
		w.Write([]byte(chartAAPL))
	})

	h, err := c.History(context.Background(), "AAPL", date.FiveDays)
	require.NoError(t, err)
	// the null close is skipped.
	require.Equal(t, 2, h.Len())

	first := date.Of(time.Unix(1704985800, 0))
	v, ok := h.Get(first)
	assert.True(t, ok)
	assert.Equal(t, 185.59, v)

	last, v := h.Latest()
	assert.Equal(t, date.Of(time.Unix(1705417800, 0)), last)
	assert.Equal(t, 183.63, v)
}

func TestClient_History_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":42},"indicators":{"quote":[{}]}}],"error":null}}`))
	})
	h, err := c.History(context.Background(), "NEW", date.OneMonth)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
}

func TestClient_History_SameDaySamples(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{},
			"timestamp":[1705069800,1705070100,1705070400],
			"indicators":{"quote":[{"close":[1,2,3]}]}}],"error":null}}`))
	})
	h, err := c.History(context.Background(), "AAPL", date.OneDay)
	require.NoError(t, err)
	require.Equal(t, 1, h.Len())
	_, v := h.Latest()
	assert.Equal(t, 3.0, v)
}
