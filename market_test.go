package folio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// fakeSource serves canned quotes and histories, failing unknown symbols.
type fakeSource struct {
	quotes    map[string]float64
	histories map[string]*date.History[float64]

	mu       sync.Mutex
	requests []string

	inflight, peak atomic.Int32
	latency        time.Duration
}

func (f *fakeSource) enter(symbol string) func() {
	f.mu.Lock()
	f.requests = append(f.requests, symbol)
	f.mu.Unlock()
	n := f.inflight.Add(1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.latency)
	return func() { f.inflight.Add(-1) }
}

func (f *fakeSource) Quote(_ context.Context, symbol string) (Quote, error) {
	defer f.enter(symbol)()
	price, ok := f.quotes[symbol]
	if !ok {
		return Quote{}, errors.New("unknown symbol")
	}
	return NewQuote(symbol, M(price, "USD"), M(price-1, "USD")), nil
}

func (f *fakeSource) History(_ context.Context, symbol string, _ date.Window) (*date.History[float64], error) {
	defer f.enter(symbol)()
	h, ok := f.histories[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return h, nil
}

func TestNewMarket_NilSource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewMarket(nil, nil) did not panic")
		}
	}()
	NewMarket(nil, nil, zerolog.Nop())
}

func TestMarket_Quotes(t *testing.T) {
	src := &fakeSource{quotes: map[string]float64{"AAPL": 150, "MSFT": 300}}
	m := NewMarket(src, src, zerolog.Nop())

	quotes := m.Quotes(context.Background(), []string{"aapl", "MISSING", "MSFT", "AAPL", ""})
	var got []string
	for _, q := range quotes {
		got = append(got, q.Symbol)
	}
	if diff := cmp.Diff([]string{"AAPL", "MSFT"}, got); diff != "" {
		t.Errorf("Quotes() mismatch (-want +got):\n%s", diff)
	}
	if len(src.requests) != 3 {
		t.Errorf("Quotes() sent %d requests, want 3 (one per distinct symbol)", len(src.requests))
	}
}

func TestMarket_Concurrency(t *testing.T) {
	src := &fakeSource{quotes: map[string]float64{}, latency: 10 * time.Millisecond}
	m := NewMarket(src, src, zerolog.Nop())
	m.Concurrency = 2

	m.Quotes(context.Background(), []string{"A", "B", "C", "D", "E", "F"})
	if peak := src.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}

func TestMarket_Histories(t *testing.T) {
	aapl := new(date.History[float64]).Append(date.New(2024, 1, 2), 10)
	src := &fakeSource{histories: map[string]*date.History[float64]{"AAPL": aapl}}
	m := NewMarket(src, src, zerolog.Nop())

	histories := m.Histories(context.Background(), []string{"AAPL", "GONE"}, date.OneMonth)
	if len(histories) != 2 {
		t.Fatalf("Histories() = %d entries, want 2", len(histories))
	}
	if histories["AAPL"].Len() != 1 {
		t.Errorf("AAPL history len = %d, want 1", histories["AAPL"].Len())
	}
	if h := histories["GONE"]; h == nil || h.Len() != 0 {
		t.Errorf("GONE history = %v, want empty", h)
	}
}

func TestMarket_Portfolio(t *testing.T) {
	src := &fakeSource{quotes: map[string]float64{"AAPL": 150}}
	m := NewMarket(src, src, zerolog.Nop())

	p := lot("AAPL", "2024-01-02", 10, 100)
	q := lot("XYZ", "2024-01-02", 1, 5)
	q.FallbackPrice = M(7, "USD")
	holdings, summary := m.Portfolio(context.Background(), []Position{p, q})
	if len(holdings) != 2 {
		t.Fatalf("Portfolio() = %d holdings, want 2", len(holdings))
	}
	if !summary.TotalValue.Equal(M(1507, "USD")) {
		t.Errorf("TotalValue = %v, want 1507", summary.TotalValue)
	}
	if !summary.DayChange.Equal(M(10, "USD")) {
		t.Errorf("DayChange = %v, want 10", summary.DayChange)
	}
}

func TestMarket_History(t *testing.T) {
	h := new(date.History[float64]).Append(date.New(2024, 1, 2), 10).Append(date.New(2024, 1, 3), 11)
	src := &fakeSource{histories: map[string]*date.History[float64]{"AAPL": h}}
	m := NewMarket(src, src, zerolog.Nop())

	points := m.History(context.Background(), []Position{lot("AAPL", "2024-01-01", 2, 1)}, date.FiveDays)
	if diff := cmp.Diff([]string{"2024-01-02=20.00", "2024-01-03=22.00"}, values(points)); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
}
