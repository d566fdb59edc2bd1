package folio

import (
	"context"

	"github.com/etnz/folio/date"
)

// Comparison is the performance of one symbol over a chart window, next to its current quote.
type Comparison struct {
	Symbol string
	Quote  Quote                  // zero if the quote is missing.
	Closes *date.History[float64] // never nil, empty if the series is missing.

	From, To      date.Date // dates of the first and last close.
	Change        Money     // last close minus first close, in the quote's currency.
	ChangePercent Percent
}

// Chartable reports whether the comparison has enough closes to show a trend.
func (c Comparison) Chartable() bool { return c.Closes.Len() >= 2 }

// Compare lines up symbols with their quote and close series, in the order of
// symbols, normalized and without duplicates.
func Compare(symbols []string, quotes []Quote, histories map[string]*date.History[float64]) []Comparison {
	index := indexQuotes(quotes)
	series := mergeSeries(histories)

	result := make([]Comparison, 0, len(symbols))
	for _, symbol := range distinct(symbols) {
		c := Comparison{Symbol: symbol, Quote: index[symbol], Closes: series[symbol]}
		if c.Closes == nil {
			c.Closes = new(date.History[float64])
		}
		if c.Chartable() {
			var first float64
			for day, v := range c.Closes.Values() {
				c.From, first = day, v
				break
			}
			var last float64
			c.To, last = c.Closes.Latest()
			cur := c.Quote.Price.Currency()
			c.Change = M(last, cur).Sub(M(first, cur))
			c.ChangePercent = percentOf(c.Change, M(first, cur))
		}
		result = append(result, c)
	}
	return result
}

// Compare fetches quotes and close series of symbols over w and lines them up.
func (m *Market) Compare(ctx context.Context, symbols []string, w date.Window) []Comparison {
	return Compare(symbols, m.Quotes(ctx, symbols), m.Histories(ctx, symbols, w))
}
