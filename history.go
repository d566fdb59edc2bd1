package folio

import (
	"maps"
	"slices"

	"github.com/etnz/folio/date"
)

// HistoryPoint is the value of the portfolio on a day.
type HistoryPoint struct {
	Date  date.Date `json:"date"`
	Value Money     `json:"value"`
}

// BuildHistory reconstructs the portfolio value on every day found in the
// historical price series.
//
// A lot contributes nothing before its trade date, even if prices exist for
// earlier days, and lots without trade date are ignored. On a day without a
// price for its symbol, a lot is valued at the last known price of that symbol;
// it is worth zero until a first price is known. Every day of the series is
// returned, in chronological order, including days valued zero.
func BuildHistory(positions []Position, historical map[string]*date.History[float64]) []HistoryPoint {
	series := mergeSeries(historical)
	all := make([]*date.History[float64], 0, len(series))
	for _, h := range series {
		all = append(all, h)
	}

	active := make([]Position, 0, len(positions))
	cur := ""
	for _, p := range positions {
		if p.TradeDate.IsZero() {
			continue
		}
		p.Symbol = NormalizeSymbol(p.Symbol)
		active = append(active, p)
		if cur == "" {
			cur = lots{p}.currency()
		}
	}

	var points []HistoryPoint
	for on := range date.Iterate(all...) {
		value := M(0, cur)
		for _, p := range active {
			if on.Before(p.TradeDate) {
				continue
			}
			// the axis is the union of all the series' days, so the price as of
			// 'on' is the last price seen so far while walking the axis.
			price, ok := series[p.Symbol].ValueAsOf(on)
			if !ok {
				continue
			}
			value = value.Add(M(price, cur).Mul(p.Quantity))
		}
		points = append(points, HistoryPoint{Date: on, Value: value})
	}
	return points
}

// Chartable reports whether there are enough points to draw a trend.
func Chartable(points []HistoryPoint) bool { return len(points) >= 2 }

// mergeSeries indexes historical by normalized symbol. Series whose keys
// normalize to the same symbol are merged into a new series, keys being
// visited in sorted order so that on a shared day the last key wins.
func mergeSeries(historical map[string]*date.History[float64]) map[string]*date.History[float64] {
	series := make(map[string]*date.History[float64], len(historical))
	merged := make(map[string]bool)
	for _, key := range slices.Sorted(maps.Keys(historical)) {
		symbol, h := NormalizeSymbol(key), historical[key]
		prev, ok := series[symbol]
		if !ok {
			series[symbol] = h
			continue
		}
		if !merged[symbol] {
			// never modify the caller's series.
			prev = copySeries(prev)
			series[symbol], merged[symbol] = prev, true
		}
		for on, v := range h.Values() {
			prev.Append(on, v)
		}
	}
	return series
}

func copySeries(h *date.History[float64]) *date.History[float64] {
	c := new(date.History[float64])
	for on, v := range h.Values() {
		c.Append(on, v)
	}
	return c
}
