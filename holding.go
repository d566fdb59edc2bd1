package folio

import (
	"slices"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Holding is the aggregated view of all the lots of a symbol, valued with a quote.
type Holding struct {
	Symbol    string     `json:"symbol"`
	Positions []Position `json:"-"`

	TotalQuantity Quantity `json:"totalQuantity"`
	AvgCost       Money    `json:"avgCost"`
	TotalCost     Money    `json:"totalCost"`
	// CostKnown is false when at least one lot has no purchase price: its quantity
	// counts in TotalQuantity but nothing is added to TotalCost.
	CostKnown bool `json:"costKnown"`

	CurrentPrice Money `json:"currentPrice"`
	// Quoted is false when CurrentPrice comes from the fallback price.
	Quoted                bool    `json:"quoted"`
	CurrentValue          Money   `json:"currentValue"`
	UnrealizedGain        Money   `json:"unrealizedGain"`
	UnrealizedGainPercent Percent `json:"unrealizedGainPercent"`

	DayChange        Money   `json:"dayChange"`
	DayChangePercent Percent `json:"dayChangePercent"`

	InitialDate date.Date `json:"initialDate"`
}

// Summary is the portfolio wide view of a set of holdings.
type Summary struct {
	TotalValue       Money   `json:"totalValue"`
	TotalCost        Money   `json:"totalCost"`
	TotalGain        Money   `json:"totalGain"`
	TotalGainPercent Percent `json:"totalGainPercent"`
	DayChange        Money   `json:"dayChange"`
	DayChangePercent Percent `json:"dayChangePercent"`
	CostKnown        bool    `json:"costKnown"`
}

// Aggregate groups positions by symbol and values each group with its quote.
//
// Symbols are matched case insensitively. A symbol without a usable quote is
// valued at its fallback price, with no day change. Holdings are sorted by
// descending current value, then by symbol.
func Aggregate(positions []Position, quotes []Quote) ([]Holding, Summary) {
	index := indexQuotes(quotes)
	symbols, groups := groupBySymbol(positions)

	holdings := make([]Holding, 0, len(symbols))
	for _, symbol := range symbols {
		holdings = append(holdings, newHolding(symbol, groups[symbol], index))
	}
	slices.SortStableFunc(holdings, func(a, b Holding) int {
		if c := b.CurrentValue.value.Cmp(a.CurrentValue.value); c != 0 {
			return c
		}
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return holdings, Summarize(holdings)
}

// newHolding values the lots of symbol.
func newHolding(symbol string, l lots, quotes map[string]Quote) Holding {
	h := Holding{
		Symbol:        symbol,
		Positions:     l,
		TotalQuantity: l.quantity(),
		InitialDate:   l.initialDate(),
	}
	cur := l.currency()
	h.TotalCost, h.CostKnown = l.cost()
	h.TotalCost = h.TotalCost.In(cur)
	if h.TotalQuantity.IsPositive() {
		h.AvgCost = h.TotalCost.Div(h.TotalQuantity)
	}
	h.AvgCost = h.AvgCost.In(cur)

	if q, ok := quotes[symbol]; ok {
		h.Quoted = true
		h.CurrentPrice = q.Price
		h.DayChange = q.Change.Mul(h.TotalQuantity)
		h.DayChangePercent = q.ChangePercent
	} else {
		h.CurrentPrice = l.fallbackPrice()
	}
	h.CurrentPrice = h.CurrentPrice.In(cur)
	h.DayChange = h.DayChange.In(h.CurrentPrice.Currency())

	h.CurrentValue = h.CurrentPrice.Mul(h.TotalQuantity)
	h.UnrealizedGain = h.CurrentValue.Sub(h.TotalCost)
	h.UnrealizedGainPercent = percentOf(h.UnrealizedGain, h.TotalCost)
	return h
}

// Summarize computes the portfolio summary of holdings.
//
// The day change percent is the average of the holdings' day change percent
// weighted by their share of the total value.
func Summarize(holdings []Holding) Summary {
	s := Summary{CostKnown: true}
	for _, h := range holdings {
		s.TotalValue = s.TotalValue.Add(h.CurrentValue)
		s.TotalCost = s.TotalCost.Add(h.TotalCost)
		s.DayChange = s.DayChange.Add(h.DayChange)
		s.CostKnown = s.CostKnown && h.CostKnown
	}
	s.TotalGain = s.TotalValue.Sub(s.TotalCost)
	s.TotalGainPercent = percentOf(s.TotalGain, s.TotalCost)

	if !s.TotalValue.IsZero() {
		var weighted decimal.Decimal
		for _, h := range holdings {
			weight := h.CurrentValue.Ratio(s.TotalValue)
			weighted = weighted.Add(weight.Mul(decimal.NewFromFloat(float64(h.DayChangePercent))))
		}
		s.DayChangePercent = Percent(weighted.InexactFloat64())
	}
	return s
}
