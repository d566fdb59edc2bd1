package folio

// Quote is the current price snapshot of a symbol.
//
// The zero Quote, whose price is zero, stands for a missing quote.
type Quote struct {
	Symbol        string
	Price         Money
	Change        Money   // per share, since previous close.
	ChangePercent Percent // since previous close.
}

// NewQuote returns a quote from a price and the previous close, deriving the change.
func NewQuote(symbol string, price, previousClose Money) Quote {
	q := Quote{Symbol: NormalizeSymbol(symbol), Price: price}
	if previousClose.IsZero() {
		return q
	}
	q.Change = price.Sub(previousClose)
	q.ChangePercent = percentOf(q.Change, previousClose)
	return q
}

// IsZero reports whether q is the missing quote sentinel.
func (q Quote) IsZero() bool { return q.Price.IsZero() }

// indexQuotes returns the usable quotes indexed by normalized symbol.
// Missing sentinels are skipped, the last quote of a symbol wins.
func indexQuotes(quotes []Quote) map[string]Quote {
	index := make(map[string]Quote, len(quotes))
	for _, q := range quotes {
		if q.IsZero() {
			continue
		}
		index[NormalizeSymbol(q.Symbol)] = q
	}
	return index
}
