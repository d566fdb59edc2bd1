package folio

import (
	"github.com/etnz/folio/date"
)

// lots are the purchase lots of a single symbol.
type lots []Position

// groupBySymbol groups positions by normalized symbol.
// Symbols are returned in order of first appearance.
func groupBySymbol(positions []Position) (symbols []string, groups map[string]lots) {
	groups = make(map[string]lots)
	for _, p := range positions {
		p.Symbol = NormalizeSymbol(p.Symbol)
		if _, ok := groups[p.Symbol]; !ok {
			symbols = append(symbols, p.Symbol)
		}
		groups[p.Symbol] = append(groups[p.Symbol], p)
	}
	return symbols, groups
}

// quantity returns the total quantity held across lots.
func (l lots) quantity() Quantity {
	var total Quantity
	for _, p := range l {
		total = total.Add(p.Quantity)
	}
	return total
}

// cost returns the cost basis of lots with a known purchase price.
// complete is false if at least one lot has no known price.
// Empty lots contribute nothing, not even their commission.
func (l lots) cost() (total Money, complete bool) {
	complete = true
	for _, p := range l {
		if p.Quantity.IsZero() {
			continue
		}
		c, ok := p.Cost()
		if !ok {
			complete = false
			continue
		}
		total = total.Add(c)
	}
	return total, complete
}

// fallbackPrice returns the first non zero fallback price, or zero.
func (l lots) fallbackPrice() Money {
	for _, p := range l {
		if !p.FallbackPrice.IsZero() {
			return p.FallbackPrice
		}
	}
	return Money{}
}

// initialDate returns the earliest known trade date, or the zero date.
func (l lots) initialDate() date.Date {
	var first date.Date
	for _, p := range l {
		if p.TradeDate.IsZero() {
			continue
		}
		if first.IsZero() || p.TradeDate.Before(first) {
			first = p.TradeDate
		}
	}
	return first
}

// currency returns the first currency found among lot amounts.
func (l lots) currency() string {
	for _, p := range l {
		for _, m := range []Money{p.PurchasePrice, p.Commission, p.FallbackPrice} {
			if c := m.Currency(); c != "" {
				return c
			}
		}
	}
	return ""
}
