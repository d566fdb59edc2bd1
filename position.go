package folio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/folio/date"
)

// Position is a single purchase lot: a quantity of a symbol bought on a day at a price.
//
// Positions are values, the core never mutates them.
type Position struct {
	Symbol    string    // normalized ticker, see NormalizeSymbol.
	TradeDate date.Date // zero when unknown, the lot is then excluded from history.
	Quantity  Quantity  // never negative.

	// PurchasePrice is the per share price paid, only meaningful if HasPrice is true.
	PurchasePrice Money
	HasPrice      bool

	// Commission is paid once for the lot, it is added to the cost basis.
	Commission Money

	// FallbackPrice is a previously known price used when no quote can be resolved.
	FallbackPrice Money

	Comment string
}

// NormalizeSymbol returns the canonical form of a ticker: trimmed and uppercase.
func NormalizeSymbol(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// NewPosition returns a validated lot with a known purchase price.
func NewPosition(symbol string, on date.Date, quantity Quantity, price, commission Money) (Position, error) {
	p := Position{
		Symbol:        NormalizeSymbol(symbol),
		TradeDate:     on,
		Quantity:      quantity,
		PurchasePrice: price,
		HasPrice:      true,
		Commission:    commission,
	}
	return p, p.Validate()
}

// Validate checks the lot invariants.
func (p Position) Validate() error {
	var errs []error
	if p.Symbol == "" {
		errs = append(errs, errors.New("symbol is required"))
	}
	if p.Symbol != NormalizeSymbol(p.Symbol) {
		errs = append(errs, fmt.Errorf("symbol %q is not normalized", p.Symbol))
	}
	if p.Quantity.IsNegative() {
		errs = append(errs, fmt.Errorf("quantity %v is negative", p.Quantity))
	}
	if p.HasPrice && p.PurchasePrice.IsNegative() {
		errs = append(errs, fmt.Errorf("purchase price %v is negative", p.PurchasePrice))
	}
	if p.Commission.IsNegative() {
		errs = append(errs, fmt.Errorf("commission %v is negative", p.Commission))
	}
	return errors.Join(errs...)
}

// Cost returns the cost basis of the lot: price × quantity + commission.
// ok is false when the purchase price is unknown.
func (p Position) Cost() (cost Money, ok bool) {
	if !p.HasPrice {
		return Money{}, false
	}
	return p.PurchasePrice.Mul(p.Quantity).Add(p.Commission), true
}

// EffectivePrice returns the per share price with the commission blended in:
// (price × quantity + commission) / quantity.
//
// It is meant for collaborators that store a single price per lot. ok is false
// when the purchase price is unknown. A zero quantity returns the purchase price.
func (p Position) EffectivePrice() (price Money, ok bool) {
	cost, ok := p.Cost()
	if !ok {
		return Money{}, false
	}
	if p.Quantity.IsZero() {
		return p.PurchasePrice, true
	}
	return cost.Div(p.Quantity), true
}

// String returns a short description like "10 AAPL @ $150.00 on 2024-01-15".
func (p Position) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v %s", p.Quantity, p.Symbol)
	if p.HasPrice {
		fmt.Fprintf(&b, " @ %v", p.PurchasePrice)
	}
	if !p.TradeDate.IsZero() {
		fmt.Fprintf(&b, " on %v", p.TradeDate)
	}
	return b.String()
}
