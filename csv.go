package folio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Row errors reported by ParseCSV.
const (
	ErrSymbolRequired     = "Symbol is required"
	ErrQuantityPositive   = "Quantity must be a positive number"
	ErrPriceNonNegative   = "Purchase price must be a non-negative number"
	ErrCommissionNegative = "Commission must be a non-negative number"
	ErrInvalidDate        = "Invalid date format"
)

// ErrMissingColumns is returned by ParseCSV when the header has no symbol or no quantity column.
var ErrMissingColumns = errors.New("CSV must contain Symbol and Quantity columns")

// ParsedRow is the outcome of parsing one CSV data row.
type ParsedRow struct {
	Line     int      // 1-based line number in the input.
	Position Position // best effort, even for invalid rows.
	Errors   []string // empty for a valid row.
}

// Valid reports whether the row produced a valid position.
func (r ParsedRow) Valid() bool { return len(r.Errors) == 0 }

// column synonyms, matched as substrings of the lower-cased header, in priority order.
var (
	symbolColumn     = []string{"symbol", "ticker", "stock"}
	quantityColumn   = []string{"quantity", "qty", "shares", "amount"}
	fallbackColumn   = []string{"current price", "last price", "market price", "close"}
	priceColumn      = []string{"purchase price", "price", "cost", "purchaseprice"}
	dateColumn       = []string{"trade date", "purchase date", "date", "tradedate", "purchasedate"}
	commissionColumn = []string{"commission", "fee", "commission fee"}
	commentColumn    = []string{"comment", "note"}
)

// columns holds the index of each known column, -1 when absent.
type columns struct {
	symbol, quantity, fallback, price, date, commission, comment int
}

// mapColumns finds the known columns in header. A column is claimed at most once.
func mapColumns(header []string) columns {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.ToLower(strings.TrimSpace(h))
	}
	claimed := make(map[int]bool)
	find := func(synonyms []string) int {
		for _, s := range synonyms {
			for i, name := range names {
				if !claimed[i] && strings.Contains(name, s) {
					claimed[i] = true
					return i
				}
			}
		}
		return -1
	}
	// Order matters: "current price" must be claimed before "price".
	var c columns
	c.symbol = find(symbolColumn)
	c.quantity = find(quantityColumn)
	c.date = find(dateColumn)
	c.commission = find(commissionColumn)
	c.fallback = find(fallbackColumn)
	c.price = find(priceColumn)
	c.comment = find(commentColumn)
	return c
}

// ParseCSV reads positions from a CSV export with a header row.
//
// Column names are matched loosely (e.g. "Ticker", "Qty", "Trade Date"). Each data
// row yields a ParsedRow: a bad row never stops the import, its errors are attached
// to it. An error is returned only if the input cannot be read or misses the symbol
// or quantity column. Monetary values are in currency.
func ParseCSV(r io.Reader, currency string) ([]ParsedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var cols *columns
	var rows []ParsedRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("cannot read CSV: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if cols == nil {
			c := mapColumns(record)
			if c.symbol < 0 || c.quantity < 0 {
				return nil, fmt.Errorf("invalid header line %d %q: %w", line, strings.Join(record, ","), ErrMissingColumns)
			}
			cols = &c
			continue
		}
		rows = append(rows, parseRow(line, record, *cols, currency))
	}
	return rows, nil
}

// parseRow validates a single data record.
func parseRow(line int, record []string, cols columns, currency string) ParsedRow {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	row := ParsedRow{Line: line}
	p := &row.Position

	p.Symbol = NormalizeSymbol(field(cols.symbol))
	if p.Symbol == "" {
		row.Errors = append(row.Errors, ErrSymbolRequired)
	}

	if q, err := parseNumber(field(cols.quantity)); err != nil || !q.IsPositive() {
		row.Errors = append(row.Errors, ErrQuantityPositive)
	} else {
		p.Quantity = Q(q)
	}

	if s := field(cols.price); s != "" {
		if v, err := parseNumber(s); err != nil || v.IsNegative() {
			row.Errors = append(row.Errors, ErrPriceNonNegative)
		} else {
			p.PurchasePrice, p.HasPrice = M(v, currency), true
		}
	}

	if s := field(cols.commission); s != "" {
		if v, err := parseNumber(s); err != nil || v.IsNegative() {
			row.Errors = append(row.Errors, ErrCommissionNegative)
		} else {
			p.Commission = M(v, currency)
		}
	}

	if s := field(cols.date); s != "" {
		if on, err := date.ParseAny(s); err != nil {
			row.Errors = append(row.Errors, ErrInvalidDate)
		} else {
			p.TradeDate = on
		}
	}

	// The fallback price is informative, an unreadable one is ignored.
	if v, err := parseNumber(field(cols.fallback)); err == nil && v.IsPositive() {
		p.FallbackPrice = M(v, currency)
	}
	p.Comment = field(cols.comment)
	return row
}

// parseNumber parses a decimal number, tolerating a leading "$" and thousands separators.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("empty number")
	}
	return decimal.NewFromString(s)
}

// blank reports whether all fields of record are empty.
func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ValidPositions returns the positions of valid rows, in input order.
func ValidPositions(rows []ParsedRow) []Position {
	positions := make([]Position, 0, len(rows))
	for _, r := range rows {
		if r.Valid() {
			positions = append(positions, r.Position)
		}
	}
	return positions
}
