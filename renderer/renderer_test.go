package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/folio"
	"github.com/etnz/folio/backend"
	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// table is a parsed markdown table, header row first.
type table [][]string

// parseTables returns the tables found in a markdown document.
func parseTables(t *testing.T, doc string) []table {
	t.Helper()
	source := []byte(doc)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var tables []table
	var row []string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *east.Table:
			if entering {
				tables = append(tables, nil)
			}
		case *east.TableHeader, *east.TableRow:
			if entering {
				row = nil
			} else {
				tables[len(tables)-1] = append(tables[len(tables)-1], row)
			}
		case *east.TableCell:
			if entering {
				row = append(row, cellText(n, source))
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("cannot walk markdown: %v", err)
	}
	return tables
}

// cellText concatenates the text segments below n.
func cellText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if txt, ok := c.(*ast.Text); ok && entering {
			b.Write(txt.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// column returns the cells of column i, header excluded.
func (tb table) column(i int) []string {
	var cells []string
	for _, r := range tb[1:] {
		cells = append(cells, r[i])
	}
	return cells
}

func TestHoldingsMarkdown(t *testing.T) {
	positions := []folio.Position{
		{Symbol: "AAPL", Quantity: folio.Q(10), PurchasePrice: folio.M(100, "USD"), HasPrice: true},
		{Symbol: "AAPL", Quantity: folio.Q(5), PurchasePrice: folio.M(120, "USD"), HasPrice: true},
		{Symbol: "XYZ", Quantity: folio.Q(2), FallbackPrice: folio.M(3, "USD")},
	}
	quotes := []folio.Quote{folio.NewQuote("AAPL", folio.M(150, "USD"), folio.M(148, "USD"))}
	holdings, summary := folio.Aggregate(positions, quotes)

	doc := HoldingsMarkdown(holdings, summary)
	tables := parseTables(t, doc)
	if len(tables) != 2 {
		t.Fatalf("HoldingsMarkdown() has %d tables, want 2:\n%s", len(tables), doc)
	}

	if diff := cmp.Diff([]string{"AAPL", "XYZ"}, tables[1].column(0)); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}
	aapl := tables[1][1]
	if aapl[4] != "$2,250.00" || aapl[5] != "+$650.00" {
		t.Errorf("AAPL row = %v, want value $2,250.00 and gain +$650.00", aapl)
	}
	xyz := tables[1][2]
	if xyz[3] != "$3.00*" || xyz[2] != na || xyz[5] != na {
		t.Errorf("XYZ row = %v, want fallback price and unknown cost", xyz)
	}
	if !strings.Contains(doc, "XYZ: no quote") || !strings.Contains(doc, "XYZ: some lots have no purchase price") {
		t.Errorf("HoldingsMarkdown() misses notes:\n%s", doc)
	}
	if got := tables[0][1][1]; !strings.HasSuffix(got, "(partial)") {
		t.Errorf("total cost = %q, want a partial cost", got)
	}
}

func TestHoldingsMarkdown_Empty(t *testing.T) {
	doc := HoldingsMarkdown(nil, folio.Summary{CostKnown: true})
	if !strings.Contains(doc, "No positions.") {
		t.Errorf("HoldingsMarkdown(nil) = %q, want a no positions notice", doc)
	}
	if strings.Contains(doc, "Notes") {
		t.Errorf("HoldingsMarkdown(nil) should not have notes:\n%s", doc)
	}
}

func TestHistoryMarkdown(t *testing.T) {
	points := []folio.HistoryPoint{
		{Date: date.New(2024, 1, 2), Value: folio.M(100, "USD")},
		{Date: date.New(2024, 1, 3), Value: folio.M(110, "USD")},
		{Date: date.New(2024, 1, 4), Value: folio.M(105, "USD")},
	}
	doc := HistoryMarkdown(points, date.FiveDays)
	tables := parseTables(t, doc)
	if len(tables) != 1 {
		t.Fatalf("HistoryMarkdown() has %d tables, want 1:\n%s", len(tables), doc)
	}
	if diff := cmp.Diff([]string{"", "+$10.00", "-$5.00"}, tables[0].column(2)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(doc, "+$5.00 (+5.00%)") {
		t.Errorf("HistoryMarkdown() misses the window change:\n%s", doc)
	}
}

func TestHistoryMarkdown_NotChartable(t *testing.T) {
	doc := HistoryMarkdown([]folio.HistoryPoint{{Date: date.New(2024, 1, 2), Value: folio.M(100, "USD")}}, date.OneDay)
	if !strings.Contains(doc, "Not enough data") || len(parseTables(t, doc)) != 0 {
		t.Errorf("HistoryMarkdown(1 point) = %q, want a notice and no table", doc)
	}
}

func TestQuotesMarkdown(t *testing.T) {
	doc := QuotesMarkdown([]folio.Quote{folio.NewQuote("AAPL", folio.M(150, "USD"), folio.M(148, "USD"))}, []string{"ZZZ"})
	tables := parseTables(t, doc)
	if len(tables) != 1 {
		t.Fatalf("QuotesMarkdown() has %d tables, want 1", len(tables))
	}
	want := table{{"AAPL", "$150.00", "+$2.00", "+1.35%"}, {"ZZZ", na, na, na}}
	if diff := cmp.Diff(want, tables[0][1:]); diff != "" {
		t.Errorf("QuotesMarkdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareMarkdown(t *testing.T) {
	aapl := new(date.History[float64]).
		Append(date.New(2024, 1, 2), 10).
		Append(date.New(2024, 1, 3), 11).
		Append(date.New(2024, 1, 4), 12)
	msft := new(date.History[float64]).Append(date.New(2024, 1, 3), 300)
	comparisons := folio.Compare(
		[]string{"AAPL", "MSFT"},
		[]folio.Quote{folio.NewQuote("AAPL", folio.M(12, "USD"), folio.M(10, "USD"))},
		map[string]*date.History[float64]{"AAPL": aapl, "MSFT": msft},
	)

	doc := CompareMarkdown(comparisons, date.OneMonth)
	tables := parseTables(t, doc)
	if len(tables) != 2 {
		t.Fatalf("CompareMarkdown() has %d tables, want 2:\n%s", len(tables), doc)
	}
	want := table{
		{"AAPL", "$12.00", "+20.00%", "2024-01-02..2024-01-04", "+$2.00", "+20.00%"},
		{"MSFT", na, na, na, na, na},
	}
	if diff := cmp.Diff(want, tables[0][1:]); diff != "" {
		t.Errorf("CompareMarkdown() summary mismatch (-want +got):\n%s", diff)
	}
	closes := table{
		{"Date", "AAPL", "MSFT"},
		{"2024-01-02", "10.00", ""},
		{"2024-01-03", "11.00", "300.00"},
		{"2024-01-04", "12.00", ""},
	}
	if diff := cmp.Diff(closes, tables[1]); diff != "" {
		t.Errorf("CompareMarkdown() closes mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareMarkdown_Empty(t *testing.T) {
	doc := CompareMarkdown(nil, date.OneMonth)
	if !strings.Contains(doc, "No symbols.") || len(parseTables(t, doc)) != 0 {
		t.Errorf("CompareMarkdown(nil) = %q, want a notice and no table", doc)
	}
}

func TestStocksMarkdown(t *testing.T) {
	price := 150.0
	stocks := []backend.UserStock{
		{ID: "1", Symbol: "AAPL", Quantity: 10, PurchasePrice: &price, PurchaseDate: date.New(2024, 1, 15)},
		{ID: "2", Symbol: "MSFT", Quantity: 2.5},
	}
	tables := parseTables(t, StocksMarkdown(stocks))
	if len(tables) != 1 {
		t.Fatalf("StocksMarkdown() has %d tables, want 1", len(tables))
	}
	want := table{{"1", "AAPL", "10", "150.00", "2024-01-15"}, {"2", "MSFT", "2.5", na, ""}}
	if diff := cmp.Diff(want, tables[0][1:]); diff != "" {
		t.Errorf("StocksMarkdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestImportMarkdown(t *testing.T) {
	rows, err := folio.ParseCSV(strings.NewReader("symbol,quantity\nAAPL,1\nMSFT,-1\nGOOG,2\n"), "USD")
	if err != nil {
		t.Fatal(err)
	}

	preview := parseTables(t, ParsedMarkdown(rows))
	if diff := cmp.Diff([]string{"valid", "invalid", "valid"}, preview[0].column(2)); diff != "" {
		t.Errorf("ParsedMarkdown() status mismatch (-want +got):\n%s", diff)
	}

	report := folio.ImportReport{Succeeded: 1, Failed: 1, Skipped: 1}
	report.Rows = []folio.ImportRow{
		{ParsedRow: rows[0], Status: folio.Success},
		{ParsedRow: rows[1], Status: folio.Pending},
		{ParsedRow: rows[2], Status: folio.Failed, Err: errors.New("rejected")},
	}
	doc := ImportMarkdown(report)
	tables := parseTables(t, doc)
	if diff := cmp.Diff([]string{"success", "skipped", "failed"}, tables[0].column(2)); diff != "" {
		t.Errorf("ImportMarkdown() status mismatch (-want +got):\n%s", diff)
	}
	if got := tables[0][3][3]; got != "rejected" {
		t.Errorf("failed row reason = %q, want rejected", got)
	}
	if !strings.Contains(doc, "1 imported, 1 failed, 1 skipped.") {
		t.Errorf("ImportMarkdown() misses totals:\n%s", doc)
	}
}

func TestDashboardMarkdown(t *testing.T) {
	o := backend.Overview{
		Today:     backend.OverviewItem{Date: date.New(2024, 6, 3), TotalInvested: 1000, TotalValue: 1100, TotalPnlValue: 100, TotalPnlPercent: 10},
		Yesterday: &backend.OverviewItem{Date: date.New(2024, 6, 2), TotalInvested: 1000, TotalValue: 1050, TotalPnlValue: 50, TotalPnlPercent: 5},
		Deltas:    &backend.Deltas{DeltaValue: 50, DeltaPnlValue: 50, DeltaPnlPercent: 5},
	}
	tables := parseTables(t, DashboardMarkdown(o, "USD"))
	if len(tables) != 2 {
		t.Fatalf("DashboardMarkdown() has %d tables, want 2", len(tables))
	}
	if diff := cmp.Diff([]string{"1100.00 USD", "1050.00 USD"}, tables[0][2][1:]); diff != "" {
		t.Errorf("value row mismatch (-want +got):\n%s", diff)
	}

	first := DashboardMarkdown(backend.Overview{Today: o.Today}, "USD")
	tables = parseTables(t, first)
	if len(tables) != 1 || tables[0][1][2] != na {
		t.Errorf("DashboardMarkdown() without yesterday = %q", first)
	}
}
