package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
)

// CompareMarkdown renders symbols side by side: their quote, their change over
// the window, and their closes day by day.
func CompareMarkdown(comparisons []folio.Comparison, w date.Window) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Comparison (%s)", w))
	if len(comparisons) == 0 {
		doc.PlainText("No symbols.")
		return doc.String()
	}

	summary := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Symbol", "Price", "Day %", "Window", "Change", "Change %"},
		Rows:      [][]string{},
	}
	closes := make([]*date.History[float64], 0, len(comparisons))
	header := []string{"Date"}
	for _, c := range comparisons {
		price, day := na, na
		if !c.Quote.IsZero() {
			price, day = c.Quote.Price.String(), c.Quote.ChangePercent.SignedString()
		}
		window, change, percent := na, na, na
		if c.Chartable() {
			window = date.Range{From: c.From, To: c.To}.String()
			change, percent = c.Change.SignedString(), c.ChangePercent.SignedString()
		}
		summary.Rows = append(summary.Rows, []string{c.Symbol, price, day, window, change, percent})
		closes = append(closes, c.Closes)
		header = append(header, c.Symbol)
	}
	doc.Table(summary)

	alignment := []md.TableAlignment{md.AlignLeft}
	for range comparisons {
		alignment = append(alignment, md.AlignRight)
	}
	series := md.TableSet{Alignment: alignment, Header: header, Rows: [][]string{}}
	for day := range date.Iterate(closes...) {
		row := []string{day.String()}
		for _, h := range closes {
			cell := ""
			if v, ok := h.Get(day); ok {
				cell = strconv.FormatFloat(v, 'f', 2, 64)
			}
			row = append(row, cell)
		}
		series.Rows = append(series.Rows, row)
	}
	if len(series.Rows) == 0 {
		return doc.String()
	}
	doc.H2("Closes")
	doc.Table(series)
	return doc.String()
}
