package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the portfolio value over a chart window.
func HistoryMarkdown(points []folio.HistoryPoint, w date.Window) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio History (%s)", w))

	if !folio.Chartable(points) {
		doc.PlainText("Not enough data to draw a trend.")
		if len(points) == 1 {
			doc.PlainText(fmt.Sprintf("Value on %s: %s", points[0].Date, points[0].Value))
		}
		return doc.String()
	}

	first, last := points[0], points[len(points)-1]
	change := last.Value.Sub(first.Value)
	percent := folio.Percent(0)
	if !first.Value.IsZero() {
		percent = folio.Percent(change.Ratio(first.Value).InexactFloat64() * 100)
	}
	doc.PlainText(fmt.Sprintf("From %s to %s: %s (%s)", first.Date, last.Date, change.SignedString(), percent.SignedString()))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Value", "Change"},
		Rows:      [][]string{},
	}
	for i, p := range points {
		delta := ""
		if i > 0 {
			delta = p.Value.Sub(points[i-1].Value).SignedString()
		}
		table.Rows = append(table.Rows, []string{p.Date.String(), p.Value.String(), delta})
	}
	doc.Table(table)
	return doc.String()
}
