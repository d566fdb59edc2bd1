package renderer

import (
	"bytes"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// QuotesMarkdown renders current quotes. Symbols without a quote are listed as such.
func QuotesMarkdown(quotes []folio.Quote, missing []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Quotes")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Symbol", "Price", "Change", "Change %"},
		Rows:      [][]string{},
	}
	for _, q := range quotes {
		table.Rows = append(table.Rows, []string{q.Symbol, q.Price.String(), q.Change.SignedString(), q.ChangePercent.SignedString()})
	}
	for _, s := range missing {
		table.Rows = append(table.Rows, []string{s, na, na, na})
	}
	doc.Table(table)
	return doc.String()
}
