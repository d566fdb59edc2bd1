package renderer

import (
	"bytes"
	"strconv"

	"github.com/etnz/folio/backend"
	md "github.com/nao1215/markdown"
)

// StocksMarkdown renders the backend's stock records with their ids.
func StocksMarkdown(stocks []backend.UserStock) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Stocks")
	if len(stocks) == 0 {
		doc.PlainText("No stocks.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Id", "Symbol", "Quantity", "Price", "Date"},
		Rows:      [][]string{},
	}
	for _, s := range stocks {
		price := na
		if s.PurchasePrice != nil {
			price = strconv.FormatFloat(*s.PurchasePrice, 'f', 2, 64)
		}
		on := ""
		if !s.PurchaseDate.IsZero() {
			on = s.PurchaseDate.String()
		}
		table.Rows = append(table.Rows, []string{s.ID, s.Symbol, strconv.FormatFloat(s.Quantity, 'f', -1, 64), price, on})
	}
	doc.Table(table)
	return doc.String()
}
