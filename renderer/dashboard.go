package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/folio/backend"
	md "github.com/nao1215/markdown"
)

// DashboardMarkdown renders the backend's daily snapshot of the portfolio, in currency.
func DashboardMarkdown(o backend.Overview, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	money := func(v float64) string { return fmt.Sprintf("%.2f %s", v, currency) }
	signed := func(v float64) string { return fmt.Sprintf("%+.2f %s", v, currency) }
	percent := func(v float64) string { return fmt.Sprintf("%+.2f%%", v) }

	doc.H1(fmt.Sprintf("Dashboard on %s", o.Today.Date))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"", "Today", "Yesterday"},
		Rows:      [][]string{},
	}
	row := func(label string, today float64, yesterday func(backend.OverviewItem) float64, format func(float64) string) {
		y := na
		if o.Yesterday != nil {
			y = format(yesterday(*o.Yesterday))
		}
		table.Rows = append(table.Rows, []string{label, format(today), y})
	}
	row("Invested", o.Today.TotalInvested, func(i backend.OverviewItem) float64 { return i.TotalInvested }, money)
	row("Value", o.Today.TotalValue, func(i backend.OverviewItem) float64 { return i.TotalValue }, money)
	row("P&L", o.Today.TotalPnlValue, func(i backend.OverviewItem) float64 { return i.TotalPnlValue }, signed)
	row("P&L %", o.Today.TotalPnlPercent, func(i backend.OverviewItem) float64 { return i.TotalPnlPercent }, percent)
	doc.Table(table)

	if o.Deltas == nil {
		doc.PlainText("No previous snapshot to compare with.")
		return doc.String()
	}
	doc.H2("Since Yesterday")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Change", "Amount"},
		Rows: [][]string{
			{"Value", signed(o.Deltas.DeltaValue)},
			{"P&L", signed(o.Deltas.DeltaPnlValue)},
			{"P&L %", percent(o.Deltas.DeltaPnlPercent)},
		},
	})
	return doc.String()
}
