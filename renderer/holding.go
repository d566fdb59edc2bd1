// Package renderer formats portfolio reports as markdown.
package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders the holdings table and the portfolio summary.
func HoldingsMarkdown(holdings []folio.Holding, s folio.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Holdings")

	totalGain, totalGainPercent := gain(s.TotalGain, s.TotalGainPercent, s.CostKnown)
	totalCost := s.TotalCost.String()
	if !s.CostKnown {
		totalCost += " (partial)"
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{md.Bold("Total Value"), md.Bold(s.TotalValue.String()), ""},
		Rows: [][]string{
			{"Total Cost", totalCost, ""},
			{"Total Gain", totalGain, totalGainPercent},
			{"Day's Change", s.DayChange.SignedString(), s.DayChangePercent.SignedString()},
		},
	})

	if len(holdings) == 0 {
		doc.PlainText("No positions.")
		return doc.String()
	}

	doc.H2("Positions")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Symbol", "Quantity", "Avg Cost", "Price", "Value", "Gain", "Gain %", "Day", "Day %"},
		Rows:   [][]string{},
	}
	for _, h := range holdings {
		avg := h.AvgCost.String()
		if !h.CostKnown {
			avg = na
		}
		price := h.CurrentPrice.String()
		if !h.Quoted {
			price += "*"
		}
		g, gp := gain(h.UnrealizedGain, h.UnrealizedGainPercent, h.CostKnown)
		table.Rows = append(table.Rows, []string{
			h.Symbol,
			h.TotalQuantity.String(),
			avg,
			price,
			h.CurrentValue.String(),
			g,
			gp,
			h.DayChange.SignedString(),
			h.DayChangePercent.SignedString(),
		})
	}
	doc.Table(table)

	var notes bytes.Buffer
	ConditionalBlock(&notes, func(w io.Writer) bool {
		noted := false
		for _, h := range holdings {
			if !h.Quoted {
				fmt.Fprintf(w, "- %s: no quote, valued at its last known price.\n", h.Symbol)
				noted = true
			}
			if !h.CostKnown {
				fmt.Fprintf(w, "- %s: some lots have no purchase price.\n", h.Symbol)
				noted = true
			}
		}
		return noted
	})
	if notes.Len() > 0 {
		doc.H2("Notes")
		doc.PlainText(notes.String())
	}
	return doc.String()
}
