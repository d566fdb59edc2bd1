package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// ParsedMarkdown renders the outcome of parsing a CSV file, before any import.
func ParsedMarkdown(rows []folio.ParsedRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	valid := len(folio.ValidPositions(rows))
	doc.H1("CSV Preview")
	doc.PlainText(fmt.Sprintf("%d rows, %d valid, %d invalid.", len(rows), valid, len(rows)-valid))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Line", "Position", "Status", "Errors"},
		Rows:      [][]string{},
	}
	for _, r := range rows {
		status := "valid"
		if !r.Valid() {
			status = "invalid"
		}
		table.Rows = append(table.Rows, []string{fmt.Sprint(r.Line), r.Position.String(), status, strings.Join(r.Errors, "; ")})
	}
	doc.Table(table)
	return doc.String()
}

// ImportMarkdown renders the outcome of an import run.
func ImportMarkdown(r folio.ImportReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Import Report")
	doc.PlainText(fmt.Sprintf("%d imported, %d failed, %d skipped.", r.Succeeded, r.Failed, r.Skipped))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Line", "Position", "Status", "Reason"},
		Rows:      [][]string{},
	}
	for _, row := range r.Rows {
		reason := strings.Join(row.Errors, "; ")
		if row.Err != nil {
			reason = row.Err.Error()
		}
		status := row.Status.String()
		if !row.Valid() {
			status = "skipped"
		}
		table.Rows = append(table.Rows, []string{fmt.Sprint(row.Line), row.Position.String(), status, reason})
	}
	doc.Table(table)
	return doc.String()
}
