package folio

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PositionSink persists positions one at a time.
type PositionSink interface {
	AddPosition(ctx context.Context, p Position) error
}

// ImportStatus is the progress of a single row import.
type ImportStatus int

const (
	Pending ImportStatus = iota
	Importing
	Success
	Failed
)

func (s ImportStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Importing:
		return "importing"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("ImportStatus(%d)", int(s))
	}
}

// ImportRow tracks the import of one parsed row.
type ImportRow struct {
	ParsedRow
	Status ImportStatus
	Err    error // reason of a Failed status.
}

// ImportReport is the outcome of an import run.
type ImportReport struct {
	Rows      []ImportRow
	Succeeded int
	Failed    int
	Skipped   int // invalid rows, never submitted.
}

// FailedRows returns the rows that failed, ready for Importer.Retry.
func (r ImportReport) FailedRows() []ImportRow {
	var rows []ImportRow
	for _, row := range r.Rows {
		if row.Status == Failed {
			rows = append(rows, row)
		}
	}
	return rows
}

// Merge returns r where rows of retried replace the rows of the same line,
// with totals recounted.
func (r ImportReport) Merge(retried ImportReport) ImportReport {
	byLine := make(map[int]ImportRow, len(retried.Rows))
	for _, row := range retried.Rows {
		byLine[row.Line] = row
	}
	merged := ImportReport{Rows: make([]ImportRow, len(r.Rows))}
	for i, row := range r.Rows {
		if again, ok := byLine[row.Line]; ok {
			row = again
		}
		merged.Rows[i] = row
		switch {
		case !row.Valid():
			merged.Skipped++
		case row.Status == Success:
			merged.Succeeded++
		case row.Status == Failed:
			merged.Failed++
		}
	}
	return merged
}

// DefaultImportDelay is the pause between two submissions.
const DefaultImportDelay = 300 * time.Millisecond

// Importer submits parsed rows to a sink, sequentially and with a delay between
// submissions so that the sink is not flooded.
type Importer struct {
	Sink  PositionSink
	Delay time.Duration // DefaultImportDelay if zero, no delay if negative.
	Log   zerolog.Logger

	// OnProgress, if not nil, is called on every status change.
	OnProgress func(ImportRow)
}

func (im *Importer) delay() time.Duration {
	switch {
	case im.Delay == 0:
		return DefaultImportDelay
	case im.Delay < 0:
		return 0
	default:
		return im.Delay
	}
}

// Import submits the valid rows in order. Invalid rows are skipped.
//
// A failed submission does not stop the run. If ctx is cancelled, the remaining
// rows stay Pending and ctx's error is returned along with the partial report.
func (im *Importer) Import(ctx context.Context, rows []ParsedRow) (ImportReport, error) {
	report := ImportReport{Rows: make([]ImportRow, len(rows))}
	for i, r := range rows {
		report.Rows[i] = ImportRow{ParsedRow: r, Status: Pending}
	}
	return report, im.run(ctx, &report)
}

// Retry submits again the rows that failed in a previous run; other rows are ignored.
func (im *Importer) Retry(ctx context.Context, rows []ImportRow) (ImportReport, error) {
	var report ImportReport
	for _, r := range rows {
		if r.Status != Failed {
			continue
		}
		r.Status, r.Err = Pending, nil
		report.Rows = append(report.Rows, r)
	}
	return report, im.run(ctx, &report)
}

func (im *Importer) run(ctx context.Context, report *ImportReport) error {
	if im.Sink == nil {
		return fmt.Errorf("importer has no sink")
	}
	submitted := 0
	for i := range report.Rows {
		row := &report.Rows[i]
		if !row.Valid() {
			report.Skipped++
			im.Log.Debug().Int("line", row.Line).Strs("errors", row.Errors).Msg("skipping invalid row")
			continue
		}
		if submitted > 0 {
			if err := sleep(ctx, im.delay()); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		submitted++

		im.set(row, Importing, nil)
		if err := im.Sink.AddPosition(ctx, row.Position); err != nil {
			report.Failed++
			im.set(row, Failed, err)
			im.Log.Warn().Err(err).Int("line", row.Line).Str("symbol", row.Position.Symbol).Msg("import failed")
			continue
		}
		report.Succeeded++
		im.set(row, Success, nil)
		im.Log.Info().Int("line", row.Line).Stringer("position", row.Position).Msg("imported")
	}
	return nil
}

func (im *Importer) set(row *ImportRow, status ImportStatus, err error) {
	row.Status, row.Err = status, err
	if im.OnProgress != nil {
		im.OnProgress(*row)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
