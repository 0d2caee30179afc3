// Package csvout renders reconciled chemistry as CSV files.
package csvout

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/niva-data/ndbview/services/api/reconcile"
)

// NullText marks a cell whose record exists but has no value.
const NullText = "NA"

var conflictHeader = []string{
	"scope", "station_id", "station_code", "station_name", "sample_date", "depth1", "depth2",
	"parameter_name", "unit", "flag", "value", "entered_date", "kept", "arbitrary_winner",
}

// WriteTable writes the wide table with a header in table column order.
// Cells with no record are written as missing, null cells as NullText.
func WriteTable(w io.Writer, t *reconcile.Table, missing string) error {
	cw := csv.NewWriter(w)
	columns := t.Columns()
	if err := cw.Write(columns); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range t.Rows {
		record = append(record[:0],
			strconv.FormatInt(row.StationID, 10),
			row.StationCode,
			row.StationName,
			row.SampleDate.Format(reconcile.DateLayout),
			optFloat(row.Depth1),
			optFloat(row.Depth2),
		)
		for _, col := range t.ParameterColumns {
			cell, ok := row.Cell(col)
			switch {
			case !ok:
				record = append(record, missing)
			case cell.IsNull():
				record = append(record, NullText)
			default:
				record = append(record, cell.String())
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteConflicts writes the conflict report in long form, one line per
// disagreeing record.
func WriteConflicts(w io.Writer, groups []reconcile.ConflictGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(conflictHeader); err != nil {
		return err
	}
	for _, g := range groups {
		for _, rec := range g.Records {
			line := []string{
				string(g.Scope),
				strconv.FormatInt(rec.StationID, 10),
				rec.StationCode,
				rec.StationName,
				rec.SampleDate.Format(reconcile.DateLayout),
				optFloat(rec.Depth1),
				optFloat(rec.Depth2),
				rec.ParameterName,
				rec.Unit,
				optString(rec.Flag),
				optFloat(rec.Value),
				optTime(rec.EnteredDate),
				strconv.FormatBool(rec.Same(g.Kept)),
				strconv.FormatBool(g.ArbitraryWinner),
			}
			if err := cw.Write(line); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path, including parent directories, and fills it with
// write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return reconcile.FormatNumber(*v)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
