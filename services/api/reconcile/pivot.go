package reconcile

import (
	"encoding/json"
	"slices"
	"time"
)

// GroupColumns are the leading wide-table columns, in output order.
var GroupColumns = []string{"station_id", "station_code", "station_name", "sample_date", "depth1", "depth2"}

// RowKey holds the grouping attributes of one wide row.
type RowKey struct {
	StationID   int64
	StationCode string
	StationName string
	SampleDate  time.Time
	Depth1      *float64
	Depth2      *float64
}

type rowMapKey struct {
	stationID int64
	code      string
	name      string
	date      int64
	depth1    optFloat
	depth2    optFloat
}

func rowKeyOf(o Observation) RowKey {
	return RowKey{
		StationID:   o.StationID,
		StationCode: o.StationCode,
		StationName: o.StationName,
		SampleDate:  o.SampleDate,
		Depth1:      o.Depth1,
		Depth2:      o.Depth2,
	}
}

func (k RowKey) mapKey() rowMapKey {
	return rowMapKey{
		stationID: k.StationID,
		code:      k.StationCode,
		name:      k.StationName,
		date:      k.SampleDate.UnixNano(),
		depth1:    floatOf(k.Depth1),
		depth2:    floatOf(k.Depth2),
	}
}

// WideRow is one station/date/depth row. Values holds only populated cells;
// a column with no record is absent from the map.
type WideRow struct {
	RowKey
	Values map[string]Cell
}

// Cell looks up a column; ok is false for a missing cell.
func (r WideRow) Cell(column string) (c Cell, ok bool) {
	c, ok = r.Values[column]
	return c, ok
}

// MarshalJSON writes the grouping attributes followed by a "values" object
// from which missing cells are omitted.
func (r WideRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StationID   int64           `json:"station_id"`
		StationCode string          `json:"station_code"`
		StationName string          `json:"station_name"`
		SampleDate  string          `json:"sample_date"`
		Depth1      *float64        `json:"depth1"`
		Depth2      *float64        `json:"depth2"`
		Values      map[string]Cell `json:"values"`
	}{
		StationID:   r.StationID,
		StationCode: r.StationCode,
		StationName: r.StationName,
		SampleDate:  r.SampleDate.Format(DateLayout),
		Depth1:      r.Depth1,
		Depth2:      r.Depth2,
		Values:      r.Values,
	})
}

// Table is the pivoted result.
type Table struct {
	ParameterColumns []string
	Rows             []WideRow
}

// Columns returns the full column order: grouping columns, then parameter
// columns sorted by name.
func (t *Table) Columns() []string {
	return append(slices.Clone(GroupColumns), t.ParameterColumns...)
}

// CellCount is the number of populated (non-missing) cells.
func (t *Table) CellCount() int {
	n := 0
	for _, r := range t.Rows {
		n += len(r.Values)
	}
	return n
}

func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = []WideRow{}
	}
	return json.Marshal(struct {
		Columns []string  `json:"columns"`
		Rows    []WideRow `json:"rows"`
	}{Columns: t.Columns(), Rows: rows})
}

// Pivot reshapes entries into a wide table. Two entries aimed at the same
// row and column fail with a PivotCollisionError instead of overwriting.
// Rows are sorted by station, sample date, depth1 and depth2.
func Pivot(entries []Entry) (*Table, error) {
	index := make(map[rowMapKey]int)
	columns := make(map[string]struct{})
	t := &Table{ParameterColumns: []string{}}

	for _, e := range entries {
		mk := e.Row.mapKey()
		i, ok := index[mk]
		if !ok {
			i = len(t.Rows)
			index[mk] = i
			t.Rows = append(t.Rows, WideRow{RowKey: e.Row, Values: make(map[string]Cell)})
		}
		if _, taken := t.Rows[i].Values[e.Column]; taken {
			return nil, &PivotCollisionError{Row: e.Row, Column: e.Column}
		}
		t.Rows[i].Values[e.Column] = e.Cell
		if _, seen := columns[e.Column]; !seen {
			columns[e.Column] = struct{}{}
			t.ParameterColumns = append(t.ParameterColumns, e.Column)
		}
	}

	slices.Sort(t.ParameterColumns)
	slices.SortStableFunc(t.Rows, func(a, b WideRow) int {
		return compareRow(a.RowKey, b.RowKey)
	})
	return t, nil
}
