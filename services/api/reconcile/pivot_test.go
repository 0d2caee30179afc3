package reconcile

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFlags(t *testing.T) {
	lod := obs("Lead", "ug/l", 0.5, flagged("<"))
	plain := obs("Calcium", "mg/l", 12)

	with := MergeFlags([]Observation{lod, plain}, true)
	text, ok := with[0].Cell.Text()
	require.True(t, ok)
	assert.Equal(t, "<0.5", text)
	text, ok = with[1].Cell.Text()
	require.True(t, ok)
	assert.Equal(t, "12", text)

	without := MergeFlags([]Observation{lod}, false)
	n, ok := without[0].Cell.Number()
	require.True(t, ok)
	assert.Equal(t, 0.5, n)
	assert.Equal(t, CellNumber, without[0].Cell.Kind())
}

func TestMergeFlagsNullValue(t *testing.T) {
	rec := obs("Lead", "ug/l", 0, flagged("<"), func(o *Observation) { o.Value = nil })
	for _, include := range []bool{true, false} {
		e := MergeFlags([]Observation{rec}, include)
		assert.True(t, e[0].Cell.IsNull())
	}
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "pH_", obs("pH", "", 7).Column())
	assert.Equal(t, "Calcium_mg/l", obs("Calcium", "mg/l", 1).Column())
}

func TestPivot(t *testing.T) {
	records := []Observation{
		obs("pH", "", 7.1, station(200)),
		obs("pH", "", 6.8, sampled(2)),
		obs("pH", "", 7.0),
		obs("Calcium", "mg/l", 0),
		obs("Alkalinity", "mmol/l", 0.2, func(o *Observation) { o.Depth1, o.Depth2 = nil, nil }),
	}

	table, err := Pivot(MergeFlags(records, false))
	require.NoError(t, err)

	assert.Equal(t, []string{"Alkalinity_mmol/l", "Calcium_mg/l", "pH_"}, table.ParameterColumns)
	assert.Equal(t, []string{"station_id", "station_code", "station_name", "sample_date", "depth1", "depth2",
		"Alkalinity_mmol/l", "Calcium_mg/l", "pH_"}, table.Columns())

	require.Len(t, table.Rows, 4)
	assert.Nil(t, table.Rows[0].Depth1, "null depth sorts first")
	assert.Equal(t, day(1), table.Rows[1].SampleDate)
	assert.Equal(t, day(2), table.Rows[2].SampleDate)
	assert.Equal(t, int64(200), table.Rows[3].StationID)

	zero, ok := table.Rows[1].Cell("Calcium_mg/l")
	require.True(t, ok)
	n, _ := zero.Number()
	assert.Equal(t, 0.0, n, "a legitimate zero is present")

	_, ok = table.Rows[2].Cell("Calcium_mg/l")
	assert.False(t, ok, "no record means a missing cell, not zero")

	assert.Equal(t, len(records), table.CellCount())
}

func TestPivotCollision(t *testing.T) {
	entries := MergeFlags([]Observation{obs("pH", "", 7.1), obs("pH", "", 7.2)}, false)
	_, err := Pivot(entries)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPivotCollision))

	var collision *PivotCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "pH_", collision.Column)
	assert.Contains(t, err.Error(), "2020-01-01")
}

func TestPivotEmpty(t *testing.T) {
	table, err := Pivot(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)

	b, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["station_id","station_code","station_name","sample_date","depth1","depth2"],"rows":[]}`, string(b))
}

func TestWideRowJSONDistinguishesMissingFromNull(t *testing.T) {
	records := []Observation{
		obs("pH", "", 0.5, flagged("<")),
		obs("TOC", "mg/l", 0, func(o *Observation) { o.Value = nil }),
		obs("Calcium", "mg/l", 2, sampled(2)),
	}
	table, err := Pivot(MergeFlags(records, true))
	require.NoError(t, err)

	b, err := json.Marshal(table.Rows[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"station_id": 100, "station_code": "LA", "station_name": "Lake A",
		"sample_date": "2020-01-01", "depth1": 0, "depth2": 1,
		"values": {"pH_": "<0.5", "TOC_mg/l": null}
	}`, string(b))
}

func TestCellKinds(t *testing.T) {
	assert.Equal(t, CellNull, NullCell().Kind())
	assert.True(t, NullCell().IsNull())
	assert.Equal(t, CellNumber, NumberCell(0).Kind())
	assert.False(t, NumberCell(0).IsNull(), "zero is a value, not null")
	assert.Equal(t, CellText, TextCell("").Kind())
	assert.False(t, TextCell("").IsNull())
}
