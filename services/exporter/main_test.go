package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niva-data/ndbview/services/api/db"
	"github.com/niva-data/ndbview/services/api/reconcile"
	"github.com/niva-data/ndbview/services/exporter/internal/config"
)

type fakeSource struct {
	records []reconcile.Observation
	err     error
	query   db.ObservationQuery
}

func (f *fakeSource) FetchObservations(_ context.Context, q db.ObservationQuery) ([]reconcile.Observation, error) {
	f.query = q
	return f.records, f.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	dates, err := reconcile.ParseDateRange("2015-01-01", "2015-12-31")
	require.NoError(t, err)
	return config.Config{
		StationIDs:      []int64{3561},
		ParameterIDs:    []int64{7, 12},
		Dates:           dates,
		Options:         reconcile.Options{IncludeFlags: true},
		Output:          filepath.Join(dir, "out", "chemistry.csv"),
		ConflictsOutput: filepath.Join(dir, "out", "conflicts.csv"),
		Missing:         "-",
		Timeout:         time.Minute,
	}
}

func conflictingRecords() []reconcile.Observation {
	day := time.Date(2015, time.June, 3, 0, 0, 0, 0, time.UTC)
	v10, v12 := 10.0, 12.0
	e1, e2 := day.AddDate(0, 0, 1), day.AddDate(0, 0, 2)
	base := reconcile.Observation{StationID: 3561, StationCode: "LA", StationName: "Lake A", SampleDate: day,
		ParameterName: "Calcium", Unit: "mg/l"}
	older, newer := base, base
	older.Value, older.EnteredDate = &v10, &e1
	newer.Value, newer.EnteredDate = &v12, &e2
	return []reconcile.Observation{older, newer}
}

func TestExportWritesBothFiles(t *testing.T) {
	cfg := testConfig(t)
	src := &fakeSource{records: conflictingRecords()}

	require.NoError(t, export(context.Background(), cfg, quietLogger(), src))
	assert.Equal(t, cfg.StationIDs, src.query.StationIDs)
	assert.Equal(t, cfg.ParameterIDs, src.query.ParameterIDs)

	wide, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "station_id,station_code,station_name,sample_date,depth1,depth2,Calcium_mg/l\n"+
		"3561,LA,Lake A,2015-06-03,,,12\n", string(wide))

	conflicts, err := os.ReadFile(cfg.ConflictsOutput)
	require.NoError(t, err)
	assert.Contains(t, string(conflicts), "identity,3561,LA,Lake A,2015-06-03,,,Calcium,mg/l,,12,2015-06-05T00:00:00Z,true,false\n")
}

func TestExportSkipsEmptyConflictReport(t *testing.T) {
	cfg := testConfig(t)
	src := &fakeSource{records: conflictingRecords()[:1]}

	require.NoError(t, export(context.Background(), cfg, quietLogger(), src))
	assert.FileExists(t, cfg.Output)
	assert.NoFileExists(t, cfg.ConflictsOutput)
}

func TestExportDryRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = true

	require.NoError(t, export(context.Background(), cfg, quietLogger(), &fakeSource{records: conflictingRecords()}))
	assert.NoFileExists(t, cfg.Output)
	assert.NoFileExists(t, cfg.ConflictsOutput)
}

func TestExportFetchError(t *testing.T) {
	cfg := testConfig(t)
	boom := errors.New("connection reset")

	err := export(context.Background(), cfg, quietLogger(), &fakeSource{err: boom})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, cfg.Output)
}
