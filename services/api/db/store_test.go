package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niva-data/ndbview/services/api/reconcile"
)

func TestReleasedSessionRefusesQueries(t *testing.T) {
	s := &Session{}
	s.Release()

	_, err := s.ListStations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "released")

	_, err = s.FetchObservations(context.Background(), ObservationQuery{
		StationIDs:   []int64{1},
		ParameterIDs: []int64{2},
		Dates:        reconcile.DateRange{Start: time.Now(), End: time.Now()},
	})
	assert.Error(t, err)
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2010, time.December, 31, 0, 0, 0, 0, time.UTC)
	end := endOfDay(d)
	assert.Equal(t, 31, end.Day())
	assert.True(t, end.Before(time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, end.After(time.Date(2010, time.December, 31, 23, 59, 59, 0, time.UTC)))
}

func TestDeref(t *testing.T) {
	unit := "mg/l"
	assert.Equal(t, "mg/l", deref(&unit))
	assert.Equal(t, "", deref(nil))
}
