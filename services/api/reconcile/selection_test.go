package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSelection(t *testing.T) {
	ids, err := NormalizeSelection("station", []int64{3563, 3561, 3563, 3562, 3561})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{3561, 3562, 3563}, ids)
}

func TestNormalizeSelectionDoesNotModifyInput(t *testing.T) {
	in := []int64{3, 1, 3}
	_, err := NormalizeSelection("parameter", in)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 3}, in)
}

func TestNormalizeSelectionEmpty(t *testing.T) {
	for _, in := range [][]int64{nil, {}} {
		_, err := NormalizeSelection("parameter", in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptySelection))

		var sel *EmptySelectionError
		require.True(t, errors.As(err, &sel))
		assert.Equal(t, "parameter", sel.Kind)
		assert.Equal(t, "please select at least one parameter", err.Error())
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("1990-01-01", "2010-12-31")
	require.NoError(t, err)
	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(r.End))
	assert.False(t, r.Contains(r.End.AddDate(0, 0, 1)))

	_, err = ParseDateRange("2010-01-01", "2010-01-01")
	assert.NoError(t, err, "single day range is valid")
}

func TestParseDateRangeInvalid(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"end before start", "2010-12-31", "1990-01-01"},
		{"bad start", "1990/01/01", "2010-12-31"},
		{"bad end", "1990-01-01", "2010-02-30"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateRange(tt.start, tt.end)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDateRange)
		})
	}
}
