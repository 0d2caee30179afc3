package reconcile

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted and emitted by the API.
const DateLayout = "2006-01-02"

// NormalizeSelection returns the distinct ids in ascending order. kind names
// the selection ("station", "parameter", ...) in the error.
func NormalizeSelection(kind string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, &EmptySelectionError{Kind: kind}
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out), nil
}

// DateRange is an inclusive range of sample dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ParseDateRange parses two YYYY-MM-DD dates and checks their order.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, &InvalidDateRangeError{Start: start, End: end, Reason: "start is not a YYYY-MM-DD date", Err: err}
	}
	e, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, &InvalidDateRangeError{Start: start, End: end, Reason: "end is not a YYYY-MM-DD date", Err: err}
	}
	if e.Before(s) {
		return DateRange{}, &InvalidDateRangeError{Start: start, End: end, Reason: "end precedes start"}
	}
	return DateRange{Start: s, End: e}, nil
}
