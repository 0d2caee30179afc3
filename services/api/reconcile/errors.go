package reconcile

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	// ErrEmptySelection indicates a required identifier set was empty.
	ErrEmptySelection = errors.New("empty selection")

	// ErrInvalidDateRange indicates an unparsable or inverted date range.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrPivotCollision indicates two records targeted the same wide-table cell.
	ErrPivotCollision = errors.New("pivot collision")
)

// EmptySelectionError is returned when no stations or parameters were selected.
type EmptySelectionError struct {
	Kind string
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("please select at least one %s", e.Kind)
}

// Is implements errors.Is support
func (e *EmptySelectionError) Is(target error) bool {
	return target == ErrEmptySelection
}

// InvalidDateRangeError is returned by ParseDateRange.
type InvalidDateRangeError struct {
	Start  string
	End    string
	Reason string
	Err    error
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range %q to %q: %s", e.Start, e.End, e.Reason)
}

// Unwrap implements errors.Unwrap
func (e *InvalidDateRangeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *InvalidDateRangeError) Is(target error) bool {
	return target == ErrInvalidDateRange
}

// PivotCollisionError means duplicate resolution let two records through for
// the same row and column. It is always a bug upstream of the pivot.
type PivotCollisionError struct {
	Row    RowKey
	Column string
}

func (e *PivotCollisionError) Error() string {
	return fmt.Sprintf("pivot collision at station %d (%s/%s) %s depth %s-%s column %q",
		e.Row.StationID, e.Row.StationCode, e.Row.StationName,
		e.Row.SampleDate.Format(DateLayout), formatDepth(e.Row.Depth1), formatDepth(e.Row.Depth2), e.Column)
}

// Is implements errors.Is support
func (e *PivotCollisionError) Is(target error) bool {
	return target == ErrPivotCollision
}

func formatDepth(d *float64) string {
	if d == nil {
		return "null"
	}
	return FormatNumber(*d)
}
