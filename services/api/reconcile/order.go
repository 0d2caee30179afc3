package reconcile

import (
	"cmp"
	"time"
)

// Null sorts before any value in every comparison here.

func compareFloatPtr(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

func compareStringPtr(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func compareStation(aID int64, aCode, aName string, bID int64, bCode, bName string) int {
	if c := cmp.Compare(aID, bID); c != 0 {
		return c
	}
	if c := cmp.Compare(aCode, bCode); c != 0 {
		return c
	}
	return cmp.Compare(aName, bName)
}

func compareIdentity(a, b IdentityKey) int {
	if c := compareStation(a.StationID, a.StationCode, a.StationName, b.StationID, b.StationCode, b.StationName); c != 0 {
		return c
	}
	if c := a.SampleDate.Compare(b.SampleDate); c != 0 {
		return c
	}
	if c := compareFloatPtr(a.Depth1, b.Depth1); c != 0 {
		return c
	}
	if c := compareFloatPtr(a.Depth2, b.Depth2); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ParameterName, b.ParameterName); c != 0 {
		return c
	}
	return cmp.Compare(a.Unit, b.Unit)
}

func compareRow(a, b RowKey) int {
	if c := compareStation(a.StationID, a.StationCode, a.StationName, b.StationID, b.StationCode, b.StationName); c != 0 {
		return c
	}
	if c := a.SampleDate.Compare(b.SampleDate); c != 0 {
		return c
	}
	if c := compareFloatPtr(a.Depth1, b.Depth1); c != 0 {
		return c
	}
	return compareFloatPtr(a.Depth2, b.Depth2)
}

// compareMeasurement orders by value (null last), then flag.
func compareMeasurement(a, b Observation) int {
	switch {
	case a.Value == nil && b.Value != nil:
		return 1
	case a.Value != nil && b.Value == nil:
		return -1
	case a.Value != nil && b.Value != nil:
		if c := cmp.Compare(*a.Value, *b.Value); c != 0 {
			return c
		}
	}
	return compareStringPtr(a.Flag, b.Flag)
}
