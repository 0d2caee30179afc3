// Package reconcile turns long-format water chemistry observations into a
// wide table. Duplicate rows are collapsed, conflicting measurements are
// resolved and reported, and the survivors are pivoted into one row per
// station, date and depth with one column per parameter-unit pair.
//
// Everything here is a pure function of its input slice. Callers own the
// records they pass in and may run any number of pipelines concurrently.
package reconcile

import (
	"time"
)

// Observation is one measured value as fetched from the store.
type Observation struct {
	StationID     int64      `json:"station_id"`
	StationCode   string     `json:"station_code"`
	StationName   string     `json:"station_name"`
	SampleDate    time.Time  `json:"sample_date"`
	Depth1        *float64   `json:"depth1"`
	Depth2        *float64   `json:"depth2"`
	ParameterName string     `json:"parameter_name"`
	Unit          string     `json:"unit"`
	Flag          *string    `json:"flag"`
	Value         *float64   `json:"value"`
	EnteredDate   *time.Time `json:"entered_date"`
}

// IdentityKey identifies one physical measurement under one station label.
type IdentityKey struct {
	StationID     int64     `json:"station_id"`
	StationCode   string    `json:"station_code"`
	StationName   string    `json:"station_name"`
	SampleDate    time.Time `json:"sample_date"`
	Depth1        *float64  `json:"depth1"`
	Depth2        *float64  `json:"depth2"`
	ParameterName string    `json:"parameter_name"`
	Unit          string    `json:"unit"`
}

// AliasKey is an IdentityKey without the station label.
type AliasKey struct {
	StationID     int64     `json:"station_id"`
	SampleDate    time.Time `json:"sample_date"`
	Depth1        *float64  `json:"depth1"`
	Depth2        *float64  `json:"depth2"`
	ParameterName string    `json:"parameter_name"`
	Unit          string    `json:"unit"`
}

// Identity returns the record's IdentityKey.
func (o Observation) Identity() IdentityKey {
	return IdentityKey{
		StationID:     o.StationID,
		StationCode:   o.StationCode,
		StationName:   o.StationName,
		SampleDate:    o.SampleDate,
		Depth1:        o.Depth1,
		Depth2:        o.Depth2,
		ParameterName: o.ParameterName,
		Unit:          o.Unit,
	}
}

// Alias returns the record's AliasKey.
func (o Observation) Alias() AliasKey {
	return AliasKey{
		StationID:     o.StationID,
		SampleDate:    o.SampleDate,
		Depth1:        o.Depth1,
		Depth2:        o.Depth2,
		ParameterName: o.ParameterName,
		Unit:          o.Unit,
	}
}

// Same reports whether o and other agree on every field, comparing pointer
// fields by content.
func (o Observation) Same(other Observation) bool {
	return recordKeyOf(o) == recordKeyOf(other)
}

// Column is the wide-table column the record lands in.
func (o Observation) Column() string {
	return ColumnName(o.ParameterName, o.Unit)
}

// ColumnName builds the "<parameter>_<unit>" column label.
func ColumnName(parameter, unit string) string {
	return parameter + "_" + unit
}

// Map keys below hold plain values so that pointer fields compare by content.

type optFloat struct {
	set bool
	v   float64
}

type optString struct {
	set bool
	v   string
}

type optTime struct {
	set bool
	v   int64
}

func floatOf(p *float64) optFloat {
	if p == nil {
		return optFloat{}
	}
	return optFloat{set: true, v: *p}
}

func stringOf(p *string) optString {
	if p == nil {
		return optString{}
	}
	return optString{set: true, v: *p}
}

func timeOf(p *time.Time) optTime {
	if p == nil {
		return optTime{}
	}
	return optTime{set: true, v: p.UnixNano()}
}

type aliasKey struct {
	stationID int64
	date      int64
	depth1    optFloat
	depth2    optFloat
	parameter string
	unit      string
}

type identityKey struct {
	aliasKey
	code string
	name string
}

type recordKey struct {
	identityKey
	flag    optString
	value   optFloat
	entered optTime
}

type measurementKey struct {
	flag  optString
	value optFloat
}

func aliasKeyOf(o Observation) aliasKey {
	return aliasKey{
		stationID: o.StationID,
		date:      o.SampleDate.UnixNano(),
		depth1:    floatOf(o.Depth1),
		depth2:    floatOf(o.Depth2),
		parameter: o.ParameterName,
		unit:      o.Unit,
	}
}

func identityKeyOf(o Observation) identityKey {
	return identityKey{aliasKey: aliasKeyOf(o), code: o.StationCode, name: o.StationName}
}

func recordKeyOf(o Observation) recordKey {
	return recordKey{
		identityKey: identityKeyOf(o),
		flag:        stringOf(o.Flag),
		value:       floatOf(o.Value),
		entered:     timeOf(o.EnteredDate),
	}
}

func measurementKeyOf(o Observation) measurementKey {
	return measurementKey{flag: stringOf(o.Flag), value: floatOf(o.Value)}
}
