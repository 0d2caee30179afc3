package reconcile

import "time"

func ptr[T any](v T) *T { return &v }

func day(n int) time.Time {
	return time.Date(2020, time.January, n, 0, 0, 0, 0, time.UTC)
}

// obs builds an observation for station 100 "Lake A" at 0-1 m on 2020-01-01.
func obs(parameter, unit string, value float64, mods ...func(*Observation)) Observation {
	o := Observation{
		StationID:     100,
		StationCode:   "LA",
		StationName:   "Lake A",
		SampleDate:    day(1),
		Depth1:        ptr(0.0),
		Depth2:        ptr(1.0),
		ParameterName: parameter,
		Unit:          unit,
		Value:         ptr(value),
	}
	for _, m := range mods {
		m(&o)
	}
	return o
}

func entered(n int) func(*Observation) {
	return func(o *Observation) { o.EnteredDate = ptr(day(n)) }
}

func flagged(f string) func(*Observation) {
	return func(o *Observation) { o.Flag = ptr(f) }
}

func named(code, name string) func(*Observation) {
	return func(o *Observation) { o.StationCode, o.StationName = code, name }
}

func sampled(n int) func(*Observation) {
	return func(o *Observation) { o.SampleDate = day(n) }
}

func station(id int64) func(*Observation) {
	return func(o *Observation) { o.StationID = id }
}

func values(records []Observation) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		out = append(out, *r.Value)
	}
	return out
}
