package db

import (
	"context"

	"github.com/niva-data/ndbview/services/api/reconcile"
)

// ObservationQuery selects approved chemistry values. Id sets are expected
// to be normalized already.
type ObservationQuery struct {
	StationIDs   []int64
	ParameterIDs []int64
	Dates        reconcile.DateRange
}

// Joining projects_stations yields one row per station label, which is where
// alias duplicates come from. Rows are ordered by value_id so that "last
// seen" means "last stored".
const observationsSQL = `
    SELECT a.station_id,
           ps.station_code,
           ps.station_name,
           a.sample_date,
           a.depth1,
           a.depth2,
           b.name AS parameter_name,
           b.unit,
           c.flag1,
           (c.value * d.conversion_factor) AS value,
           c.entered_date
    FROM nivadatabase.water_samples a
    JOIN nivadatabase.water_chemistry_values c ON c.water_sample_id = a.water_sample_id
    JOIN nivadatabase.wc_parameters_methods d ON d.method_id = c.method_id
    JOIN nivadatabase.wc_parameter_definitions b ON b.parameter_id = d.parameter_id
    JOIN nivadatabase.projects_stations ps ON ps.station_id = a.station_id
    WHERE a.station_id = ANY($1)
      AND b.parameter_id = ANY($2)
      AND c.approved = 1
      AND a.sample_date >= $3
      AND a.sample_date <= $4
    ORDER BY c.value_id, ps.station_code, ps.station_name
`

// FetchObservations returns the long-format records for the query. Null
// station labels, parameter names and units come back as empty strings.
func (s *Session) FetchObservations(ctx context.Context, q ObservationQuery) ([]reconcile.Observation, error) {
	rows, err := s.query(ctx, observationsSQL, q.StationIDs, q.ParameterIDs, q.Dates.Start, endOfDay(q.Dates.End))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]reconcile.Observation, 0)
	for rows.Next() {
		var o reconcile.Observation
		var code, name, parameter, unit *string
		if err := rows.Scan(
			&o.StationID,
			&code,
			&name,
			&o.SampleDate,
			&o.Depth1,
			&o.Depth2,
			&parameter,
			&unit,
			&o.Flag,
			&o.Value,
			&o.EnteredDate,
		); err != nil {
			return nil, err
		}
		o.StationCode = deref(code)
		o.StationName = deref(name)
		o.ParameterName = deref(parameter)
		o.Unit = deref(unit)
		records = append(records, o)
	}
	return records, rows.Err()
}
