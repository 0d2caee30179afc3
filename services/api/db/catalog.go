package db

import (
	"context"
	"time"

	"github.com/niva-data/ndbview/services/api/reconcile"
)

// Station represents one station label. The same station_id can appear with
// several codes and names, one per project it belongs to.
type Station struct {
	ID        int64    `json:"station_id"`
	Code      *string  `json:"station_code"`
	Name      *string  `json:"station_name"`
	Type      *string  `json:"station_type"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Project represents a monitoring project.
type Project struct {
	ID          int64   `json:"project_id"`
	ONumber     *string `json:"o_number,omitempty"`
	Name        *string `json:"project_name"`
	Description *string `json:"project_description,omitempty"`
}

// Parameter is a water chemistry parameter definition.
type Parameter struct {
	ID   int64   `json:"parameter_id"`
	Name *string `json:"parameter_name"`
	Unit *string `json:"unit"`
}

const stationColumns = `
    SELECT DISTINCT a.station_id, a.station_code, a.station_name, c.station_type, d.latitude, d.longitude
    FROM nivadatabase.projects_stations a
    JOIN nivadatabase.stations b ON b.station_id = a.station_id
    JOIN nivadatabase.station_types c ON c.station_type_id = b.station_type_id
    JOIN niva_geometry.sample_points d ON d.sample_point_id = b.geom_ref_id
`

const listStationsSQL = stationColumns + `
    ORDER BY a.station_id, a.station_code, a.station_name
`

const projectStationsSQL = stationColumns + `
    WHERE a.station_id IN (
        SELECT station_id FROM nivadatabase.projects_stations WHERE project_id = ANY($1)
    )
    ORDER BY a.station_id, a.station_code, a.station_name
`

const projectStationsUniqueSQL = `
    SELECT DISTINCT ON (a.station_id) a.station_id, a.station_code, a.station_name, c.station_type, d.latitude, d.longitude
    FROM nivadatabase.projects_stations a
    JOIN nivadatabase.stations b ON b.station_id = a.station_id
    JOIN nivadatabase.station_types c ON c.station_type_id = b.station_type_id
    JOIN niva_geometry.sample_points d ON d.sample_point_id = b.geom_ref_id
    WHERE a.station_id IN (
        SELECT station_id FROM nivadatabase.projects_stations WHERE project_id = ANY($1)
    )
    ORDER BY a.station_id, a.station_code, a.station_name
`

// ListStations returns every station label in the database.
func (s *Session) ListStations(ctx context.Context) ([]Station, error) {
	return s.scanStations(ctx, listStationsSQL)
}

// ProjectStations returns the stations of the given projects. With
// dropDups only the first label (by code, then name) of each station is kept.
func (s *Session) ProjectStations(ctx context.Context, projectIDs []int64, dropDups bool) ([]Station, error) {
	if dropDups {
		return s.scanStations(ctx, projectStationsUniqueSQL, projectIDs)
	}
	return s.scanStations(ctx, projectStationsSQL, projectIDs)
}

func (s *Session) scanStations(ctx context.Context, sql string, args ...any) ([]Station, error) {
	rows, err := s.query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]Station, 0)
	for rows.Next() {
		var st Station
		if err := rows.Scan(
			&st.ID,
			&st.Code,
			&st.Name,
			&st.Type,
			&st.Latitude,
			&st.Longitude,
		); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

const listProjectsSQL = `
    SELECT a.project_id, b.o_number, a.project_name, a.project_description
    FROM nivadatabase.projects a
    JOIN nivadatabase.projects_o_numbers b ON b.project_id = a.project_id
    ORDER BY a.project_id
`

const stationProjectsSQL = `
    SELECT DISTINCT a.project_id, NULL::text AS o_number, a.project_name, a.project_description
    FROM nivadatabase.projects a
    JOIN nivadatabase.projects_stations b ON b.project_id = a.project_id
    WHERE a.project_id = ANY($1) AND b.station_id = ANY($2)
    ORDER BY a.project_id
`

// ListProjects returns all projects.
func (s *Session) ListProjects(ctx context.Context) ([]Project, error) {
	return s.scanProjects(ctx, listProjectsSQL)
}

// StationProjects narrows projectIDs to those containing at least one of
// stationIDs.
func (s *Session) StationProjects(ctx context.Context, stationIDs, projectIDs []int64) ([]Project, error) {
	return s.scanProjects(ctx, stationProjectsSQL, projectIDs, stationIDs)
}

func (s *Session) scanProjects(ctx context.Context, sql string, args ...any) ([]Project, error) {
	rows, err := s.query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ONumber, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

const stationParametersSQL = `
    SELECT parameter_id, name AS parameter_name, unit
    FROM nivadatabase.wc_parameter_definitions
    WHERE parameter_id IN (
        SELECT DISTINCT m.parameter_id
        FROM nivadatabase.wc_parameters_methods m
        JOIN nivadatabase.water_chemistry_values v ON v.method_id = m.method_id
        JOIN nivadatabase.water_samples w ON w.water_sample_id = v.water_sample_id
        WHERE w.station_id = ANY($1)
          AND w.sample_date >= $2
          AND w.sample_date <= $3
    )
    ORDER BY name
`

// StationParameters lists the parameters sampled at the stations within the
// date range.
func (s *Session) StationParameters(ctx context.Context, stationIDs []int64, dates reconcile.DateRange) ([]Parameter, error) {
	rows, err := s.query(ctx, stationParametersSQL, stationIDs, dates.Start, endOfDay(dates.End))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := make([]Parameter, 0)
	for rows.Next() {
		var p Parameter
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit); err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

// endOfDay makes the inclusive end date cover timestamps on that day.
func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
