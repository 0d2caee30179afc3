package http

import (
	"context"

	"github.com/niva-data/ndbview/services/api/db"
	"github.com/niva-data/ndbview/services/api/reconcile"
)

// DataSource hands out request-scoped sessions.
type DataSource interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session is the per-request view of the observation store.
type Session interface {
	ListStations(ctx context.Context) ([]db.Station, error)
	ProjectStations(ctx context.Context, projectIDs []int64, dropDups bool) ([]db.Station, error)
	ListProjects(ctx context.Context) ([]db.Project, error)
	StationProjects(ctx context.Context, stationIDs, projectIDs []int64) ([]db.Project, error)
	StationParameters(ctx context.Context, stationIDs []int64, dates reconcile.DateRange) ([]db.Parameter, error)
	FetchObservations(ctx context.Context, q db.ObservationQuery) ([]reconcile.Observation, error)
	Release()
}

type storeSource struct {
	store *db.Store
}

func (s storeSource) Acquire(ctx context.Context) (Session, error) {
	sess, err := s.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}
