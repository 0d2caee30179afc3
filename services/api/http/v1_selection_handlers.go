package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niva-data/ndbview/services/api/reconcile"
)

type stationProjectsRequest struct {
	ProjectIDs []int64 `json:"project_id"`
	StationIDs []int64 `json:"station_id"`
}

// handleV1StationProjects narrows the selected projects to those that
// contain any of the selected stations
// POST /api/v1/stations/projects {"project_id":[87,88],"station_id":[9456,9457]}
func (s *Server) handleV1StationProjects(c *gin.Context) {
	var req stationProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	projectIDs, err := reconcile.NormalizeSelection("project", req.ProjectIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	stationIDs, err := reconcile.NormalizeSelection("station", req.StationIDs)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.withSession(c, func(ctx context.Context, sess Session) error {
		projects, err := sess.StationProjects(ctx, stationIDs, projectIDs)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"data": projects,
			"meta": gin.H{
				"count": len(projects),
			},
		})
		return nil
	})
}

type stationParametersRequest struct {
	StartDate  string  `json:"st_dt"`
	EndDate    string  `json:"end_dt"`
	StationIDs []int64 `json:"station_id"`
}

// handleV1StationParameters lists parameters measured at the stations
// POST /api/v1/stations/parameters {"st_dt":"1990-01-01","end_dt":"2010-12-31","station_id":[3561]}
func (s *Server) handleV1StationParameters(c *gin.Context) {
	var req stationParametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	stationIDs, err := reconcile.NormalizeSelection("station", req.StationIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	dates, err := reconcile.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.withSession(c, func(ctx context.Context, sess Session) error {
		params, err := sess.StationParameters(ctx, stationIDs, dates)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"data": params,
			"meta": gin.H{
				"count":  len(params),
				"st_dt":  dates.Start.Format(reconcile.DateLayout),
				"end_dt": dates.End.Format(reconcile.DateLayout),
			},
		})
		return nil
	})
}
