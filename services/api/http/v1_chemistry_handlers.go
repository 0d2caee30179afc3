package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niva-data/ndbview/services/api/db"
	"github.com/niva-data/ndbview/services/api/reconcile"
)

type chemistryRequest struct {
	StartDate    string  `json:"st_dt"`
	EndDate      string  `json:"end_dt"`
	LODs         *bool   `json:"lods"`
	DropDups     *bool   `json:"drop_dups"`
	TieBreak     string  `json:"tie_break"`
	StationIDs   []int64 `json:"station_id"`
	ParameterIDs []int64 `json:"parameter_id"`
}

// handleV1Chemistry returns the reconciled wide table and the conflict report
// for the selected stations, parameters and dates. "lods" defaults to the
// configured API_DEFAULT_LODS, "drop_dups" collapses station aliases.
// POST /api/v1/chemistry
func (s *Server) handleV1Chemistry(c *gin.Context) {
	var req chemistryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	stationIDs, err := reconcile.NormalizeSelection("station", req.StationIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	parameterIDs, err := reconcile.NormalizeSelection("parameter", req.ParameterIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	dates, err := reconcile.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.fail(c, err)
		return
	}

	opts := reconcile.Options{
		IncludeFlags:    boolOr(req.LODs, s.cfg.DefaultLODs),
		CollapseAliases: boolOr(req.DropDups, s.cfg.DefaultCollapseAliases),
		TieBreak:        s.cfg.TieBreak,
	}
	if req.TieBreak != "" {
		if opts.TieBreak, err = reconcile.ParseTieBreak(req.TieBreak); err != nil {
			s.badRequest(c, err.Error())
			return
		}
	}

	s.withSession(c, func(ctx context.Context, sess Session) error {
		records, err := sess.FetchObservations(ctx, db.ObservationQuery{
			StationIDs:   stationIDs,
			ParameterIDs: parameterIDs,
			Dates:        dates,
		})
		if err != nil {
			return fmt.Errorf("fetch observations: %w", err)
		}

		result, err := reconcile.ReconcileAndPivot(records, opts)
		if err != nil {
			return err
		}

		disagreeing := reconcile.CountDisagreeing(result.Conflicts)
		if disagreeing > 0 {
			s.entry(c).WithField("conflict_groups", disagreeing).
				Warn("conflicting values for some station-date-parameter combinations; the most recent values were kept")
		}

		c.JSON(http.StatusOK, gin.H{
			"data":      result.Table,
			"conflicts": result.Conflicts,
			"meta": gin.H{
				"request_id":      c.GetString(requestIDKey),
				"rows":            len(result.Table.Rows),
				"columns":         len(result.Table.ParameterColumns),
				"lods":            opts.IncludeFlags,
				"drop_dups":       opts.CollapseAliases,
				"tie_break":       opts.TieBreak.String(),
				"records_fetched": result.Stats.Fetched,
				"records_kept":    result.Stats.Kept,
				"conflict_groups": len(result.Conflicts),
				"disagreeing":     disagreeing,
			},
		})
		return nil
	})
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
