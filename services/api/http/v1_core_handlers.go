package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niva-data/ndbview/services/api/reconcile"
)

// apiVersionMiddleware adds the X-API-Version header to v1 responses.
func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}

// handleV1ListStations returns every station label. There are tens of
// thousands, so clients should cache the result.
// GET /api/v1/stations
func (s *Server) handleV1ListStations(c *gin.Context) {
	s.withSession(c, func(ctx context.Context, sess Session) error {
		stations, err := sess.ListStations(ctx)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"data": stations,
			"meta": gin.H{
				"count": len(stations),
			},
		})
		return nil
	})
}

// handleV1ListProjects returns all projects
// GET /api/v1/projects
func (s *Server) handleV1ListProjects(c *gin.Context) {
	s.withSession(c, func(ctx context.Context, sess Session) error {
		projects, err := sess.ListProjects(ctx)
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

type projectStationsRequest struct {
	ProjectIDs []int64 `json:"project_id"`
	DropDups   bool    `json:"drop_dups"`
}

// handleV1ProjectStations returns stations for the selected projects
// POST /api/v1/projects/stations {"project_id":[87,88],"drop_dups":false}
func (s *Server) handleV1ProjectStations(c *gin.Context) {
	var req projectStationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	projectIDs, err := reconcile.NormalizeSelection("project", req.ProjectIDs)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.withSession(c, func(ctx context.Context, sess Session) error {
		stations, err := sess.ProjectStations(ctx, projectIDs, req.DropDups)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"data": stations,
			"meta": gin.H{
				"count":     len(stations),
				"drop_dups": req.DropDups,
			},
		})
		return nil
	})
}
