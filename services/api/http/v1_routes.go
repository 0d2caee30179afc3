package http

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/stations, /api/v1/projects, /api/v1/chemistry
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	stations := v1.Group("/stations")
	{
		stations.GET("", s.handleV1ListStations)
		stations.POST("/projects", s.handleV1StationProjects)
		stations.POST("/parameters", s.handleV1StationParameters)
	}

	projects := v1.Group("/projects")
	{
		projects.GET("", s.handleV1ListProjects)
		projects.POST("/stations", s.handleV1ProjectStations)
	}

	v1.POST("/chemistry", s.handleV1Chemistry)
}
