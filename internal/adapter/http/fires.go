package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/monitor"
)

type windowQuery struct {
	Days int `form:"days,default=1" binding:"gte=1,lte=10"`
}

type statsQuery struct {
	Days int `form:"days,default=7" binding:"gte=1,lte=10"`
}

type radiusQuery struct {
	RadiusKm float64 `form:"radius_km,default=20" binding:"gt=0,lte=500"`
	Days     int     `form:"days,default=1" binding:"gte=1,lte=10"`
}

type pointQuery struct {
	Lat *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lon *float64 `form:"lon" binding:"required,gte=-180,lte=180"`
}

func (q pointQuery) point() domain.GeoPoint {
	return domain.GeoPoint{Lat: *q.Lat, Lon: *q.Lon}
}

type activeFiresResponse struct {
	Days  int                    `json:"days"`
	Count int                    `json:"count"`
	Fires []domain.FireDetection `json:"fires"`
}

type forestFiresResponse struct {
	Forest domain.Forest `json:"forest"`
	monitor.Assessment
}

func (s *Server) handleActiveFires(c *gin.Context) {
	var q windowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	fires, err := s.deps.Fires.ActiveFires(c.Request.Context(), q.Days)
	if err != nil {
		s.fail(c, err)
		return
	}
	if fires == nil {
		fires = []domain.FireDetection{}
	}
	c.JSON(http.StatusOK, activeFiresResponse{Days: q.Days, Count: len(fires), Fires: fires})
}

func (s *Server) handleAnalyzePoint(c *gin.Context) {
	var (
		pq pointQuery
		rq radiusQuery
	)
	if err := c.ShouldBindQuery(&pq); err != nil {
		badRequest(c, err)
		return
	}
	if err := c.ShouldBindQuery(&rq); err != nil {
		badRequest(c, err)
		return
	}
	a, err := s.deps.Fires.AssessPoint(c.Request.Context(), pq.point(), rq.RadiusKm, rq.Days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleForestFires(c *gin.Context) {
	var q radiusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	forest, a, err := s.deps.Fires.AssessForest(c.Request.Context(), c.Param("id"), q.RadiusKm, q.Days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, forestFiresResponse{Forest: forest, Assessment: a})
}

func (s *Server) handleFireStats(c *gin.Context) {
	var q statsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	stats, err := s.deps.Fires.Stats(c.Request.Context(), q.Days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleSweep(c *gin.Context) {
	report, err := s.deps.Sweeper.Sweep(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
