package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/spread"
)

type spreadQuery struct {
	pointQuery
	DaysAhead         int      `form:"days_ahead,default=3" binding:"gte=1,lte=7"`
	WindSpeedKmh      *float64 `form:"wind_speed_kmh" binding:"omitempty,gte=0,lte=200"`
	HumidityPercent   *float64 `form:"humidity_percent" binding:"omitempty,gte=0,lte=100"`
	WindDirectionDeg  *float64 `form:"wind_direction_deg" binding:"omitempty,gte=0,lte=360"`
	VegetationDensity *float64 `form:"vegetation_density" binding:"omitempty,gt=0,lte=3"`
}

type forestSpreadQuery struct {
	radiusQuery
	DaysAhead int `form:"days_ahead,default=3" binding:"gte=1,lte=7"`
}

type impactRequest struct {
	FireAreaHa float64 `json:"fire_area_ha" binding:"gt=0,lte=100000000"`
	Scenarios  []int   `json:"scenarios" binding:"omitempty,max=10,dive,gte=1,lte=30"`
}

type forestSpreadResponse struct {
	Forest     domain.Forest   `json:"forest"`
	SourceFire sourceFire      `json:"source_fire"`
	Forecast   spread.Forecast `json:"forecast"`
}

type sourceFire struct {
	ID         string            `json:"id"`
	Location   domain.GeoPoint   `json:"location"`
	Confidence domain.Confidence `json:"confidence"`
	DistanceKm float64           `json:"distance_km"`
}

// params resolves the simulation inputs. Omitted weather fields come from
// the origin's region profile. Vegetation falls back to the profile only
// when no weather was supplied, otherwise to the model default.
func (q spreadQuery) params() (spread.Params, string) {
	origin := q.point()
	profile := spread.ProfileFor(origin)

	w := profile.Weather
	explicit := false
	if q.WindSpeedKmh != nil {
		w.WindSpeedKmh, explicit = *q.WindSpeedKmh, true
	}
	if q.HumidityPercent != nil {
		w.HumidityPercent, explicit = *q.HumidityPercent, true
	}
	if q.WindDirectionDeg != nil {
		w.WindDirectionDeg, explicit = *q.WindDirectionDeg, true
	}

	veg := profile.VegetationDensity
	if explicit {
		veg = spread.DefaultVegetationDensity
	}
	if q.VegetationDensity != nil {
		veg = *q.VegetationDensity
	}

	region := profile.Name
	if explicit {
		region = ""
	}
	return spread.Params{
		Origin:            origin,
		Weather:           w,
		DaysAhead:         q.DaysAhead,
		VegetationDensity: veg,
	}, region
}

func (s *Server) handleSpread(c *gin.Context) {
	var q spreadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	p, region := q.params()
	p.Start = s.deps.Clock.Now().UTC()

	s.countForecast("trajectory")
	c.JSON(http.StatusOK, spread.BuildForecast(p, region))
}

func (s *Server) handleForestSpread(c *gin.Context) {
	var q forestSpreadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	forest, fire, err := s.deps.Fires.NearestFire(c.Request.Context(), c.Param("id"), q.RadiusKm, q.Days)
	if err != nil {
		s.fail(c, err)
		return
	}

	profile := spread.ProfileFor(fire.Location)
	forecast := spread.BuildForecast(spread.Params{
		Origin:            fire.Location,
		Weather:           profile.Weather,
		DaysAhead:         q.DaysAhead,
		VegetationDensity: profile.VegetationDensity,
		Start:             s.deps.Clock.Now().UTC(),
	}, profile.Name)

	s.countForecast("trajectory")
	c.JSON(http.StatusOK, forestSpreadResponse{
		Forest: forest,
		SourceFire: sourceFire{
			ID:         fire.ID,
			Location:   fire.Location,
			Confidence: fire.Confidence,
			DistanceKm: fire.DistanceKm,
		},
		Forecast: forecast,
	})
}

func (s *Server) handleSimulateImpact(c *gin.Context) {
	var req impactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Scenarios == nil {
		req.Scenarios = spread.DefaultScenarios
	}
	report, err := spread.SimulateGrowthImpact(req.FireAreaHa, req.Scenarios)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.countForecast("scenario")
	c.JSON(http.StatusOK, report)
}

func (s *Server) countForecast(mode string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ForecastsTotal.WithLabelValues(mode).Inc()
	}
}
