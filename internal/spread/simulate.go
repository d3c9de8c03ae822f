// Package spread projects fire growth with a deterministic physical
// approximation. Simulate produces a day-by-day frontier trajectory;
// SimulateGrowthImpact compares fixed-growth "what-if" scenarios.
package spread

import (
	"math"
	"time"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// ModelName identifies the trajectory model in forecast responses.
const ModelName = "Fire Spread Physical Model v1.0"

// DefaultVegetationDensity is used when Params.VegetationDensity is zero.
const DefaultVegetationDensity = 1.2

const (
	baseSpreadKmPerDay = 0.5
	hoursPerDay        = 24
	humidityFloor      = 0.3
)

// Weather drives the spread rate.
type Weather struct {
	WindSpeedKmh     float64 `json:"wind_speed_kmh"`
	HumidityPercent  float64 `json:"humidity_percent"`
	WindDirectionDeg float64 `json:"wind_direction_deg"`
}

// Params are the inputs to Simulate. Callers validate ranges; the model only
// applies the humidity floor.
type Params struct {
	Origin            domain.GeoPoint
	Weather           Weather
	DaysAhead         int
	VegetationDensity float64
	// Start is the reference date; day d is dated Start+d. A zero Start
	// leaves ForecastPoint.Date empty.
	Start time.Time
}

// ForecastConfidence degrades with the forecast horizon.
type ForecastConfidence string

const (
	ConfidenceHigh   ForecastConfidence = "HIGH"
	ConfidenceMedium ForecastConfidence = "MEDIUM"
	ConfidenceLow    ForecastConfidence = "LOW"
)

// ImpactSeverity grades the population impact of a forecast day.
type ImpactSeverity string

const (
	SeverityLow      ImpactSeverity = "LOW"
	SeverityModerate ImpactSeverity = "MODERATE"
	SeverityHigh     ImpactSeverity = "HIGH"
)

type EnvironmentalImpact struct {
	CO2Tonnes          float64 `json:"co2_tonnes"`
	CarEquivalents     float64 `json:"car_equivalents"`
	SpeciesAtRisk      int     `json:"species_at_risk"`
	WaterSourcesAtRisk int     `json:"water_sources_at_risk"`
}

type PopulationImpact struct {
	PeopleAtRisk     int            `json:"people_at_risk"`
	IndirectImpact   int            `json:"indirect_impact"`
	FamiliesAffected int            `json:"families_affected"`
	Severity         ImpactSeverity `json:"severity"`
}

// ForecastPoint is the projected state at the end of day Day.
type ForecastPoint struct {
	Day                 int                 `json:"day"`
	Date                string              `json:"date,omitempty"`
	ProjectedFrontier   domain.GeoPoint     `json:"projected_frontier"`
	CumulativeRadiusKm  float64             `json:"cumulative_radius_km"`
	AffectedAreaHa      float64             `json:"affected_area_ha"`
	EnvironmentalImpact EnvironmentalImpact `json:"environmental_impact"`
	PopulationImpact    PopulationImpact    `json:"population_impact"`
	Confidence          ForecastConfidence  `json:"confidence"`
}

// DailySpreadKm returns how far the frontier moves in 24h:
// 0.5 · (1 + wind/50) · max(0.3, 1 − humidity/150) · vegetation.
func DailySpreadKm(w Weather, vegetationDensity float64) float64 {
	windFactor := 1 + w.WindSpeedKmh/50
	humidityFactor := math.Max(humidityFloor, 1-w.HumidityPercent/150)
	return baseSpreadKmPerDay * windFactor * humidityFactor * vegetationDensity
}

// frontier is the fold state carried from one day to the next.
type frontier struct {
	position domain.GeoPoint
}

func (f frontier) advance(bearingDeg, distanceKm float64) frontier {
	return frontier{position: domain.Project(f.position, bearingDeg, distanceKm)}
}

// Simulate returns DaysAhead forecast points. The frontier accumulates its
// displacement day over day while the radius and area are computed from the
// total elapsed time. The output is fully determined by p.
func Simulate(p Params) []ForecastPoint {
	if p.DaysAhead <= 0 {
		return nil
	}
	vegetation := p.VegetationDensity
	if vegetation == 0 {
		vegetation = DefaultVegetationDensity
	}

	daily := DailySpreadKm(p.Weather, vegetation)
	step := daily * hoursPerDay

	points := make([]ForecastPoint, 0, p.DaysAhead)
	state := frontier{position: p.Origin}
	for d := 1; d <= p.DaysAhead; d++ {
		state = state.advance(p.Weather.WindDirectionDeg, step)

		radius := daily * hoursPerDay * float64(d)
		areaKm2 := math.Pi * radius * radius
		areaHa := areaKm2 * 100

		point := ForecastPoint{
			Day:                 d,
			ProjectedFrontier:   state.position,
			CumulativeRadiusKm:  radius,
			AffectedAreaHa:      areaHa,
			EnvironmentalImpact: environmentalImpact(areaHa, radius),
			PopulationImpact:    populationImpact(areaKm2),
			Confidence:          forecastConfidence(d),
		}
		if !p.Start.IsZero() {
			point.Date = p.Start.AddDate(0, 0, d).Format(domain.DayLayout)
		}
		points = append(points, point)
	}
	return points
}

func environmentalImpact(areaHa, radiusKm float64) EnvironmentalImpact {
	co2 := areaHa * 120
	return EnvironmentalImpact{
		CO2Tonnes:          co2,
		CarEquivalents:     co2 / 4.6,
		SpeciesAtRisk:      int(math.Floor(areaHa * 0.5)),
		WaterSourcesAtRisk: max(1, int(math.Floor(radiusKm/3))),
	}
}

func populationImpact(areaKm2 float64) PopulationImpact {
	people := int(math.Floor(areaKm2 * 5))
	return PopulationImpact{
		PeopleAtRisk:     people,
		IndirectImpact:   people * 3,
		FamiliesAffected: int(math.Floor(float64(people) / 4.5)),
		Severity:         populationSeverity(people),
	}
}

func populationSeverity(people int) ImpactSeverity {
	switch {
	case people < 100:
		return SeverityLow
	case people < 500:
		return SeverityModerate
	default:
		return SeverityHigh
	}
}

func forecastConfidence(day int) ForecastConfidence {
	if day <= 3 {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// Forecast is the response envelope around a simulated trajectory.
type Forecast struct {
	Origin      domain.GeoPoint `json:"origin"`
	Model       string          `json:"model"`
	Parameters  Parameters      `json:"parameters"`
	Predictions []ForecastPoint `json:"predictions"`
	TotalImpact TotalImpact     `json:"total_impact"`
}

type Parameters struct {
	Weather
	VegetationDensity float64 `json:"vegetation_density"`
	DaysPredicted     int     `json:"days_predicted"`
	Region            string  `json:"region,omitempty"`
}

type TotalImpact struct {
	MaxAreaHa   float64 `json:"max_area_ha"`
	MaxRadiusKm float64 `json:"max_radius_km"`
}

// BuildForecast runs Simulate and wraps the result with its inputs and the
// final-day totals.
func BuildForecast(p Params, region string) Forecast {
	if p.VegetationDensity == 0 {
		p.VegetationDensity = DefaultVegetationDensity
	}
	points := Simulate(p)

	f := Forecast{
		Origin: p.Origin,
		Model:  ModelName,
		Parameters: Parameters{
			Weather:           p.Weather,
			VegetationDensity: p.VegetationDensity,
			DaysPredicted:     p.DaysAhead,
			Region:            region,
		},
		Predictions: points,
	}
	if n := len(points); n > 0 {
		f.TotalImpact = TotalImpact{
			MaxAreaHa:   points[n-1].AffectedAreaHa,
			MaxRadiusKm: points[n-1].CumulativeRadiusKm,
		}
	}
	return f
}
