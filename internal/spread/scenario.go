package spread

import (
	"fmt"
	"math"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// GrowthRateHaPerDay is the fixed growth assumed by scenario simulation.
const GrowthRateHaPerDay = 15

// maxAQI is the top of the air quality index scale.
const maxAQI = 500

// DefaultScenarios are the day counts compared when none are given.
var DefaultScenarios = []int{1, 2, 7}

type FireGrowth struct {
	TotalAreaHa  float64 `json:"total_area_ha"`
	GrowthRate   float64 `json:"growth_rate"`
	AreaBurnedHa float64 `json:"area_burned"`
}

type AirQuality struct {
	AQI      int    `json:"aqi"`
	Category string `json:"category"`
}

type Emissions struct {
	CO2Tonnes      int `json:"co2_tonnes"`
	CarsEquivalent int `json:"cars_equivalent"`
}

type Population struct {
	Affected int    `json:"affected"`
	Severity string `json:"severity"`
}

type Water struct {
	FamiliesWithoutWater int      `json:"families_without_water"`
	RiversAtRisk         []string `json:"rivers_at_risk"`
}

type Biodiversity struct {
	SpeciesAffected int      `json:"species_affected"`
	CriticalSpecies []string `json:"critical_species"`
}

// ScenarioResult is the projected impact after DaysAhead days of growth.
type ScenarioResult struct {
	DaysAhead    int          `json:"days_ahead"`
	Fire         FireGrowth   `json:"fire"`
	AirQuality   AirQuality   `json:"air_quality"`
	Emissions    Emissions    `json:"emissions"`
	Population   Population   `json:"population"`
	Water        Water        `json:"water"`
	Biodiversity Biodiversity `json:"biodiversity"`
}

type WorstCase struct {
	Days               int     `json:"days"`
	TotalAreaHa        float64 `json:"total_area"`
	PopulationAffected int     `json:"population_affected"`
}

// ScenarioReport compares scenarios and recommends actions for the worst.
type ScenarioReport struct {
	CurrentAreaHa   float64          `json:"current_area_ha"`
	Scenarios       []ScenarioResult `json:"scenarios"`
	Recommendations []string         `json:"recommendations"`
	WorstCase       WorstCase        `json:"worst_case"`
}

var (
	riversAtRisk    = []string{"Río Marañón", "Río Ucayali"}
	criticalSpecies = []string{"Jaguar", "Spectacled bear", "Scarlet macaw"}
)

const (
	recommendEvacuation  = "Immediate evacuation of nearby communities"
	recommendHealth      = "Activate emergency health centers"
	recommendAerial      = "Request aerial support for firefighting"
	recommendWater       = "Distribute emergency drinking water"
	recommendAuthorities = "Inform environmental authorities (SERNANP/MINAM)"
)

// SimulateGrowthImpact projects each scenario independently from the current
// burned area. The worst case is the scenario with the most days; ties keep
// the first. It returns domain.ErrInsufficientData for an empty scenario list.
func SimulateGrowthImpact(currentAreaHa float64, scenarios []int) (ScenarioReport, error) {
	if len(scenarios) == 0 {
		return ScenarioReport{}, fmt.Errorf("simulate growth impact: %w", domain.ErrInsufficientData)
	}

	results := make([]ScenarioResult, 0, len(scenarios))
	worst := 0
	for i, days := range scenarios {
		results = append(results, simulateScenario(currentAreaHa, days))
		if days > scenarios[worst] {
			worst = i
		}
	}

	w := results[worst]
	return ScenarioReport{
		CurrentAreaHa:   currentAreaHa,
		Scenarios:       results,
		Recommendations: recommend(w),
		WorstCase: WorstCase{
			Days:               w.DaysAhead,
			TotalAreaHa:        w.Fire.TotalAreaHa,
			PopulationAffected: w.Population.Affected,
		},
	}, nil
}

func simulateScenario(currentAreaHa float64, days int) ScenarioResult {
	total := currentAreaHa + GrowthRateHaPerDay*float64(days)

	aqi := int(math.Min(maxAQI, math.Floor(total*3)))
	co2 := total * 80
	affected := floorInt(total * 25)

	r := ScenarioResult{
		DaysAhead: days,
		Fire: FireGrowth{
			TotalAreaHa:  total,
			GrowthRate:   GrowthRateHaPerDay,
			AreaBurnedHa: total - currentAreaHa,
		},
		AirQuality: AirQuality{AQI: aqi, Category: aqiCategory(aqi)},
		Emissions: Emissions{
			CO2Tonnes:      floorInt(co2),
			CarsEquivalent: floorInt(co2 / 4.6),
		},
		Population: Population{Affected: affected, Severity: populationSeverityLabel(affected)},
		Water: Water{
			FamiliesWithoutWater: affected / 5,
			RiversAtRisk:         []string{},
		},
		Biodiversity: Biodiversity{
			SpeciesAffected: floorInt(total * 0.8),
			CriticalSpecies: []string{},
		},
	}
	if total > 100 {
		r.Water.RiversAtRisk = append(r.Water.RiversAtRisk, riversAtRisk...)
	}
	if total > 150 {
		r.Biodiversity.CriticalSpecies = append(r.Biodiversity.CriticalSpecies, criticalSpecies...)
	}
	return r
}

// floorInt truncates v toward negative infinity and saturates at the int
// range instead of wrapping.
func floorInt(v float64) int {
	switch {
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}
	return int(math.Floor(v))
}

func aqiCategory(aqi int) string {
	switch {
	case aqi > 300:
		return "Hazardous"
	case aqi > 200:
		return "Very Unhealthy"
	case aqi > 150:
		return "Unhealthy"
	default:
		return "Unhealthy for Sensitive Groups"
	}
}

func populationSeverityLabel(affected int) string {
	switch {
	case affected > 5000:
		return "Critical"
	case affected > 2000:
		return "Severe"
	default:
		return "Moderate"
	}
}

func recommend(worst ScenarioResult) []string {
	var recs []string
	if worst.AirQuality.AQI > 200 {
		recs = append(recs, recommendEvacuation)
	}
	if worst.Population.Affected > 2000 {
		recs = append(recs, recommendHealth)
	}
	if worst.Fire.TotalAreaHa > 200 {
		recs = append(recs, recommendAerial)
	}
	if worst.Water.FamiliesWithoutWater > 500 {
		recs = append(recs, recommendWater)
	}
	return append(recs, recommendAuthorities)
}
