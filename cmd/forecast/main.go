// Command forecast runs the spread and scenario simulators offline and
// prints the result as JSON.
//
// Usage:
//
//	go run ./cmd/forecast -lat -5 -lon -75 -days 3
//	go run ./cmd/forecast -lat -5 -lon -75 -wind 25 -humidity 20 -direction 45
//	go run ./cmd/forecast -area 50 -scenarios 1,2,7
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/spread"
)

type options struct {
	lat, lon   float64
	daysAhead  int
	wind       float64
	humidity   float64
	direction  float64
	vegetation float64
	start      string
	area       float64
	scenarios  string
	explicit   map[string]bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	var o options
	fs.Float64Var(&o.lat, "lat", 0, "origin latitude")
	fs.Float64Var(&o.lon, "lon", 0, "origin longitude")
	fs.IntVar(&o.daysAhead, "days", 3, "days to forecast (1-7)")
	fs.Float64Var(&o.wind, "wind", 0, "wind speed in km/h (default: region profile)")
	fs.Float64Var(&o.humidity, "humidity", 0, "relative humidity percent (default: region profile)")
	fs.Float64Var(&o.direction, "direction", 0, "wind direction in degrees (default: region profile)")
	fs.Float64Var(&o.vegetation, "vegetation", 0, "vegetation density (default: region profile)")
	fs.StringVar(&o.start, "start", "", "reference date YYYY-MM-DD for per-day dates")
	fs.Float64Var(&o.area, "area", 0, "current burned area in hectares; switches to scenario mode")
	fs.StringVar(&o.scenarios, "scenarios", "1,2,7", "comma-separated scenario day counts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	o.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.explicit[f.Name] = true })

	var result any
	if o.explicit["area"] {
		report, err := scenarioReport(o)
		if err != nil {
			return err
		}
		result = report
	} else {
		forecast, err := trajectory(o)
		if err != nil {
			return err
		}
		result = forecast
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func trajectory(o options) (spread.Forecast, error) {
	if !o.explicit["lat"] || !o.explicit["lon"] {
		return spread.Forecast{}, errors.New("missing required flags: -lat, -lon")
	}
	origin := domain.GeoPoint{Lat: o.lat, Lon: o.lon}
	if !origin.Valid() {
		return spread.Forecast{}, fmt.Errorf("coordinates out of range: %g,%g", o.lat, o.lon)
	}
	if o.daysAhead < 1 || o.daysAhead > 7 {
		return spread.Forecast{}, fmt.Errorf("-days must be between 1 and 7, got %d", o.daysAhead)
	}

	profile := spread.ProfileFor(origin)
	p := spread.Params{
		Origin:            origin,
		Weather:           profile.Weather,
		DaysAhead:         o.daysAhead,
		VegetationDensity: profile.VegetationDensity,
	}
	region := profile.Name
	if o.explicit["wind"] || o.explicit["humidity"] || o.explicit["direction"] {
		region = ""
		p.VegetationDensity = spread.DefaultVegetationDensity
	}
	if o.explicit["wind"] {
		p.Weather.WindSpeedKmh = o.wind
	}
	if o.explicit["humidity"] {
		p.Weather.HumidityPercent = o.humidity
	}
	if o.explicit["direction"] {
		p.Weather.WindDirectionDeg = o.direction
	}
	if o.explicit["vegetation"] {
		if o.vegetation <= 0 {
			return spread.Forecast{}, errors.New("-vegetation must be positive")
		}
		p.VegetationDensity = o.vegetation
	}
	if o.start != "" {
		start, err := time.Parse(domain.DayLayout, o.start)
		if err != nil {
			return spread.Forecast{}, fmt.Errorf("parse -start: %w", err)
		}
		p.Start = start
	}
	return spread.BuildForecast(p, region), nil
}

func scenarioReport(o options) (spread.ScenarioReport, error) {
	if o.area <= 0 {
		return spread.ScenarioReport{}, errors.New("-area must be positive")
	}
	var days []int
	for _, s := range strings.Split(o.scenarios, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return spread.ScenarioReport{}, fmt.Errorf("invalid scenario %q", s)
		}
		days = append(days, n)
	}
	return spread.SimulateGrowthImpact(o.area, days)
}
