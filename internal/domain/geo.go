package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	earthRadiusKm = 6371.0

	// kmPerDegree is the flat-earth scale used by Project. The spread model is
	// calibrated against this approximation, so it must not be swapped for a
	// geodesic solution.
	kmPerDegree = 111.0
)

// GeoPoint represents a WGS-84 latitude/longitude coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether the point lies within the WGS-84 coordinate ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceKm returns the great-circle distance between a and b using the
// haversine formula.
func DistanceKm(a, b GeoPoint) float64 {
	lat1, lon1 := toRadians(a.Lat), toRadians(a.Lon)
	lat2, lon2 := toRadians(b.Lat), toRadians(b.Lon)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * math.Asin(math.Min(1, math.Sqrt(h))) * earthRadiusKm
}

// Project moves distanceKm from origin along bearingDeg (0 = north, clockwise)
// using a small-angle planar approximation:
//
//	Δlat = d·cos θ / 111
//	Δlon = d·sin θ / (111·cos(lat_origin))
func Project(origin GeoPoint, bearingDeg, distanceKm float64) GeoPoint {
	theta := toRadians(bearingDeg)
	dLat := (distanceKm * math.Cos(theta)) / kmPerDegree
	dLon := (distanceKm * math.Sin(theta)) / (kmPerDegree * math.Cos(toRadians(origin.Lat)))
	return GeoPoint{Lat: origin.Lat + dLat, Lon: origin.Lon + dLon}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoundingBox is a west/south/east/north rectangle in decimal degrees.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// PeruBounds covers mainland Peru.
var PeruBounds = BoundingBox{West: -81.3, South: -18.3, East: -68.7, North: 0.0}

// String renders the box in the FIRMS area API order: "west,south,east,north".
func (b BoundingBox) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", fmtCoord(b.West), fmtCoord(b.South), fmtCoord(b.East), fmtCoord(b.North))
}

// Contains reports whether p falls inside the box, edges included.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lon >= b.West && p.Lon <= b.East
}

// ParseBoundingBox parses "west,south,east,north".
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("parse bounding box %q: want 4 comma-separated values", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("parse bounding box %q: %w", s, err)
		}
		v[i] = f
	}
	b := BoundingBox{West: v[0], South: v[1], East: v[2], North: v[3]}
	if b.West >= b.East || b.South >= b.North {
		return BoundingBox{}, errors.New("parse bounding box: west/south must be less than east/north")
	}
	return b, nil
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
