package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FIRMSFieldCount is the column count of a MODIS NRT area CSV row.
const FIRMSFieldCount = 14

// Positional columns of a FIRMS row.
const (
	colLatitude = iota
	colLongitude
	colBrightness
	colScan
	colTrack
	colAcqDate
	colAcqTime
	colSatellite
	colInstrument
	colConfidence
	colVersion
	colBrightT31
	colFRP
	colDayNight
)

// Confidence is the detection confidence reported by the instrument,
// normalized across MODIS percentages and VIIRS letter codes.
type Confidence string

const (
	ConfidenceLow     Confidence = "low"
	ConfidenceNominal Confidence = "nominal"
	ConfidenceHigh    Confidence = "high"
)

// FireDetection is a single satellite hot-spot.
type FireDetection struct {
	ID         string     `json:"id"`
	Location   GeoPoint   `json:"location"`
	Brightness float64    `json:"brightness"`
	Confidence Confidence `json:"confidence"`
	AcquiredAt time.Time  `json:"acquired_at"`
	Satellite  string     `json:"satellite"`
	Instrument string     `json:"instrument"`
	FRP        float64    `json:"frp,omitempty"`
	DayNight   string     `json:"daynight,omitempty"`
}

// RowError describes a feed row that could not be decoded.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseDetections decodes positional feed rows into detections. Rows that
// fail to decode are skipped and returned as *RowError values; the remaining
// rows are always returned. expectedFields <= 0 means FIRMSFieldCount.
func ParseDetections(rows [][]string, expectedFields int) ([]FireDetection, []error) {
	if expectedFields <= 0 {
		expectedFields = FIRMSFieldCount
	}

	detections := make([]FireDetection, 0, len(rows))
	var errs []error
	for i, row := range rows {
		d, err := parseDetection(row, expectedFields)
		if err != nil {
			errs = append(errs, &RowError{Row: i, Err: err})
			continue
		}
		detections = append(detections, d)
	}
	return detections, errs
}

func parseDetection(row []string, expectedFields int) (FireDetection, error) {
	if len(row) != expectedFields {
		return FireDetection{}, fmt.Errorf("got %d fields, want %d", len(row), expectedFields)
	}
	if expectedFields < FIRMSFieldCount {
		return FireDetection{}, fmt.Errorf("layout needs at least %d fields", FIRMSFieldCount)
	}

	lat, err := parseFloat("latitude", row[colLatitude])
	if err != nil {
		return FireDetection{}, err
	}
	lon, err := parseFloat("longitude", row[colLongitude])
	if err != nil {
		return FireDetection{}, err
	}
	loc := GeoPoint{Lat: lat, Lon: lon}
	if !loc.Valid() {
		return FireDetection{}, fmt.Errorf("coordinates out of range: %g,%g", lat, lon)
	}
	brightness, err := parseFloat("brightness", row[colBrightness])
	if err != nil {
		return FireDetection{}, err
	}
	acquiredAt, err := parseAcquisition(row[colAcqDate], row[colAcqTime])
	if err != nil {
		return FireDetection{}, err
	}
	confidence, err := parseConfidence(row[colConfidence])
	if err != nil {
		return FireDetection{}, err
	}

	satellite := strings.TrimSpace(row[colSatellite])
	return FireDetection{
		ID:         generateID(loc, row[colAcqDate], row[colAcqTime], satellite),
		Location:   loc,
		Brightness: brightness,
		Confidence: confidence,
		AcquiredAt: acquiredAt,
		Satellite:  satellite,
		Instrument: strings.TrimSpace(row[colInstrument]),
		FRP:        parseFloatOrZero(row[colFRP]),
		DayNight:   strings.TrimSpace(row[colDayNight]),
	}, nil
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	return v, nil
}

// parseFloatOrZero parses optional numeric columns, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseAcquisition combines a "YYYY-MM-DD" date with an HHMM time string
// (e.g. "1510" → 15:10, "530" → 05:30) in UTC.
func parseAcquisition(date, hhmm string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse acq_date: %w", err)
	}

	hhmm = strings.TrimSpace(hhmm)
	if len(hhmm) == 0 || len(hhmm) > 4 {
		return time.Time{}, fmt.Errorf("parse acq_time %q: want HHMM", hhmm)
	}
	hhmm = strings.Repeat("0", 4-len(hhmm)) + hhmm

	hour, errH := strconv.Atoi(hhmm[:2])
	mins, errM := strconv.Atoi(hhmm[2:])
	if errH != nil || errM != nil || hour > 23 || mins > 59 || hour < 0 || mins < 0 {
		return time.Time{}, fmt.Errorf("parse acq_time %q: want HHMM", hhmm)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, mins, 0, 0, time.UTC), nil
}

// parseConfidence normalizes VIIRS letters, spelled-out levels, and MODIS
// percentages (<30 low, <80 nominal, otherwise high).
func parseConfidence(s string) (Confidence, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "l", "low":
		return ConfidenceLow, nil
	case "n", "nominal":
		return ConfidenceNominal, nil
	case "h", "high":
		return ConfidenceHigh, nil
	}

	pct, err := strconv.ParseFloat(s, 64)
	if err != nil || pct < 0 || pct > 100 {
		return "", fmt.Errorf("parse confidence %q: unknown value", s)
	}
	switch {
	case pct < 30:
		return ConfidenceLow, nil
	case pct < 80:
		return ConfidenceNominal, nil
	default:
		return ConfidenceHigh, nil
	}
}

// generateID produces a deterministic ID so a hot-spot seen in overlapping
// fetch windows keeps the same identity.
func generateID(loc GeoPoint, date, hhmm, satellite string) string {
	input := fmt.Sprintf("%.5f|%.5f|%s|%s|%s",
		loc.Lat, loc.Lon, strings.TrimSpace(date), strings.TrimSpace(hhmm), satellite)
	hash := sha256.Sum256([]byte(input))
	return "fire-" + hex.EncodeToString(hash[:8])
}
