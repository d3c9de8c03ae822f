package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// PlaceDescription is a human-readable summary of a point.
type PlaceDescription struct {
	PlaceName        string `json:"place_name,omitempty"`
	Region           string `json:"region,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	// Source is "reverse" when the geocoder answered, "failed" when it
	// errored, and "coordinates" when no geocoder is configured or it had no
	// match.
	Source string `json:"source"`
}

// DescribePlace reverse-geocodes p. A nil geocoder or a failed lookup falls
// back to a coordinate label; it never returns an error.
func DescribePlace(ctx context.Context, p GeoPoint, geocoder Geocoder, logger *slog.Logger) PlaceDescription {
	fallback := PlaceDescription{
		FormattedAddress: fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon),
		Source:           "coordinates",
	}
	if geocoder == nil {
		return fallback
	}

	result, err := geocoder.ReverseGeocode(ctx, p.Lat, p.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", p.Lat,
			"lon", p.Lon,
			"error", err,
		)
		fallback.Source = "failed"
		return fallback
	}
	if result.FormattedAddress == "" {
		return fallback
	}
	return PlaceDescription{
		PlaceName:        result.PlaceName,
		Region:           result.Region,
		FormattedAddress: result.FormattedAddress,
		Source:           "reverse",
	}
}
