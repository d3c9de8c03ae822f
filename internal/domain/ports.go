package domain

import (
	"context"
	"time"
)

// FireFeed retrieves raw detection rows for a region. Rows exclude the
// header and are positional as described in the package documentation.
type FireFeed interface {
	Fetch(ctx context.Context, bbox BoundingBox, daysBack int) ([][]string, error)
}

// AssetRegistry provides read-only access to forests and their guardians.
type AssetRegistry interface {
	// ListMonitored returns every asset with an active guardian subscription.
	ListMonitored(ctx context.Context) ([]MonitoredAsset, error)

	// GetForest returns ErrForestNotFound for unknown IDs.
	GetForest(ctx context.Context, id string) (Forest, error)
}

// AlertLedger records dispatched alerts so that an asset's guardian is
// notified at most once per calendar day.
type AlertLedger interface {
	HasAlertToday(ctx context.Context, assetID, contact string, day time.Time) (bool, error)
	Record(ctx context.Context, decision AlertDecision) error
}

// Notifier delivers a proximity alert to a guardian.
type Notifier interface {
	SendProximityAlert(ctx context.Context, contact, assetName string, distanceKm float64) error
}

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Region           string  // first-level administrative area, e.g. a Peruvian department
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder converts coordinates to place details.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
