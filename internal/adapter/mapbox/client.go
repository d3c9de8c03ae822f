// Package mapbox reverse-geocodes fire and forest coordinates with the Mapbox
// Geocoding API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/observability"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// placeTypes limits matches to administrative areas; street-level results
// are meaningless inside a protected forest.
const placeTypes = "place,locality,district,region"

// APIError is a non-200 response from Mapbox.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mapbox API error: status %d: %s", e.StatusCode, e.Body)
}

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	language   string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client returning Spanish place names.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		language:   "es",
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// ReverseGeocode converts coordinates to the closest named place. A point
// with no match returns a zero result and no error.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	endpoint, err := c.reverseURL(lat, lon)
	if err != nil {
		return domain.GeocodingResult{}, err
	}

	features, err := c.lookup(ctx, endpoint)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, err
	}
	if len(features) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("no place found", "lat", lat, "lon", lon)
		return domain.GeocodingResult{}, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return features[0].toResult(), nil
}

// reverseURL renders {base}/{lon},{lat}.json; Mapbox takes longitude first.
func (c *Client) reverseURL(lat, lon float64) (string, error) {
	coord := strconv.FormatFloat(lon, 'f', 6, 64) + "," + strconv.FormatFloat(lat, 'f', 6, 64) + ".json"
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse mapbox base url: %w", err)
	}
	u = u.JoinPath(coord)

	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("limit", "1")
	q.Set("types", placeTypes)
	if c.language != "" {
		q.Set("language", c.language)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) lookup(ctx context.Context, endpoint string) ([]feature, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded.Features, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64     `json:"center"` // [lon, lat]
	PlaceName string        `json:"place_name"`
	Text      string        `json:"text"`
	Relevance float64       `json:"relevance"`
	Context   []contextItem `json:"context"`
}

// contextItem is one enclosing area of a feature, e.g. {"id": "region.123",
// "text": "Madre de Dios"}.
type contextItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (f feature) toResult() domain.GeocodingResult {
	r := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		r.Lon, r.Lat = f.Center[0], f.Center[1]
	}
	for _, c := range f.Context {
		if strings.HasPrefix(c.ID, "region.") {
			r.Region = c.Text
			break
		}
	}
	return r
}
