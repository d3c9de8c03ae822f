// Package firms fetches active fire detections from the NASA FIRMS area API.
package firms

import (
	"context"
	"encoding/csv"
	"errors"
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

// DefaultBaseURL is the FIRMS API root.
const DefaultBaseURL = "https://firms.modaps.eosdis.nasa.gov/api"

// DefaultSource is the MODIS near-real-time product.
const DefaultSource = "MODIS_NRT"

// Client implements domain.FireFeed using the FIRMS area CSV endpoint.
type Client struct {
	apiKey     string
	source     string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a FIRMS client. Empty baseURL or source select the
// defaults.
func NewClient(apiKey, baseURL, source string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if source == "" {
		source = DefaultSource
	}
	return &Client{
		apiKey:  apiKey,
		source:  source,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch returns the data rows for bbox over the last daysBack days. The
// header row is dropped; row arity is not checked here.
func (c *Client) Fetch(ctx context.Context, bbox domain.BoundingBox, daysBack int) ([][]string, error) {
	u := fmt.Sprintf("%s/area/csv/%s/%s/%s/%d",
		c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(c.source), bbox.String(), daysBack)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FeedAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("firms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("firms API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	rows, err := ReadRows(resp.Body)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.FeedRequests.WithLabelValues("success").Inc()
	c.logger.Debug("firms rows fetched", "rows", len(rows), "days_back", daysBack, "source", c.source)
	return rows, nil
}

// ReadRows decodes the CSV body. FIRMS reports some failures, such as an
// invalid map key, as a 200 with a plain text message instead of a header.
func ReadRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read firms header: %w", err)
	}
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), "latitude") {
		return nil, fmt.Errorf("unexpected firms response: %s", strconv.Quote(strings.Join(header, ",")))
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Keep the slot so row numbers stay aligned; decoding reports it.
			rows = append(rows, nil)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read firms rows: %w", err)
		}
		rows = append(rows, rec)
	}
}
