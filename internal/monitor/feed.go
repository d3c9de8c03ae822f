package monitor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/observability"
)

// FIRMS accepts between 1 and 10 days of history per area request.
const (
	MinDaysBack = 1
	MaxDaysBack = 10
)

// FeedStatus is the outcome of a feed fetch.
type FeedStatus string

const (
	FeedOK          FeedStatus = "ok"
	FeedEmpty       FeedStatus = "empty"
	FeedUnavailable FeedStatus = "unavailable"
)

// FeedResult carries decoded detections and how the fetch went. Err is set
// only when Status is FeedUnavailable.
type FeedResult struct {
	Detections []domain.FireDetection
	Skipped    int
	Status     FeedStatus
	Err        error
}

// ActiveFireSource returns the detections currently active in a region.
type ActiveFireSource interface {
	FetchActive(ctx context.Context, bbox domain.BoundingBox, daysBack int) FeedResult
}

// FeedAdapter turns raw feed rows into detections and converts transport
// failures into FeedUnavailable results.
type FeedAdapter struct {
	feed           domain.FireFeed
	expectedFields int
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewFeedAdapter creates a FeedAdapter. expectedFields <= 0 selects the
// MODIS NRT layout.
func NewFeedAdapter(feed domain.FireFeed, expectedFields int, logger *slog.Logger, metrics *observability.Metrics) *FeedAdapter {
	return &FeedAdapter{
		feed:           feed,
		expectedFields: expectedFields,
		logger:         logger,
		metrics:        metrics,
	}
}

// FetchActive never returns an error; callers inspect Status.
func (a *FeedAdapter) FetchActive(ctx context.Context, bbox domain.BoundingBox, daysBack int) FeedResult {
	daysBack = ClampDaysBack(daysBack)

	rows, err := a.feed.Fetch(ctx, bbox, daysBack)
	if err != nil {
		a.logger.Warn("fire feed unavailable",
			"bbox", bbox.String(),
			"days_back", daysBack,
			"error", err,
		)
		return FeedResult{
			Status: FeedUnavailable,
			Err:    fmt.Errorf("fetch detections: %w: %w", domain.ErrFeedUnavailable, err),
		}
	}

	detections, rowErrs := domain.ParseDetections(rows, a.expectedFields)
	for _, rowErr := range rowErrs {
		a.logger.Debug("skipping malformed feed row", "error", rowErr)
	}
	if len(rowErrs) > 0 {
		a.logger.Warn("feed rows skipped", "skipped", len(rowErrs), "total", len(rows))
	}
	a.metrics.MalformedRows.Add(float64(len(rowErrs)))
	a.metrics.DetectionsFetched.Add(float64(len(detections)))

	status := FeedOK
	if len(detections) == 0 {
		status = FeedEmpty
	}
	return FeedResult{
		Detections: detections,
		Skipped:    len(rowErrs),
		Status:     status,
	}
}

// ClampDaysBack bounds n to [MinDaysBack, MaxDaysBack].
func ClampDaysBack(n int) int {
	return min(max(n, MinDaysBack), MaxDaysBack)
}
