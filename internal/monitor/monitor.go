package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/observability"
)

// ErrCycleInProgress is returned by Sweep when another cycle is running.
var ErrCycleInProgress = errors.New("monitoring cycle already in progress")

// Outcome is the terminal state of one asset in one cycle.
type Outcome string

const (
	OutcomeNoDetectionsInRange Outcome = "no_detections_in_range"
	OutcomeSuppressedDuplicate Outcome = "suppressed"
	OutcomeDispatched          Outcome = "dispatched"
	OutcomeDispatchFailed      Outcome = "failed"
)

// CycleReport summarizes a monitoring cycle.
type CycleReport struct {
	CycleDate        string     `json:"cycle_date"`
	AssetsEvaluated  int        `json:"assets_evaluated"`
	Detections       int        `json:"detections"`
	AlertsSent       int        `json:"alerts_sent"`
	AlertsSuppressed int        `json:"alerts_suppressed"`
	AlertsFailed     int        `json:"alerts_failed"`
	FeedStatus       FeedStatus `json:"feed_status,omitempty"`
}

func (r *CycleReport) count(o Outcome) {
	switch o {
	case OutcomeDispatched:
		r.AlertsSent++
	case OutcomeSuppressedDuplicate:
		r.AlertsSuppressed++
	case OutcomeDispatchFailed:
		r.AlertsFailed++
	}
}

// Options configures the region and calendar of a Monitor.
type Options struct {
	Region   domain.BoundingBox
	DaysBack int
	// Location decides which calendar day an alert belongs to. Nil means UTC.
	Location *time.Location
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// Monitor evaluates monitored assets against active detections and notifies
// guardians at most once per asset, contact and day.
type Monitor struct {
	feed     ActiveFireSource
	registry domain.AssetRegistry
	ledger   domain.AlertLedger
	notifier domain.Notifier
	region   domain.BoundingBox
	daysBack int
	location *time.Location
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	running sync.Mutex
	ready   atomic.Bool
}

// New creates a Monitor with the given collaborators.
func New(feed ActiveFireSource, registry domain.AssetRegistry, ledger domain.AlertLedger, notifier domain.Notifier, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Monitor{
		feed:     feed,
		registry: registry,
		ledger:   ledger,
		notifier: notifier,
		region:   opts.Region,
		daysBack: ClampDaysBack(opts.DaysBack),
		location: opts.Location,
		clock:    opts.Clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one cycle has completed.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if !m.ready.Load() {
		return errors.New("monitor has not completed a cycle yet")
	}
	return nil
}

// Sweep runs one full cycle: fetch the feed, list monitored assets and
// evaluate them for today's calendar day. Feed and notifier failures are
// absorbed into the report; only a registry failure is returned.
func (m *Monitor) Sweep(ctx context.Context) (CycleReport, error) {
	if !m.running.TryLock() {
		return CycleReport{}, ErrCycleInProgress
	}
	defer m.running.Unlock()

	start := m.clock.Now()
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	feed := m.feed.FetchActive(ctx, m.region, m.daysBack)

	assets, err := m.registry.ListMonitored(ctx)
	if err != nil {
		m.logger.Error("list monitored assets failed", "error", err)
		return CycleReport{FeedStatus: feed.Status}, fmt.Errorf("list monitored assets: %w", err)
	}

	today := domain.CalendarDay(m.clock.Now(), m.location)
	report := m.RunCycle(ctx, assets, feed.Detections, today)
	report.FeedStatus = feed.Status

	m.metrics.CyclesTotal.WithLabelValues(string(feed.Status)).Inc()
	m.metrics.CycleDuration.Observe(m.clock.Since(start).Seconds())
	m.ready.Store(true)

	m.logger.Info("monitoring cycle complete",
		"cycle_date", report.CycleDate,
		"feed", feed.Status,
		"detections", report.Detections,
		"assets", report.AssetsEvaluated,
		"sent", report.AlertsSent,
		"suppressed", report.AlertsSuppressed,
		"failed", report.AlertsFailed,
	)
	return report, nil
}

// RunCycle evaluates each asset independently. A failure for one asset is
// logged and counted and never stops the others.
func (m *Monitor) RunCycle(ctx context.Context, assets []domain.MonitoredAsset, detections []domain.FireDetection, today time.Time) CycleReport {
	report := CycleReport{
		CycleDate:  domain.DayKey(today),
		Detections: len(detections),
	}
	for _, asset := range assets {
		outcome := m.evaluate(ctx, asset, detections, today)
		report.AssetsEvaluated++
		report.count(outcome)
		if outcome != OutcomeNoDetectionsInRange {
			m.metrics.AlertsTotal.WithLabelValues(string(outcome)).Inc()
		}
	}
	return report
}

func (m *Monitor) evaluate(ctx context.Context, asset domain.MonitoredAsset, detections []domain.FireDetection, today time.Time) Outcome {
	closest, distance, ok := domain.Nearest(asset.Location, detections)
	if !ok || distance >= domain.AlertRadiusKm {
		return OutcomeNoDetectionsInRange
	}

	decision := domain.AlertDecision{
		AssetID:         asset.ID,
		AssetName:       asset.Name,
		GuardianContact: asset.GuardianContact,
		Closest:         closest,
		DistanceKm:      distance,
		Tier:            domain.ClassifyDistance(distance),
		CycleDate:       today,
	}
	log := m.logger.With(
		"asset_id", asset.ID,
		"distance_km", distance,
		"tier", decision.Tier.String(),
	)

	exists, err := m.ledger.HasAlertToday(ctx, asset.ID, asset.GuardianContact, today)
	if err != nil {
		log.Error("alert ledger lookup failed", "error", err)
		return OutcomeDispatchFailed
	}
	if exists {
		log.Debug("alert already sent today")
		return OutcomeSuppressedDuplicate
	}

	if err := m.notifier.SendProximityAlert(ctx, asset.GuardianContact, asset.Name, distance); err != nil {
		log.Error("send proximity alert failed", "error", err)
		return OutcomeDispatchFailed
	}

	// The send already happened; a failed write only risks a repeat alert.
	if err := m.ledger.Record(ctx, decision); err != nil {
		log.Error("record alert failed", "error", err)
	}
	log.Info("proximity alert sent")
	return OutcomeDispatched
}
