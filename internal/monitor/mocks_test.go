package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// --- mocks ---

type mockFeed struct {
	rows  [][]string
	err   error
	calls int
	days  int
}

func (m *mockFeed) Fetch(_ context.Context, _ domain.BoundingBox, daysBack int) ([][]string, error) {
	m.calls++
	m.days = daysBack
	return m.rows, m.err
}

type staticSource struct {
	result FeedResult
}

func (s *staticSource) FetchActive(context.Context, domain.BoundingBox, int) FeedResult {
	return s.result
}

type mockRegistry struct {
	assets  []domain.MonitoredAsset
	forests map[string]domain.Forest
	err     error
}

func (m *mockRegistry) ListMonitored(context.Context) ([]domain.MonitoredAsset, error) {
	return m.assets, m.err
}

func (m *mockRegistry) GetForest(_ context.Context, id string) (domain.Forest, error) {
	f, ok := m.forests[id]
	if !ok {
		return domain.Forest{}, domain.ErrForestNotFound
	}
	return f, nil
}

type mockLedger struct {
	mu       sync.Mutex
	records  []domain.AlertDecision
	readErr  error
	writeErr error
}

func (m *mockLedger) HasAlertToday(_ context.Context, assetID, contact string, day time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return false, m.readErr
	}
	for _, r := range m.records {
		if r.AssetID == assetID && r.GuardianContact == contact && domain.DayKey(r.CycleDate) == domain.DayKey(day) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLedger) Record(_ context.Context, d domain.AlertDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.records = append(m.records, d)
	return nil
}

type sentAlert struct {
	contact    string
	assetName  string
	distanceKm float64
}

type mockNotifier struct {
	sent   []sentAlert
	failTo map[string]bool
}

func (m *mockNotifier) SendProximityAlert(_ context.Context, contact, assetName string, distanceKm float64) error {
	if m.failTo[contact] {
		return errors.New("broker unavailable")
	}
	m.sent = append(m.sent, sentAlert{contact: contact, assetName: assetName, distanceKm: distanceKm})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func asset(id, contact string, lat, lon float64) domain.MonitoredAsset {
	return domain.MonitoredAsset{
		Forest:          domain.Forest{ID: id, Name: "Forest " + id, Location: domain.GeoPoint{Lat: lat, Lon: lon}},
		GuardianName:    "Guardian " + id,
		GuardianContact: contact,
	}
}

func detection(id string, lat, lon float64) domain.FireDetection {
	return domain.FireDetection{
		ID:         id,
		Location:   domain.GeoPoint{Lat: lat, Lon: lon},
		Brightness: 330,
		Confidence: domain.ConfidenceHigh,
		AcquiredAt: time.Date(2024, 8, 15, 15, 10, 0, 0, time.UTC),
	}
}

func firmsRow(lat, lon, date, confidence string) []string {
	return []string{lat, lon, "320.5", "1.0", "1.0", date, "1510", "Terra", "MODIS", confidence, "6.1NRT", "295.3", "12.4", "D"}
}
