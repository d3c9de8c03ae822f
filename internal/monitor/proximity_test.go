package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

func proximityWith(res FeedResult) *Proximity {
	registry := &mockRegistry{forests: map[string]domain.Forest{
		"manu": {ID: "manu", Name: "Manu", Location: domain.GeoPoint{Lat: -5.0, Lon: -75.0}},
	}}
	return NewProximity(&staticSource{result: res}, registry, nil, domain.PeruBounds, discardLogger())
}

func TestProximity_AssessPoint(t *testing.T) {
	low := detection("low", -5.1, -75.0)
	low.Confidence = domain.ConfidenceNominal
	p := proximityWith(FeedResult{Status: FeedOK, Detections: []domain.FireDetection{
		detection("outside", -6.0, -75.0),
		low,
		detection("closest", -5.03, -75.0),
	}})

	a, err := p.AssessPoint(context.Background(), domain.GeoPoint{Lat: -5.0, Lon: -75.0}, 20, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.RiskCritical, a.Tier)
	assert.Equal(t, "#ef4444", a.Risk.Color)
	assert.Equal(t, 2, a.FiresDetected)
	assert.Equal(t, 1, a.HighConfidence)
	require.Len(t, a.Fires, 2)
	assert.Equal(t, "closest", a.Fires[0].ID)
	assert.Equal(t, "low", a.Fires[1].ID)
	require.NotNil(t, a.ClosestFireKm)
	assert.InDelta(t, 3.34, *a.ClosestFireKm, 0.01)
	assert.Contains(t, a.Description, "Danger")
	assert.Equal(t, "coordinates", a.Place.Source)
}

func TestProximity_AssessPoint_NoFires(t *testing.T) {
	p := proximityWith(FeedResult{Status: FeedEmpty})

	a, err := p.AssessPoint(context.Background(), domain.GeoPoint{Lat: -5.0, Lon: -75.0}, 20, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.RiskLow, a.Tier)
	assert.Nil(t, a.ClosestFireKm)
	assert.NotNil(t, a.Fires)
	assert.Empty(t, a.Fires)
	assert.Equal(t, "No fires detected in the area", a.Description)
}

func TestProximity_AssessPoint_WideRadiusStaysLow(t *testing.T) {
	p := proximityWith(FeedResult{Status: FeedOK, Detections: []domain.FireDetection{detection("d", -5.5, -75.0)}})

	a, err := p.AssessPoint(context.Background(), domain.GeoPoint{Lat: -5.0, Lon: -75.0}, 100, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, a.FiresDetected)
	assert.Equal(t, domain.RiskLow, a.Tier)
	assert.Contains(t, a.Description, "safe")
}

func TestProximity_FeedUnavailable(t *testing.T) {
	p := proximityWith(FeedResult{Status: FeedUnavailable, Err: domain.ErrFeedUnavailable})

	_, err := p.AssessPoint(context.Background(), domain.GeoPoint{Lat: -5.0, Lon: -75.0}, 20, 1)
	assert.True(t, errors.Is(err, domain.ErrFeedUnavailable))

	_, err = p.Stats(context.Background(), 7)
	assert.True(t, errors.Is(err, domain.ErrFeedUnavailable))
}

func TestProximity_AssessForest(t *testing.T) {
	p := proximityWith(FeedResult{Status: FeedOK, Detections: []domain.FireDetection{detection("d", -5.07, -75.0)}})

	forest, a, err := p.AssessForest(context.Background(), "manu", 20, 1)
	require.NoError(t, err)
	assert.Equal(t, "Manu", forest.Name)
	assert.Equal(t, domain.RiskHigh, a.Tier)

	_, _, err = p.AssessForest(context.Background(), "missing", 20, 1)
	assert.True(t, errors.Is(err, domain.ErrForestNotFound))
}

func TestProximity_NearestFire(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		p := proximityWith(FeedResult{Status: FeedOK, Detections: []domain.FireDetection{
			detection("b", -5.1, -75.0),
			detection("a", -5.05, -75.0),
		}})
		_, fire, err := p.NearestFire(context.Background(), "manu", 20, 1)
		require.NoError(t, err)
		assert.Equal(t, "a", fire.ID)
	})

	t.Run("nothing in range", func(t *testing.T) {
		p := proximityWith(FeedResult{Status: FeedOK, Detections: []domain.FireDetection{detection("far", -8.0, -75.0)}})
		_, _, err := p.NearestFire(context.Background(), "manu", 20, 1)
		assert.True(t, errors.Is(err, domain.ErrInsufficientData))
	})
}

func TestProximity_Stats(t *testing.T) {
	second := detection("d2", -6.0, -76.0)
	second.Brightness = 310
	second.Confidence = domain.ConfidenceLow
	second.AcquiredAt = time.Date(2024, 8, 14, 4, 0, 0, 0, time.UTC)

	p := proximityWith(FeedResult{Status: FeedOK, Detections: []domain.FireDetection{
		detection("d1", -5.0, -75.0),
		second,
	}})

	s, err := p.Stats(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, s.PeriodDays)
	assert.Equal(t, 2, s.TotalFires)
	assert.Equal(t, 1, s.HighConfidence)
	assert.InDelta(t, 320, s.AverageBrightness, 1e-9)
	assert.Equal(t, map[string]int{"2024-08-15": 1, "2024-08-14": 1}, s.FiresByDate)
}

func TestProximity_Stats_Empty(t *testing.T) {
	s, err := proximityWith(FeedResult{Status: FeedEmpty}).Stats(context.Background(), 3)
	require.NoError(t, err)
	assert.Zero(t, s.TotalFires)
	assert.Zero(t, s.AverageBrightness)
	assert.Empty(t, s.FiresByDate)
}
