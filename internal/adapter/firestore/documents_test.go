package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

func TestAlertKey(t *testing.T) {
	day := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, alertKey("manu", "g@example.com", day), alertKey("manu", "g@example.com", day.Add(5*time.Hour)))
	})

	t.Run("varies by each component", func(t *testing.T) {
		base := alertKey("manu", "g@example.com", day)
		assert.NotEqual(t, base, alertKey("tambopata", "g@example.com", day))
		assert.NotEqual(t, base, alertKey("manu", "other@example.com", day))
		assert.NotEqual(t, base, alertKey("manu", "g@example.com", day.AddDate(0, 0, 1)))
	})

	t.Run("valid document id", func(t *testing.T) {
		assert.Len(t, alertKey("a/b", "c", day), 64)
	})
}

func TestNewAlertDoc(t *testing.T) {
	sentAt := time.Date(2024, 8, 15, 15, 10, 0, 0, time.UTC)
	d := domain.AlertDecision{
		AssetID:         "manu",
		AssetName:       "Manu",
		GuardianContact: "g@example.com",
		Closest: domain.FireDetection{
			ID:         "fire-abc",
			Confidence: domain.ConfidenceHigh,
			Brightness: 330.2,
		},
		DistanceKm: 7.5,
		Tier:       domain.RiskHigh,
		CycleDate:  time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
	}

	doc := newAlertDoc(d, sentAt)

	assert.Equal(t, alertDoc{
		ForestID:       "manu",
		GuardianEmail:  "g@example.com",
		Day:            "2024-08-15",
		AlertType:      "fire",
		Severity:       "high",
		Tier:           "HIGH",
		DistanceKm:     7.5,
		FireID:         "fire-abc",
		FireConfidence: "high",
		FireBrightness: 330.2,
		SentAt:         sentAt,
	}, doc)
}

func TestForestDocToDomain(t *testing.T) {
	f := forestDoc{ID: "manu", Name: "Manu", Latitude: -12.25, Longitude: -71.5}.toDomain()
	assert.Equal(t, domain.Forest{ID: "manu", Name: "Manu", Location: domain.GeoPoint{Lat: -12.25, Lon: -71.5}}, f)
}
