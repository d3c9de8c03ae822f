package firestore

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

type forestDoc struct {
	ID        string  `firestore:"-"`
	Name      string  `firestore:"name"`
	Latitude  float64 `firestore:"latitude"`
	Longitude float64 `firestore:"longitude"`
}

func (d forestDoc) toDomain() domain.Forest {
	return domain.Forest{
		ID:       d.ID,
		Name:     d.Name,
		Location: domain.GeoPoint{Lat: d.Latitude, Lon: d.Longitude},
	}
}

type adoptionDoc struct {
	ForestID      string `firestore:"forest_id"`
	GuardianName  string `firestore:"guardian_name"`
	GuardianEmail string `firestore:"guardian_email"`
	IsActive      bool   `firestore:"is_active"`
}

type alertDoc struct {
	ForestID       string    `firestore:"forest_id"`
	GuardianEmail  string    `firestore:"guardian_email"`
	Day            string    `firestore:"day"`
	AlertType      string    `firestore:"alert_type"`
	Severity       string    `firestore:"severity"`
	Tier           string    `firestore:"tier"`
	DistanceKm     float64   `firestore:"distance_km"`
	FireID         string    `firestore:"fire_id"`
	FireConfidence string    `firestore:"fire_confidence"`
	FireBrightness float64   `firestore:"fire_brightness"`
	SentAt         time.Time `firestore:"sent_at"`
}

func newAlertDoc(d domain.AlertDecision, sentAt time.Time) alertDoc {
	return alertDoc{
		ForestID:       d.AssetID,
		GuardianEmail:  d.GuardianContact,
		Day:            domain.DayKey(d.CycleDate),
		AlertType:      "fire",
		Severity:       d.Severity(),
		Tier:           d.Tier.String(),
		DistanceKm:     d.DistanceKm,
		FireID:         d.Closest.ID,
		FireConfidence: string(d.Closest.Confidence),
		FireBrightness: d.Closest.Brightness,
		SentAt:         sentAt,
	}
}

// alertKey is the ledger document ID. One document per asset, contact and
// calendar day makes the dedup check a single point read.
func alertKey(assetID, contact string, day time.Time) string {
	h := sha256.Sum256([]byte(assetID + "|" + contact + "|" + domain.DayKey(day)))
	return hex.EncodeToString(h[:])
}
