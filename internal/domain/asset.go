package domain

import "time"

// Forest is a registered protected area.
type Forest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
}

// MonitoredAsset is a forest with an active guardian subscription.
type MonitoredAsset struct {
	Forest
	GuardianName    string `json:"guardian_name"`
	GuardianContact string `json:"guardian_contact"`
}

// AlertDecision is produced when a detection falls inside AlertRadiusKm of a
// monitored asset.
type AlertDecision struct {
	AssetID         string        `json:"asset_id"`
	AssetName       string        `json:"asset_name"`
	GuardianContact string        `json:"guardian_contact"`
	Closest         FireDetection `json:"closest"`
	DistanceKm      float64       `json:"distance_km"`
	Tier            RiskTier      `json:"tier"`
	CycleDate       time.Time     `json:"cycle_date"`
}

// Severity is the coarse ledger severity of the decision's tier.
func (d AlertDecision) Severity() string {
	return d.Tier.AlertSeverity()
}

// Nearest returns the detection closest to p and its distance. Ties keep the
// first detection in input order. ok is false when detections is empty.
func Nearest(p GeoPoint, detections []FireDetection) (closest FireDetection, distanceKm float64, ok bool) {
	for _, d := range detections {
		dist := DistanceKm(p, d.Location)
		if !ok || dist < distanceKm {
			closest, distanceKm, ok = d, dist, true
		}
	}
	return closest, distanceKm, ok
}
