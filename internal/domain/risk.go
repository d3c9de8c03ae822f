package domain

import "fmt"

// RiskTier classifies how close the nearest fire is. Tiers are ordered so
// that a larger value means a more severe situation.
type RiskTier int

const (
	RiskLow RiskTier = iota
	RiskModerate
	RiskHigh
	RiskCritical
)

// AlertRadiusKm is the distance under which a detection puts a forest at
// moderate risk or worse and triggers a guardian alert.
const AlertRadiusKm = 20.0

// riskThresholds is evaluated top-down; the first row whose upper bound is
// strictly greater than the distance wins. Distances at or beyond the last
// bound fall through to RiskLow.
var riskThresholds = []struct {
	below float64
	tier  RiskTier
}{
	{below: 5, tier: RiskCritical},
	{below: 10, tier: RiskHigh},
	{below: AlertRadiusKm, tier: RiskModerate},
}

// Classify maps the distance to the closest detection onto a RiskTier.
// A nil distance means no detection was found and is always RiskLow.
func Classify(distanceKm *float64) RiskTier {
	if distanceKm == nil {
		return RiskLow
	}
	return ClassifyDistance(*distanceKm)
}

// ClassifyDistance is Classify for a known distance.
func ClassifyDistance(distanceKm float64) RiskTier {
	for _, t := range riskThresholds {
		if distanceKm < t.below {
			return t.tier
		}
	}
	return RiskLow
}

func (t RiskTier) String() string {
	switch t {
	case RiskLow:
		return "LOW"
	case RiskModerate:
		return "MODERATE"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("RiskTier(%d)", int(t))
	}
}

// MarshalText encodes the tier by name so JSON payloads read "CRITICAL"
// rather than 3.
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *RiskTier) UnmarshalText(b []byte) error {
	parsed, err := ParseRiskTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseRiskTier is the inverse of RiskTier.String.
func ParseRiskTier(s string) (RiskTier, error) {
	for _, t := range []RiskTier{RiskLow, RiskModerate, RiskHigh, RiskCritical} {
		if t.String() == s {
			return t, nil
		}
	}
	return RiskLow, fmt.Errorf("unknown risk tier %q", s)
}

// AlertSeverity is the coarse severity stored with a ledger entry:
// "high" for critical and high tiers, "moderate" otherwise.
func (t RiskTier) AlertSeverity() string {
	if t >= RiskHigh {
		return "high"
	}
	return "moderate"
}

// RiskDescription is the presentation payload for a tier.
type RiskDescription struct {
	Label   string   `json:"label"`
	Color   string   `json:"color"`
	Actions []string `json:"recommended_actions"`
}

var riskDescriptions = map[RiskTier]RiskDescription{
	RiskCritical: {
		Label: "Critical",
		Color: "#ef4444",
		Actions: []string{
			"Alert local authorities immediately",
			"Prepare preventive evacuation of nearby communities",
			"Verify access to water sources",
			"Contact firefighters and civil defense",
		},
	},
	RiskHigh: {
		Label: "High",
		Color: "#f97316",
		Actions: []string{
			"Monitor the situation continuously",
			"Inform wildfire brigades",
			"Prepare an emergency kit",
			"Keep in contact with authorities",
		},
	},
	RiskModerate: {
		Label: "Moderate",
		Color: "#fbbf24",
		Actions: []string{
			"Watch how nearby fires evolve",
			"Avoid activities that could produce sparks",
			"Identify nearby water sources",
			"Adopt this forest to receive automatic alerts",
		},
	},
	RiskLow: {
		Label: "Low",
		Color: "#10b981",
		Actions: []string{
			"Area currently safe",
			"Consider adopting this forest for continuous monitoring",
			"Review future risk forecasts",
			"Join the guardian community",
		},
	},
}

// Describe returns the fixed presentation payload for a tier. The returned
// action slice is a copy and may be modified by the caller.
func Describe(t RiskTier) RiskDescription {
	d, ok := riskDescriptions[t]
	if !ok {
		d = riskDescriptions[RiskLow]
	}
	d.Actions = append([]string(nil), d.Actions...)
	return d
}
