package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// NearbyFire is a detection annotated with its distance from a query point.
type NearbyFire struct {
	domain.FireDetection
	DistanceKm float64 `json:"distance_km"`
}

// Assessment is the risk picture around a single point.
type Assessment struct {
	Location       domain.GeoPoint         `json:"location"`
	Place          domain.PlaceDescription `json:"place"`
	RadiusKm       float64                 `json:"radius_km"`
	DaysQueried    int                     `json:"days_queried"`
	Tier           domain.RiskTier         `json:"level"`
	Risk           domain.RiskDescription  `json:"risk"`
	Description    string                  `json:"description"`
	FiresDetected  int                     `json:"fires_detected"`
	HighConfidence int                     `json:"high_confidence_fires"`
	ClosestFireKm  *float64                `json:"closest_fire_km"`
	Fires          []NearbyFire            `json:"fires"`
}

// FireStats summarizes detections over a period.
type FireStats struct {
	PeriodDays        int            `json:"period_days"`
	TotalFires        int            `json:"total_fires"`
	HighConfidence    int            `json:"high_confidence_fires"`
	AverageBrightness float64        `json:"average_brightness"`
	FiresByDate       map[string]int `json:"fires_by_date"`
}

// Proximity answers on-demand queries about detections in the monitored
// region. Unlike the Monitor, it reports an unreachable feed as
// domain.ErrFeedUnavailable.
type Proximity struct {
	feed     ActiveFireSource
	registry domain.AssetRegistry
	geocoder domain.Geocoder
	region   domain.BoundingBox
	logger   *slog.Logger
}

// NewProximity creates a Proximity query service. geocoder may be nil.
func NewProximity(feed ActiveFireSource, registry domain.AssetRegistry, geocoder domain.Geocoder, region domain.BoundingBox, logger *slog.Logger) *Proximity {
	return &Proximity{
		feed:     feed,
		registry: registry,
		geocoder: geocoder,
		region:   region,
		logger:   logger,
	}
}

// ActiveFires returns every detection in the region from the last days days.
func (p *Proximity) ActiveFires(ctx context.Context, days int) ([]domain.FireDetection, error) {
	res := p.feed.FetchActive(ctx, p.region, days)
	if res.Status == FeedUnavailable {
		return nil, res.Err
	}
	return res.Detections, nil
}

// FiresNear returns detections within radiusKm of point, closest first.
// Equal distances keep feed order.
func (p *Proximity) FiresNear(ctx context.Context, point domain.GeoPoint, radiusKm float64, days int) ([]NearbyFire, error) {
	detections, err := p.ActiveFires(ctx, days)
	if err != nil {
		return nil, err
	}
	return withinRadius(point, detections, radiusKm), nil
}

// AssessPoint classifies the risk at point from detections inside radiusKm.
func (p *Proximity) AssessPoint(ctx context.Context, point domain.GeoPoint, radiusKm float64, days int) (Assessment, error) {
	fires, err := p.FiresNear(ctx, point, radiusKm, days)
	if err != nil {
		return Assessment{}, fmt.Errorf("assess point: %w", err)
	}

	a := Assessment{
		Location:      point,
		Place:         domain.DescribePlace(ctx, point, p.geocoder, p.logger),
		RadiusKm:      radiusKm,
		DaysQueried:   ClampDaysBack(days),
		FiresDetected: len(fires),
		Fires:         fires,
	}
	if len(fires) > 0 {
		closest := fires[0].DistanceKm
		a.ClosestFireKm = &closest
	}
	for _, f := range fires {
		if f.Confidence == domain.ConfidenceHigh {
			a.HighConfidence++
		}
	}
	a.Tier = domain.Classify(a.ClosestFireKm)
	a.Risk = domain.Describe(a.Tier)
	a.Description = describeRisk(a.Tier, a.ClosestFireKm)
	return a, nil
}

// AssessForest is AssessPoint at a registered forest's location.
func (p *Proximity) AssessForest(ctx context.Context, forestID string, radiusKm float64, days int) (domain.Forest, Assessment, error) {
	forest, err := p.registry.GetForest(ctx, forestID)
	if err != nil {
		return domain.Forest{}, Assessment{}, fmt.Errorf("get forest %s: %w", forestID, err)
	}
	a, err := p.AssessPoint(ctx, forest.Location, radiusKm, days)
	if err != nil {
		return forest, Assessment{}, err
	}
	return forest, a, nil
}

// NearestFire returns the closest detection to a forest within radiusKm.
// It returns domain.ErrInsufficientData when none is in range.
func (p *Proximity) NearestFire(ctx context.Context, forestID string, radiusKm float64, days int) (domain.Forest, NearbyFire, error) {
	forest, err := p.registry.GetForest(ctx, forestID)
	if err != nil {
		return domain.Forest{}, NearbyFire{}, fmt.Errorf("get forest %s: %w", forestID, err)
	}
	fires, err := p.FiresNear(ctx, forest.Location, radiusKm, days)
	if err != nil {
		return forest, NearbyFire{}, fmt.Errorf("find nearest fire: %w", err)
	}
	if len(fires) == 0 {
		return forest, NearbyFire{}, fmt.Errorf("no active fire within %.0f km of %s: %w", radiusKm, forestID, domain.ErrInsufficientData)
	}
	return forest, fires[0], nil
}

// Stats aggregates the region's detections over the last days days.
func (p *Proximity) Stats(ctx context.Context, days int) (FireStats, error) {
	detections, err := p.ActiveFires(ctx, days)
	if err != nil {
		return FireStats{}, fmt.Errorf("fire stats: %w", err)
	}
	return summarize(detections, days), nil
}

func summarize(detections []domain.FireDetection, days int) FireStats {
	s := FireStats{
		PeriodDays:  days,
		TotalFires:  len(detections),
		FiresByDate: make(map[string]int),
	}
	if len(detections) == 0 {
		return s
	}

	var brightness float64
	for _, d := range detections {
		if d.Confidence == domain.ConfidenceHigh {
			s.HighConfidence++
		}
		brightness += d.Brightness
		s.FiresByDate[domain.DayKey(d.AcquiredAt)]++
	}
	s.AverageBrightness = brightness / float64(len(detections))
	return s
}

func withinRadius(point domain.GeoPoint, detections []domain.FireDetection, radiusKm float64) []NearbyFire {
	fires := make([]NearbyFire, 0)
	for _, d := range detections {
		dist := domain.DistanceKm(point, d.Location)
		if dist <= radiusKm {
			fires = append(fires, NearbyFire{FireDetection: d, DistanceKm: dist})
		}
	}
	sort.SliceStable(fires, func(i, j int) bool {
		return fires[i].DistanceKm < fires[j].DistanceKm
	})
	return fires
}

func describeRisk(tier domain.RiskTier, closestKm *float64) string {
	if closestKm == nil {
		return "No fires detected in the area"
	}
	d := *closestKm
	switch tier {
	case domain.RiskCritical:
		return fmt.Sprintf("Danger: fire only %.2f km away", d)
	case domain.RiskHigh:
		return fmt.Sprintf("High risk: fire nearby at %.2f km", d)
	case domain.RiskModerate:
		return fmt.Sprintf("Watch: fire detected at %.2f km", d)
	default:
		return fmt.Sprintf("Distant fire (%.2f km), area is safe", d)
	}
}
