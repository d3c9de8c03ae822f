package spread

import "github.com/couchcryptid/wildfire-guardian/internal/domain"

// RegionProfile is the fallback weather and vegetation for forecasts that do
// not supply their own conditions.
type RegionProfile struct {
	Name              string
	Weather           Weather
	VegetationDensity float64
}

var regionProfiles = []struct {
	match   func(domain.GeoPoint) bool
	profile RegionProfile
}{
	{
		match: func(p domain.GeoPoint) bool {
			return p.Lat > -10 && p.Lat < -2 && p.Lon > -80 && p.Lon < -70
		},
		profile: RegionProfile{
			Name:              "amazonia",
			Weather:           Weather{WindSpeedKmh: 15, HumidityPercent: 30, WindDirectionDeg: 90},
			VegetationDensity: 1.2,
		},
	},
	{
		match: func(p domain.GeoPoint) bool { return p.Lon < -79 },
		profile: RegionProfile{
			Name:              "costa",
			Weather:           Weather{WindSpeedKmh: 20, HumidityPercent: 70, WindDirectionDeg: 180},
			VegetationDensity: 0.6,
		},
	},
}

var defaultProfile = RegionProfile{
	Name:              "default",
	Weather:           Weather{WindSpeedKmh: 10, HumidityPercent: 50, WindDirectionDeg: 90},
	VegetationDensity: 1.0,
}

// ProfileFor returns the first profile whose region contains p.
func ProfileFor(p domain.GeoPoint) RegionProfile {
	for _, r := range regionProfiles {
		if r.match(p) {
			return r.profile
		}
	}
	return defaultProfile
}
