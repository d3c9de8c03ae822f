package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

const (
	defaultBroker   = "localhost:9092"
	testFIRMSKey    = "firms-test-key"
	testMapboxToken = "pk.wildfire-test"
)

func withRequired(t *testing.T) {
	t.Helper()
	t.Setenv("FIRMS_API_KEY", testFIRMSKey)
}

func TestLoad_RequiredOnly(t *testing.T) {
	withRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, testFIRMSKey, cfg.FIRMSAPIKey)
	assert.Equal(t, "https://firms.modaps.eosdis.nasa.gov/api", cfg.FIRMSBaseURL)
	assert.Equal(t, "MODIS_NRT", cfg.FIRMSSource)
	assert.Equal(t, 30*time.Second, cfg.FIRMSTimeout)
	assert.Equal(t, domain.FIRMSFieldCount, cfg.FIRMSExpectedFields)

	assert.Equal(t, domain.PeruBounds, cfg.MonitorRegion)
	assert.Equal(t, 1, cfg.MonitorDaysBack)
	assert.Equal(t, "0 */6 * * *", cfg.MonitorSchedule)
	assert.Equal(t, "America/Lima", cfg.MonitorLocation.String())
	assert.Equal(t, 5*time.Minute, cfg.CycleTimeout)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "wildfire-proximity-alerts", cfg.KafkaAlertTopic)

	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Empty(t, cfg.AssetsFile)

	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_Overrides(t *testing.T) {
	withRequired(t)
	t.Setenv("HTTP_ADDR", ":8181")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "45s")
	t.Setenv("FIRMS_SOURCE", "VIIRS_SNPP_NRT")
	t.Setenv("FIRMS_TIMEOUT", "1m")
	t.Setenv("MONITOR_BBOX", "-80,-15,-70,-5")
	t.Setenv("MONITOR_DAYS_BACK", "3")
	t.Setenv("MONITOR_SCHEDULE", "@every 15m")
	t.Setenv("MONITOR_TIMEZONE", "UTC")
	t.Setenv("CYCLE_TIMEOUT", "90s")
	t.Setenv("KAFKA_BROKERS", "kafka-a:9092,kafka-b:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "alerts")
	t.Setenv("STORE_BACKEND", StoreFirestore)
	t.Setenv("FIRESTORE_PROJECT_ID", "wildfire-prod")
	t.Setenv("FIREBASE_CREDENTIALS", "e30=")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "2500ms")
	t.Setenv("MAPBOX_CACHE_SIZE", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8181", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 45*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "VIIRS_SNPP_NRT", cfg.FIRMSSource)
	assert.Equal(t, time.Minute, cfg.FIRMSTimeout)
	assert.Equal(t, domain.BoundingBox{West: -80, South: -15, East: -70, North: -5}, cfg.MonitorRegion)
	assert.Equal(t, 3, cfg.MonitorDaysBack)
	assert.Equal(t, "@every 15m", cfg.MonitorSchedule)
	assert.Equal(t, time.UTC, cfg.MonitorLocation)
	assert.Equal(t, 90*time.Second, cfg.CycleTimeout)
	assert.Equal(t, []string{"kafka-a:9092", "kafka-b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "alerts", cfg.KafkaAlertTopic)
	assert.Equal(t, StoreFirestore, cfg.StoreBackend)
	assert.Equal(t, "wildfire-prod", cfg.FirestoreProjectID)
	assert.Equal(t, "e30=", cfg.FirebaseCredentials)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 2500*time.Millisecond, cfg.MapboxTimeout)
	assert.Equal(t, 250, cfg.MapboxCacheSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing firms key", map[string]string{"FIRMS_API_KEY": ""}, "FIRMS_API_KEY"},
		{"bad shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "not-a-duration"}, "SHUTDOWN_TIMEOUT"},
		{"negative shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, "SHUTDOWN_TIMEOUT"},
		{"bad firms timeout", map[string]string{"FIRMS_TIMEOUT": "soon"}, "FIRMS_TIMEOUT"},
		{"zero cycle timeout", map[string]string{"CYCLE_TIMEOUT": "0s"}, "CYCLE_TIMEOUT"},
		{"bad mapbox timeout", map[string]string{"MAPBOX_TIMEOUT": "bad"}, "MAPBOX_TIMEOUT"},
		{"days back too large", map[string]string{"MONITOR_DAYS_BACK": "11"}, "MONITOR_DAYS_BACK"},
		{"days back zero", map[string]string{"MONITOR_DAYS_BACK": "0"}, "MONITOR_DAYS_BACK"},
		{"too few fields", map[string]string{"FIRMS_EXPECTED_FIELDS": "13"}, "FIRMS_EXPECTED_FIELDS"},
		{"inverted bbox", map[string]string{"MONITOR_BBOX": "-70,-5,-80,-15"}, "MONITOR_BBOX"},
		{"unknown timezone", map[string]string{"MONITOR_TIMEZONE": "Mars/Olympus"}, "MONITOR_TIMEZONE"},
		{"unknown store", map[string]string{"STORE_BACKEND": "postgres"}, "STORE_BACKEND"},
		{"firestore without project", map[string]string{"STORE_BACKEND": "firestore"}, "FIRESTORE_PROJECT_ID"},
		{"mapbox enabled without token", map[string]string{"MAPBOX_ENABLED": "true"}, "MAPBOX_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MapboxToggle(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		enabled string
		want    bool
	}{
		{"no token", "", "", false},
		{"token implies enabled", testMapboxToken, "", true},
		{"token but disabled", testMapboxToken, "false", false},
		{"explicitly enabled", testMapboxToken, "true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withRequired(t)
			t.Setenv("MAPBOX_TOKEN", tt.token)
			t.Setenv("MAPBOX_ENABLED", tt.enabled)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MapboxEnabled)
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	withRequired(t)
	t.Setenv("MAPBOX_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}
