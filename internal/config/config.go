package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// Store backends.
const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// FIRMS fire feed.
	FIRMSAPIKey         string
	FIRMSBaseURL        string
	FIRMSSource         string
	FIRMSTimeout        time.Duration
	FIRMSExpectedFields int

	// Monitoring cycle.
	MonitorRegion   domain.BoundingBox
	MonitorDaysBack int
	MonitorSchedule string
	MonitorLocation *time.Location
	CycleTimeout    time.Duration

	KafkaBrokers    []string
	KafkaAlertTopic string

	// Asset registry and alert ledger.
	StoreBackend        string
	AssetsFile          string
	FirestoreProjectID  string
	FirebaseCredentials string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	firmsTimeout, err := parseDuration("FIRMS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cycleTimeout, err := parseDuration("CYCLE_TIMEOUT", "5m")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	expectedFields, err := parseInt("FIRMS_EXPECTED_FIELDS", domain.FIRMSFieldCount, domain.FIRMSFieldCount, 64)
	if err != nil {
		return nil, err
	}
	daysBack, err := parseInt("MONITOR_DAYS_BACK", 1, 1, 10)
	if err != nil {
		return nil, err
	}

	region, err := domain.ParseBoundingBox(sharedcfg.EnvOrDefault("MONITOR_BBOX", domain.PeruBounds.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_BBOX: %w", err)
	}
	loc, err := time.LoadLocation(sharedcfg.EnvOrDefault("MONITOR_TIMEZONE", "America/Lima"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_TIMEZONE: %w", err)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FIRMSAPIKey:         os.Getenv("FIRMS_API_KEY"),
		FIRMSBaseURL:        sharedcfg.EnvOrDefault("FIRMS_BASE_URL", "https://firms.modaps.eosdis.nasa.gov/api"),
		FIRMSSource:         sharedcfg.EnvOrDefault("FIRMS_SOURCE", "MODIS_NRT"),
		FIRMSTimeout:        firmsTimeout,
		FIRMSExpectedFields: expectedFields,

		MonitorRegion:   region,
		MonitorDaysBack: daysBack,
		MonitorSchedule: sharedcfg.EnvOrDefault("MONITOR_SCHEDULE", "0 */6 * * *"),
		MonitorLocation: loc,
		CycleTimeout:    cycleTimeout,

		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "wildfire-proximity-alerts"),

		StoreBackend:        sharedcfg.EnvOrDefault("STORE_BACKEND", StoreMemory),
		AssetsFile:          os.Getenv("ASSETS_FILE"),
		FirestoreProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if cfg.FIRMSAPIKey == "" {
		return nil, errors.New("FIRMS_API_KEY is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_ALERT_TOPIC is required")
	}
	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, errors.New("STORE_BACKEND is firestore but FIRESTORE_PROJECT_ID is not set")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %s or %s", cfg.StoreBackend, StoreMemory, StoreFirestore)
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be between %d and %d", key, lo, hi)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
