package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	firestoreadapter "github.com/couchcryptid/wildfire-guardian/internal/adapter/firestore"
	"github.com/couchcryptid/wildfire-guardian/internal/adapter/firms"
	httpadapter "github.com/couchcryptid/wildfire-guardian/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/wildfire-guardian/internal/adapter/kafka"
	"github.com/couchcryptid/wildfire-guardian/internal/adapter/mapbox"
	"github.com/couchcryptid/wildfire-guardian/internal/adapter/memory"
	"github.com/couchcryptid/wildfire-guardian/internal/config"
	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/monitor"
	"github.com/couchcryptid/wildfire-guardian/internal/observability"
	"github.com/couchcryptid/wildfire-guardian/internal/scheduler"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, ledger, closeStore, err := openStore(ctx, cfg, clock, logger)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	firmsClient := firms.NewClient(cfg.FIRMSAPIKey, cfg.FIRMSBaseURL, cfg.FIRMSSource, cfg.FIRMSTimeout, metrics, logger)
	feed := monitor.NewFeedAdapter(firmsClient, cfg.FIRMSExpectedFields, logger, metrics)
	notifier := kafkaadapter.NewNotifier(cfg.KafkaBrokers, cfg.KafkaAlertTopic, clock, logger)

	mon := monitor.New(feed, registry, ledger, notifier, monitor.Options{
		Region:   cfg.MonitorRegion,
		DaysBack: cfg.MonitorDaysBack,
		Location: cfg.MonitorLocation,
		Clock:    clock,
	}, logger, metrics)
	proximity := monitor.NewProximity(feed, registry, geocoder, cfg.MonitorRegion, logger)

	sched, err := scheduler.New(cfg.MonitorSchedule, cfg.MonitorLocation, cfg.CycleTimeout, mon, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Fires:   proximity,
		Sweeper: mon,
		Ready:   mon,
		Metrics: metrics,
		Clock:   clock,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Run one cycle immediately so readiness does not wait for the first tick.
	go sched.RunOnce(ctx)
	sched.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown error", "error", err)
	}
	if err := notifier.Close(); err != nil {
		logger.Error("kafka notifier close error", "error", err)
	}
	if err := closeStore(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) (domain.AssetRegistry, domain.AlertLedger, func() error, error) {
	if cfg.StoreBackend == config.StoreFirestore {
		client, err := firestoreadapter.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using firestore store", "project_id", cfg.FirestoreProjectID)
		return firestoreadapter.NewRegistry(client, logger), firestoreadapter.NewLedger(client, clock), client.Close, nil
	}

	registry, err := memory.NewRegistry(memory.Seed{})
	if cfg.AssetsFile != "" {
		registry, err = memory.LoadRegistryFile(cfg.AssetsFile)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("using in-memory store", "assets_file", cfg.AssetsFile, "forests", len(registry.Forests()))
	return registry, memory.NewLedger(), func() error { return nil }, nil
}
