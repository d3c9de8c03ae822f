// Package http exposes the proximity, forecast, and monitor APIs together
// with health, readiness, and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/monitor"
	"github.com/couchcryptid/wildfire-guardian/internal/observability"
)

// FireQuerier answers on-demand questions about active detections.
type FireQuerier interface {
	ActiveFires(ctx context.Context, days int) ([]domain.FireDetection, error)
	AssessPoint(ctx context.Context, point domain.GeoPoint, radiusKm float64, days int) (monitor.Assessment, error)
	AssessForest(ctx context.Context, forestID string, radiusKm float64, days int) (domain.Forest, monitor.Assessment, error)
	NearestFire(ctx context.Context, forestID string, radiusKm float64, days int) (domain.Forest, monitor.NearbyFire, error)
	Stats(ctx context.Context, days int) (monitor.FireStats, error)
}

// Sweeper runs a monitoring cycle on demand.
type Sweeper interface {
	Sweep(ctx context.Context) (monitor.CycleReport, error)
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	Fires   FireQuerier
	Sweeper Sweeper
	Ready   sharedobs.ReadinessChecker
	Metrics *observability.Metrics
	Clock   clockwork.Clock
}

// Server is the service's HTTP front end.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer builds the gin router and wraps it in an http.Server.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	s := &Server{deps: deps, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	r.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(deps.Ready)))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/fires", s.handleActiveFires)
		api.GET("/fires/analyze", s.handleAnalyzePoint)
		api.GET("/fires/stats", s.handleFireStats)
		api.GET("/forests/:id/fires", s.handleForestFires)
		api.GET("/spread", s.handleSpread)
		api.GET("/forests/:id/spread", s.handleForestSpread)
		api.POST("/simulate-impact", s.handleSimulateImpact)
		api.POST("/monitor/sweep", s.handleSweep)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
