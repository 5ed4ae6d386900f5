// Package core provides the API chassis for the SoilSafe risk service. It
// creates the chi router and enforces cross-cutting concerns -- recovery,
// timeouts, request correlation, logging, CORS, and metrics -- before
// requests reach the domain handlers.
package core

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"soilsafe/internal/config"
)

// MetricsCollector defines the interface for recording API telemetry.
// Implementations record request latency and count metrics to CloudWatch or
// equivalent backends.
type MetricsCollector interface {
	// RecordRequest records API request metrics including latency and count.
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// Server encapsulates the chassis dependencies, allowing injection during
// testing and distinct configuration for different environments.
type Server struct {
	Config       *config.Config
	Logger       *slog.Logger
	Metrics      MetricsCollector
	HealthProbes []HealthProbe

	// V1RouteRegistrars are populated by the application entry point; this
	// indirection avoids import cycles between core and handler packages.
	V1RouteRegistrars []func(chi.Router)

	// LegacyRouteRegistrars mount routes outside the /v1 namespace that are
	// kept for older callers.
	LegacyRouteRegistrars []func(chi.Router)

	router *chi.Mux
}

// NewServer initializes the chassis. The caller is responsible for mounting
// routes (via MountRoutes) after registering handlers; this separation allows
// tests to customize route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		router: chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler interface for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}
