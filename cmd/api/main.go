// Package main is the entry point for the SoilSafe API server.
//
// It loads configuration, builds the region table and the classifier from
// their artifacts, wires the assessment engine into the HTTP chassis, and
// serves until interrupted.
//
// A model artifact that fails to load does not stop startup: the server comes
// up with an unavailable classifier, classification requests return 503, and
// the health endpoint reports the degraded component. Region table failures
// are fatal because nothing can be served without it.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"golang.org/x/sync/errgroup"

	"soilsafe/internal/api/handlers"
	"soilsafe/internal/classifier"
	"soilsafe/internal/config"
	"soilsafe/internal/core"
	"soilsafe/internal/engine"
	"soilsafe/internal/observability"
	"soilsafe/internal/regions"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg)
	logger.Info("soilsafe API starting",
		"environment", cfg.Environment,
		"service", cfg.Service,
		"port", cfg.Server.Port,
	)

	// Region table: embedded by default, file override for curated tables.
	table, err := loadRegionTable(cfg)
	if err != nil {
		return fmt.Errorf("loading region table: %w", err)
	}
	logger.Info("region table loaded",
		"version", table.Version(),
		"regions", table.Len(),
	)

	// Classifier artifact. Load failure keeps the process up; the adapter
	// answers every classification with model_unavailable instead.
	adapter := loadClassifier(cfg, logger)

	svc := engine.NewService(engine.NewResolver(table), adapter, logger)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Metrics, err = newMetricsCollector(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating metrics collector: %w", err)
	}
	srv.HealthProbes = []core.HealthProbe{
		modelProbe{adapter: adapter},
		regionsProbe{table: table},
	}

	assessmentHandler := handlers.NewAssessmentHandler(srv, svc)
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars, assessmentHandler.RegisterRoutes)
	srv.LegacyRouteRegistrars = append(srv.LegacyRouteRegistrars, assessmentHandler.RegisterLegacyRoutes)

	srv.MountRoutes()

	return serve(srv, cfg, logger)
}

func loadRegionTable(cfg *config.Config) (*regions.Table, error) {
	if cfg.Regions.Path != "" {
		return regions.LoadFile(cfg.Regions.Path)
	}
	return regions.Load()
}

func loadClassifier(cfg *config.Config, logger *slog.Logger) *classifier.Adapter {
	model, err := classifier.LoadFile(cfg.Model.Path)
	if err != nil {
		logger.Error("classifier model failed to load; serving degraded",
			"path", cfg.Model.Path,
			"error", err.Error(),
		)
		return classifier.NewUnavailableAdapter(err)
	}

	logger.Info("classifier model loaded",
		"path", cfg.Model.Path,
		"version", model.Version,
		"trees", len(model.Trees),
	)
	return classifier.NewAdapter(model)
}

func newMetricsCollector(cfg *config.Config, logger *slog.Logger) (core.MetricsCollector, error) {
	if !cfg.Observability.EnableMetrics {
		return observability.NewNoopMetrics(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Observability.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := cloudwatch.NewFromConfig(awsCfg)
	return observability.NewCloudWatchMetrics(client, cfg.Observability.MetricNamespace, logger), nil
}

// serve runs the HTTP server and a signal watcher in one errgroup, shutting
// down gracefully when either the listener fails or a signal arrives.
func serve(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger from the configured level and
// format. JSON is the default; text is available for local development.
func newLogger(cfg *config.Config) *slog.Logger {
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// modelProbe reports classifier readiness for the health endpoint.
type modelProbe struct {
	adapter *classifier.Adapter
}

func (p modelProbe) Name() string { return "model" }

func (p modelProbe) Healthy(_ context.Context) error {
	if !p.adapter.Available() {
		return p.adapter.LoadError()
	}
	return nil
}

// regionsProbe reports region table readiness for the health endpoint.
type regionsProbe struct {
	table *regions.Table
}

func (p regionsProbe) Name() string { return "regions" }

func (p regionsProbe) Healthy(_ context.Context) error {
	if p.table == nil || p.table.Len() == 0 {
		return errors.New("region table not loaded")
	}
	return nil
}
