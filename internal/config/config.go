// Package config defines the global configuration structure for the SoilSafe
// risk service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> Struct Defaults (Lowest)
//
// Any missing required value or invalid format causes startup to fail
// immediately (fail fast).
package config

import "time"

// Config is the top-level configuration struct for the service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"soilsafe-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`

	// Domain Configurations
	Server        ServerConfig
	Model         ModelConfig
	Regions       RegionsConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	// CORS origins for the field-agent web client.
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// ModelConfig locates the classifier artifact. The artifact is an offline,
// versioned file produced by cmd/tools/genmodel; the service only ever reads
// it.
type ModelConfig struct {
	Path string `envconfig:"MODEL_PATH" default:"model/soil_model.json.zst"`
}

// RegionsConfig controls the regional feature table source. When Path is
// empty the table embedded in the binary is used; a non-empty path overrides
// it with a curated file, mirroring the model artifact lifecycle.
type RegionsConfig struct {
	Path string `envconfig:"REGION_TABLE_PATH"`
}

// ObservabilityConfig holds telemetry settings. Metrics are emitted to
// CloudWatch when enabled; local development runs with the no-op collector.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"SoilSafe"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"false"`
	AWSRegion       string `envconfig:"AWS_REGION" default:"ap-south-1"`
}
