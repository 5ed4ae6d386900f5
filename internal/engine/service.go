package engine

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"soilsafe/internal/types"
)

// Classifier is the engine's view of the classifier adapter.
type Classifier interface {
	Classify(fv types.FeatureVector) (types.ClassificationResult, error)
}

// Service runs the assessment pipeline. All dependencies are injected and
// immutable after construction, so a single Service serves concurrent
// requests without synchronization.
type Service struct {
	resolver   *Resolver
	classifier Classifier
	logger     *slog.Logger
	clock      clockwork.Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock swaps the time source. Tests inject a fake clock for
// deterministic provenance timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService creates the assessment service.
func NewService(resolver *Resolver, classifier Classifier, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		resolver:   resolver,
		classifier: classifier,
		logger:     logger,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssessFeatures runs the pipeline for explicit caller-supplied features.
// The response omits region/location/inferred_features: nothing was inferred.
func (s *Service) AssessFeatures(ctx context.Context, fv types.FeatureVector) (*types.RiskResponse, error) {
	resolved, prov, err := s.resolver.ResolveFeatures(fv)
	if err != nil {
		return nil, err
	}
	return s.assess(ctx, resolved, prov)
}

// AssessLocation runs the pipeline for a coordinate pair with optional region
// hint. The response carries the resolved region, the echoed coordinates, and
// the inferred feature set.
func (s *Service) AssessLocation(ctx context.Context, hint types.LocationHint) (*types.RiskResponse, error) {
	resolved, prov, err := s.resolver.ResolveLocation(hint)
	if err != nil {
		return nil, err
	}
	return s.assess(ctx, resolved, prov)
}

// assess is the shared tail of both paths: classify, explain, assemble.
func (s *Service) assess(ctx context.Context, fv types.FeatureVector, prov types.Provenance) (*types.RiskResponse, error) {
	// The pipeline has no internal suspension points; honor a caller
	// cancellation that raced the request in before doing any work.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.classifier.Classify(fv)
	if err != nil {
		return nil, err
	}

	prov.GeneratedAt = s.clock.Now().UTC()
	explanation, recommendation, factors := Compose(fv, result, prov)
	resp := assemble(fv, result, prov, explanation, recommendation, factors)

	s.logger.InfoContext(ctx, "assessment completed",
		"risk_level", result.RiskLevel,
		"confidence", result.Confidence,
		"resolution_path", prov.Path,
		"region", prov.Region,
		"model_version", result.ModelVersion,
		"generated_at", prov.GeneratedAt,
	)
	return resp, nil
}

// assemble packages the pipeline outputs into the canonical response
// contract. Responses are constructed once and never mutated afterwards;
// region, location, and inferred_features appear only on location-based
// requests.
func assemble(fv types.FeatureVector, result types.ClassificationResult, prov types.Provenance, explanation, recommendation string, factors []string) *types.RiskResponse {
	resp := &types.RiskResponse{
		RiskLevel:          result.RiskLevel,
		Confidence:         result.Confidence,
		Probabilities:      result.Probabilities,
		Explanation:        explanation,
		Recommendation:     recommendation,
		FeatureImportances: result.FeatureImportances,
		InfluencingFactors: factors,
		Disclaimer:         Disclaimer,
	}

	if prov.LocationBased() {
		resp.Region = prov.Region
		resp.Location = prov.Location
		resp.InferredFeatures = inferredFeatures(fv, prov)
	}
	return resp
}

// inferredFeatures exposes the resolved vector plus resolution metadata for
// location-based responses.
func inferredFeatures(fv types.FeatureVector, prov types.Provenance) map[string]any {
	inferred := map[string]any{
		"soil_type":           fv.SoilType,
		"flood_frequency":     fv.FloodFrequency,
		"rainfall_intensity":  fv.RainfallIntensity,
		"rainfall_category":   types.CategorizeRainfall(fv.RainfallIntensity),
		"elevation_category":  fv.ElevationCategory,
		"distance_from_river": fv.DistanceFromRiver,
	}
	if prov.Region != "" {
		inferred["region"] = prov.Region
	}
	if prov.Location != nil {
		inferred["latitude"] = prov.Location.Latitude
		inferred["longitude"] = prov.Location.Longitude
	}
	if prov.Path == types.ResolutionDefaultFallback {
		inferred["inference"] = "default_region_low_confidence"
	}
	return inferred
}
