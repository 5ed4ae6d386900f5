// Package types defines the shared domain model for the SoilSafe risk engine:
// feature vectors, location hints, classification results, the response
// contracts, the error taxonomy, and the validation constants. It has no
// dependencies on other internal packages so that every layer can share these
// definitions without import cycles.
package types

import "time"

// FeatureVector is the fixed set of soil/flood attributes consumed by the
// classifier. All five fields must be populated (distance defaults to 0.0)
// before a vector reaches the classifier; nothing is silently null.
type FeatureVector struct {
	SoilType          SoilType          `json:"soil_type"`
	FloodFrequency    int               `json:"flood_frequency"`
	RainfallIntensity float64           `json:"rainfall_intensity"`
	ElevationCategory ElevationCategory `json:"elevation_category"`
	DistanceFromRiver float64           `json:"distance_from_river"`
}

// LocationHint is a coordinate pair plus an optional caller-supplied or
// pre-geocoded place name used to shortcut feature resolution. The engine
// never geocodes; RegionName arrives already resolved.
type LocationHint struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	RegionName string  `json:"region,omitempty"`
}

// Coordinates is the wire representation of a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FeatureImportance is one entry of the classifier's static per-version
// importance ranking, exposed per response for UI convenience.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ClassificationResult is the raw classifier output before explanation.
// Probabilities sum to 1.0 within floating-point tolerance and RiskLevel is
// the arg-max class, with ties broken toward the higher-priority class.
type ClassificationResult struct {
	RiskLevel          RiskLevel             `json:"risk_level"`
	Confidence         float64               `json:"confidence"`
	Probabilities      map[RiskLevel]float64 `json:"probabilities"`
	FeatureImportances []FeatureImportance   `json:"feature_importances"`
	ModelVersion       string                `json:"model_version"`
}

// Provenance records how a feature vector was produced, for inclusion in the
// response's region/location/inferred_features fields.
type Provenance struct {
	Path        ResolutionPath
	Region      string // resolved canonical region name, if any
	Location    *Coordinates
	GeneratedAt time.Time
}

// LocationBased reports whether the request supplied coordinates rather than
// explicit features.
func (p Provenance) LocationBased() bool {
	return p.Path != ResolutionDirect
}

// RiskResponse is the canonical response contract. Constructed once per
// request, never mutated after assembly. Field names on the wire are fixed;
// region/location/inferred_features appear only on location-based requests.
type RiskResponse struct {
	RiskLevel          RiskLevel             `json:"risk_level"`
	Confidence         float64               `json:"confidence"`
	Probabilities      map[RiskLevel]float64 `json:"probabilities"`
	Explanation        string                `json:"explanation"`
	Recommendation     string                `json:"recommendation"`
	FeatureImportances []FeatureImportance   `json:"feature_importances"`
	InfluencingFactors []string              `json:"influencing_factors"`
	Region             string                `json:"region,omitempty"`
	Location           *Coordinates          `json:"location,omitempty"`
	InferredFeatures   map[string]any        `json:"inferred_features,omitempty"`
	Disclaimer         string                `json:"disclaimer"`
}

// LegacyRiskResponse is the reduced contract served to older callers.
type LegacyRiskResponse struct {
	Risk          RiskLevel             `json:"risk"`
	Probabilities map[RiskLevel]float64 `json:"probabilities"`
	Explanation   string                `json:"explanation"`
}

// Legacy projects the canonical response onto the legacy contract. Both
// contracts are thin adapters over the same engine call, so they cannot
// drift behaviorally.
func (r *RiskResponse) Legacy() LegacyRiskResponse {
	return LegacyRiskResponse{
		Risk:          r.RiskLevel,
		Probabilities: r.Probabilities,
		Explanation:   r.Explanation,
	}
}
