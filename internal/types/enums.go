package types

// SoilType classifies the dominant soil composition at a site.
type SoilType string

const (
	SoilClay SoilType = "clay"
	SoilSilt SoilType = "silt"
	SoilSand SoilType = "sand"
	SoilLoam SoilType = "loam"
)

// Valid reports whether the soil type is one of the supported categories.
func (s SoilType) Valid() bool {
	switch s {
	case SoilClay, SoilSilt, SoilSand, SoilLoam:
		return true
	}
	return false
}

// Cohesive reports whether the soil type retains water and loses bearing
// capacity when saturated. Clay and silt sites stay waterlogged after a
// flood recedes; sand and loam drain.
func (s SoilType) Cohesive() bool {
	return s == SoilClay || s == SoilSilt
}

// ElevationCategory buckets site elevation relative to the surrounding
// floodplain.
type ElevationCategory string

const (
	ElevationLow  ElevationCategory = "low"
	ElevationMid  ElevationCategory = "mid"
	ElevationHigh ElevationCategory = "high"
)

// Valid reports whether the elevation category is one of the supported buckets.
func (e ElevationCategory) Valid() bool {
	switch e {
	case ElevationLow, ElevationMid, ElevationHigh:
		return true
	}
	return false
}

// RiskLevel is the classification output of the engine.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Valid reports whether the risk level is one of the three output classes.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Priority orders risk levels for tie-breaking: when two classes carry equal
// probability mass the engine biases toward caution, so High > Medium > Low.
func (r RiskLevel) Priority() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

// RiskLevels lists the output classes in canonical (ascending) order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// ResolutionPath records how the Feature Resolver produced a feature vector.
type ResolutionPath string

const (
	// ResolutionDirect means the caller supplied explicit features.
	ResolutionDirect ResolutionPath = "direct"
	// ResolutionExactRegion means the region hint matched a table entry by name.
	ResolutionExactRegion ResolutionPath = "exact_region"
	// ResolutionTokenMatch means a place-name token rule matched the hint.
	ResolutionTokenMatch ResolutionPath = "token_match"
	// ResolutionBoundingBox means the coordinates fell inside a region's box.
	ResolutionBoundingBox ResolutionPath = "bounding_box"
	// ResolutionDefaultFallback means nothing matched and the designated
	// default region was substituted. Low-confidence; flagged in provenance.
	ResolutionDefaultFallback ResolutionPath = "default_fallback"
)

// RainfallCategory buckets a rainfall intensity reading for display.
type RainfallCategory string

const (
	RainfallLowCat      RainfallCategory = "low"
	RainfallModerateCat RainfallCategory = "moderate"
	RainfallHeavyCat    RainfallCategory = "heavy"
	RainfallExtremeCat  RainfallCategory = "extreme"
)

// CategorizeRainfall maps a 24h rainfall intensity in millimetres to its
// display bucket. Thresholds follow the regional dataset builder: 50mm and
// 100mm separate low/moderate/heavy, 180mm marks extreme events.
func CategorizeRainfall(mm float64) RainfallCategory {
	switch {
	case mm >= 180:
		return RainfallExtremeCat
	case mm >= 100:
		return RainfallHeavyCat
	case mm >= 50:
		return RainfallModerateCat
	default:
		return RainfallLowCat
	}
}
