package types

import "fmt"

// Validation constraint constants.
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0

	// Supported operating area. The curated region table covers the Indian
	// subcontinent; coordinates outside this box are rejected rather than
	// guessed at. These bounds are the geographic gate from the service
	// contract, not a general-purpose India boundary.
	SupportedMinLat = 6.0
	SupportedMaxLat = 37.0
	SupportedMinLon = 68.0
	SupportedMaxLon = 98.0
)

// InSupportedArea returns true if the coordinates fall within the service's
// supported operating area. Both coordinates must already be valid WGS-84
// values; callers validate ranges first.
func InSupportedArea(lat, lon float64) bool {
	return lat >= SupportedMinLat && lat <= SupportedMaxLat &&
		lon >= SupportedMinLon && lon <= SupportedMaxLon
}

// ValidateCoordinates checks WGS-84 ranges and returns a field-named
// validation error on violation.
func ValidateCoordinates(lat, lon float64) *AppError {
	if lat < MinLat || lat > MaxLat {
		return NewAppErrorWithDetails(
			ErrCodeValidationInvalidLat,
			fmt.Sprintf("latitude %.4f outside valid range [%.1f, %.1f]", lat, MinLat, MaxLat),
			nil,
			map[string]any{"field": "latitude"},
		)
	}
	if lon < MinLon || lon > MaxLon {
		return NewAppErrorWithDetails(
			ErrCodeValidationInvalidLon,
			fmt.Sprintf("longitude %.4f outside valid range [%.1f, %.1f]", lon, MinLon, MaxLon),
			nil,
			map[string]any{"field": "longitude"},
		)
	}
	return nil
}

// ValidateFeatureVector checks enum membership and value ranges, naming the
// offending field in the returned error. A nil return means the vector is
// safe to hand to the classifier.
func (fv FeatureVector) Validate() *AppError {
	if !fv.SoilType.Valid() {
		return NewAppErrorWithDetails(
			ErrCodeValidationInvalidSoilType,
			fmt.Sprintf("soil_type %q is not one of clay, silt, sand, loam", fv.SoilType),
			nil,
			map[string]any{"field": "soil_type"},
		)
	}
	if !fv.ElevationCategory.Valid() {
		return NewAppErrorWithDetails(
			ErrCodeValidationInvalidElevation,
			fmt.Sprintf("elevation_category %q is not one of low, mid, high", fv.ElevationCategory),
			nil,
			map[string]any{"field": "elevation_category"},
		)
	}
	if fv.FloodFrequency < 0 {
		return NewAppErrorWithDetails(
			ErrCodeValidationNegativeValue,
			"flood_frequency must be non-negative",
			nil,
			map[string]any{"field": "flood_frequency"},
		)
	}
	if fv.RainfallIntensity < 0 {
		return NewAppErrorWithDetails(
			ErrCodeValidationNegativeValue,
			"rainfall_intensity must be non-negative",
			nil,
			map[string]any{"field": "rainfall_intensity"},
		)
	}
	if fv.DistanceFromRiver < 0 {
		return NewAppErrorWithDetails(
			ErrCodeValidationNegativeValue,
			"distance_from_river must be non-negative",
			nil,
			map[string]any{"field": "distance_from_river"},
		)
	}
	return nil
}
