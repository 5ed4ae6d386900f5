package types

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationInvalidLat, http.StatusBadRequest},
		{ErrCodeValidationInvalidSoilType, http.StatusBadRequest},
		{ErrCodeValidationInvalidJSON, http.StatusBadRequest},
		{ErrCodeBadRequestMissingField, http.StatusBadRequest},
		{ErrCodeUnsupportedRegion, http.StatusUnprocessableEntity},
		{ErrCodeModelUnavailable, http.StatusServiceUnavailable},
		{ErrCodeInternalUnexpected, http.StatusInternalServerError},
		{ErrorCode("something_else"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.code.HTTPStatus(), "code %s", tc.code)
	}
}

func TestAppError_WithDetailsDoesNotMutate(t *testing.T) {
	base := NewAppErrorWithDetails(ErrCodeValidationInvalidLat, "bad", nil, map[string]any{"field": "latitude"})
	derived := base.WithDetails(map[string]any{"value": 91.0})

	assert.Len(t, base.Details, 1)
	assert.Len(t, derived.Details, 2)
	assert.Equal(t, "latitude", derived.Details["field"])
}

func TestNewMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("soil_type", "flood_frequency")

	assert.Equal(t, ErrCodeBadRequestMissingField, err.Code)
	assert.Contains(t, err.Message, "soil_type, flood_frequency")
	assert.Equal(t, []string{"soil_type", "flood_frequency"}, err.Details["missing_fields"])
}

func TestSoilType(t *testing.T) {
	for _, s := range []SoilType{SoilClay, SoilSilt, SoilSand, SoilLoam} {
		assert.True(t, s.Valid())
	}
	assert.False(t, SoilType("granite").Valid())
	assert.False(t, SoilType("").Valid())

	assert.True(t, SoilClay.Cohesive())
	assert.True(t, SoilSilt.Cohesive())
	assert.False(t, SoilSand.Cohesive())
	assert.False(t, SoilLoam.Cohesive())
}

func TestRiskLevelPriority(t *testing.T) {
	assert.Greater(t, RiskHigh.Priority(), RiskMedium.Priority())
	assert.Greater(t, RiskMedium.Priority(), RiskLow.Priority())
	assert.Equal(t, 0, RiskLevel("Unknown").Priority())
}

func TestCategorizeRainfall(t *testing.T) {
	tests := []struct {
		mm   float64
		want RainfallCategory
	}{
		{0, RainfallLowCat},
		{49.9, RainfallLowCat},
		{50, RainfallModerateCat},
		{99.9, RainfallModerateCat},
		{100, RainfallHeavyCat},
		{179.9, RainfallHeavyCat},
		{180, RainfallExtremeCat},
		{400, RainfallExtremeCat},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CategorizeRainfall(tc.mm), "%.1f mm", tc.mm)
	}
}

func TestInSupportedArea(t *testing.T) {
	assert.True(t, InSupportedArea(25.6, 85.1))
	assert.True(t, InSupportedArea(SupportedMinLat, SupportedMinLon))
	assert.True(t, InSupportedArea(SupportedMaxLat, SupportedMaxLon))
	assert.False(t, InSupportedArea(51.5, -0.1))
	assert.False(t, InSupportedArea(5.9, 80))
	assert.False(t, InSupportedArea(25, 98.1))
}

func TestValidateCoordinates(t *testing.T) {
	assert.Nil(t, ValidateCoordinates(25.6, 85.1))

	err := ValidateCoordinates(-91, 0)
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrCodeValidationInvalidLat, err.Code)
	}

	err = ValidateCoordinates(0, 180.5)
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrCodeValidationInvalidLon, err.Code)
	}
}

func TestRiskResponseLegacyProjection(t *testing.T) {
	full := &RiskResponse{
		RiskLevel:     RiskMedium,
		Confidence:    0.61,
		Probabilities: map[RiskLevel]float64{RiskLow: 0.3, RiskMedium: 0.61, RiskHigh: 0.09},
		Explanation:   "explanation text",
		Disclaimer:    "disclaimer text",
	}

	legacy := full.Legacy()
	assert.Equal(t, RiskMedium, legacy.Risk)
	assert.Equal(t, full.Probabilities, legacy.Probabilities)
	assert.Equal(t, "explanation text", legacy.Explanation)
}
