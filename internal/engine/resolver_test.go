package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soilsafe/internal/regions"
	"soilsafe/internal/types"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	table, err := regions.Load()
	require.NoError(t, err)
	return NewResolver(table)
}

func TestResolveFeatures_Passthrough(t *testing.T) {
	r := newTestResolver(t)

	fv := types.FeatureVector{
		SoilType:          types.SoilClay,
		FloodFrequency:    4,
		RainfallIntensity: 220,
		ElevationCategory: types.ElevationLow,
		DistanceFromRiver: 0.5,
	}

	resolved, prov, err := r.ResolveFeatures(fv)
	require.NoError(t, err)
	assert.Equal(t, fv, resolved)
	assert.Equal(t, types.ResolutionDirect, prov.Path)
	assert.Empty(t, prov.Region)
	assert.Nil(t, prov.Location)
	assert.False(t, prov.LocationBased())
}

func TestResolveFeatures_ValidationErrors(t *testing.T) {
	r := newTestResolver(t)
	valid := types.FeatureVector{
		SoilType:          types.SoilLoam,
		FloodFrequency:    1,
		RainfallIntensity: 50,
		ElevationCategory: types.ElevationMid,
		DistanceFromRiver: 1.0,
	}

	tests := []struct {
		name   string
		mutate func(*types.FeatureVector)
		code   types.ErrorCode
	}{
		{"bad soil", func(fv *types.FeatureVector) { fv.SoilType = "granite" }, types.ErrCodeValidationInvalidSoilType},
		{"bad elevation", func(fv *types.FeatureVector) { fv.ElevationCategory = "summit" }, types.ErrCodeValidationInvalidElevation},
		{"negative flood frequency", func(fv *types.FeatureVector) { fv.FloodFrequency = -1 }, types.ErrCodeValidationNegativeValue},
		{"negative rainfall", func(fv *types.FeatureVector) { fv.RainfallIntensity = -5 }, types.ErrCodeValidationNegativeValue},
		{"negative distance", func(fv *types.FeatureVector) { fv.DistanceFromRiver = -0.1 }, types.ErrCodeValidationNegativeValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fv := valid
			tc.mutate(&fv)

			_, _, err := r.ResolveFeatures(fv)
			require.Error(t, err)

			var appErr *types.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func TestResolveLocation_OutsideOperatingArea(t *testing.T) {
	r := newTestResolver(t)

	// London: well-formed coordinates, unsupported territory.
	_, _, err := r.ResolveLocation(types.LocationHint{Latitude: 51.5, Longitude: -0.1})
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUnsupportedRegion, appErr.Code)
	assert.Equal(t, 51.5, appErr.Details["latitude"])
}

func TestResolveLocation_InvalidCoordinates(t *testing.T) {
	r := newTestResolver(t)

	_, _, err := r.ResolveLocation(types.LocationHint{Latitude: 91, Longitude: 80})
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeValidationInvalidLat, appErr.Code)

	_, _, err = r.ResolveLocation(types.LocationHint{Latitude: 25, Longitude: 181})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeValidationInvalidLon, appErr.Code)
}

func TestResolveLocation_ExactRegionName(t *testing.T) {
	r := newTestResolver(t)

	fv, prov, err := r.ResolveLocation(types.LocationHint{
		Latitude:   25.6,
		Longitude:  85.1,
		RegionName: "bengal-delta", // explicit hint wins over the bounding box
	})
	require.NoError(t, err)

	assert.Equal(t, types.ResolutionExactRegion, prov.Path)
	assert.Equal(t, "bengal-delta", prov.Region)
	assert.Equal(t, types.SoilClay, fv.SoilType)
	assert.Equal(t, 4, fv.FloodFrequency)
	require.NotNil(t, prov.Location)
	assert.Equal(t, 25.6, prov.Location.Latitude)
}

func TestResolveLocation_TokenMatch(t *testing.T) {
	r := newTestResolver(t)

	fv, prov, err := r.ResolveLocation(types.LocationHint{
		Latitude:   25.6,
		Longitude:  85.1,
		RegionName: "patna outskirts",
	})
	require.NoError(t, err)

	assert.Equal(t, types.ResolutionTokenMatch, prov.Path)
	assert.Equal(t, "gangetic-plains", prov.Region)
	assert.Equal(t, types.SoilSilt, fv.SoilType)
}

func TestResolveLocation_BoundingBox(t *testing.T) {
	r := newTestResolver(t)

	fv, prov, err := r.ResolveLocation(types.LocationHint{Latitude: 25.6, Longitude: 85.1})
	require.NoError(t, err)

	assert.Equal(t, types.ResolutionBoundingBox, prov.Path)
	assert.Equal(t, "gangetic-plains", prov.Region)
	assert.Equal(t, types.SoilSilt, fv.SoilType)
	assert.Equal(t, 3, fv.FloodFrequency)
	assert.Equal(t, types.ElevationLow, fv.ElevationCategory)
}

func TestResolveLocation_UnmatchedHintFallsThrough(t *testing.T) {
	r := newTestResolver(t)

	// A hint matching neither a name nor a token falls through to the
	// bounding-box lookup rather than failing.
	_, prov, err := r.ResolveLocation(types.LocationHint{
		Latitude:   25.6,
		Longitude:  85.1,
		RegionName: "nowhere special",
	})
	require.NoError(t, err)
	assert.Equal(t, types.ResolutionBoundingBox, prov.Path)
	assert.Equal(t, "gangetic-plains", prov.Region)
}

func TestResolveLocation_DefaultFallback(t *testing.T) {
	r := newTestResolver(t)

	// Inside the operating area, outside every declared box.
	fv, prov, err := r.ResolveLocation(types.LocationHint{Latitude: 7.0, Longitude: 95.0})
	require.NoError(t, err)

	assert.Equal(t, types.ResolutionDefaultFallback, prov.Path)
	assert.Equal(t, "central-upland", prov.Region)
	assert.Equal(t, types.SoilLoam, fv.SoilType)
	assert.True(t, prov.LocationBased())
}
