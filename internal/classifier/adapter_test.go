package classifier

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soilsafe/internal/types"
)

func newReferenceAdapter(t *testing.T) *Adapter {
	t.Helper()
	model := BuildReferenceModel()
	require.NoError(t, model.Validate())
	return NewAdapter(model)
}

func TestClassify_HighRiskProfile(t *testing.T) {
	adapter := newReferenceAdapter(t)

	result, err := adapter.Classify(types.FeatureVector{
		SoilType:          types.SoilClay,
		FloodFrequency:    4,
		RainfallIntensity: 220,
		ElevationCategory: types.ElevationLow,
		DistanceFromRiver: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, types.RiskHigh, result.RiskLevel)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
	assert.InDelta(t, 0.92, result.Probabilities[types.RiskHigh], 1e-9)
	assert.InDelta(t, 0.08, result.Probabilities[types.RiskMedium], 1e-9)
	assert.InDelta(t, 0.0, result.Probabilities[types.RiskLow], 1e-9)
	assert.Equal(t, ReferenceVersion, result.ModelVersion)
}

func TestClassify_LowRiskProfile(t *testing.T) {
	adapter := newReferenceAdapter(t)

	result, err := adapter.Classify(types.FeatureVector{
		SoilType:          types.SoilSand,
		FloodFrequency:    1,
		RainfallIntensity: 30,
		ElevationCategory: types.ElevationHigh,
		DistanceFromRiver: 5.0,
	})
	require.NoError(t, err)

	assert.Equal(t, types.RiskLow, result.RiskLevel)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
}

func TestClassify_MediumRiskProfile(t *testing.T) {
	adapter := newReferenceAdapter(t)

	// The default region's profile sits between the boundary thresholds;
	// the trees disagree and the averaged distribution lands on Medium.
	result, err := adapter.Classify(types.FeatureVector{
		SoilType:          types.SoilLoam,
		FloodFrequency:    1,
		RainfallIntensity: 100,
		ElevationCategory: types.ElevationMid,
		DistanceFromRiver: 2.0,
	})
	require.NoError(t, err)

	assert.Equal(t, types.RiskMedium, result.RiskLevel)
	assert.Greater(t, result.Probabilities[types.RiskMedium], result.Probabilities[types.RiskLow])
	assert.Greater(t, result.Probabilities[types.RiskLow], result.Probabilities[types.RiskHigh])
}

func TestClassify_ProbabilitiesSumToOne(t *testing.T) {
	adapter := newReferenceAdapter(t)

	vectors := []types.FeatureVector{
		{SoilType: types.SoilClay, FloodFrequency: 5, RainfallIntensity: 220, ElevationCategory: types.ElevationLow, DistanceFromRiver: 0.5},
		{SoilType: types.SoilSilt, FloodFrequency: 3, RainfallIntensity: 140, ElevationCategory: types.ElevationLow, DistanceFromRiver: 0.8},
		{SoilType: types.SoilLoam, FloodFrequency: 2, RainfallIntensity: 200, ElevationCategory: types.ElevationMid, DistanceFromRiver: 1.5},
		{SoilType: types.SoilSand, FloodFrequency: 0, RainfallIntensity: 40, ElevationCategory: types.ElevationMid, DistanceFromRiver: 5.0},
	}

	for _, fv := range vectors {
		result, err := adapter.Classify(fv)
		require.NoError(t, err)

		var sum float64
		for _, p := range result.Probabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.InDelta(t, result.Probabilities[result.RiskLevel], result.Confidence, 1e-12)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	adapter := newReferenceAdapter(t)
	fv := types.FeatureVector{
		SoilType:          types.SoilSilt,
		FloodFrequency:    3,
		RainfallIntensity: 140,
		ElevationCategory: types.ElevationLow,
		DistanceFromRiver: 0.8,
	}

	first, err := adapter.Classify(fv)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := adapter.Classify(fv)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassify_TieBreaksTowardHigherRisk(t *testing.T) {
	// A single-leaf tree with equal Low and High mass forces an exact tie.
	model := BuildReferenceModel()
	model.Trees = []Tree{{Nodes: []Node{{Feature: leafFeature, Counts: []float64{50, 0, 50}}}}}
	adapter := NewAdapter(model)

	result, err := adapter.Classify(types.FeatureVector{
		SoilType:          types.SoilLoam,
		FloodFrequency:    1,
		RainfallIntensity: 50,
		ElevationCategory: types.ElevationMid,
		DistanceFromRiver: 1.0,
	})
	require.NoError(t, err)

	assert.Equal(t, types.RiskHigh, result.RiskLevel)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestClassify_Unavailable(t *testing.T) {
	loadErr := errors.New("artifact missing")
	adapter := NewUnavailableAdapter(loadErr)

	assert.False(t, adapter.Available())
	assert.Equal(t, loadErr, adapter.LoadError())
	assert.Empty(t, adapter.ModelVersion())

	_, err := adapter.Classify(types.FeatureVector{
		SoilType:          types.SoilClay,
		FloodFrequency:    4,
		RainfallIntensity: 220,
		ElevationCategory: types.ElevationLow,
		DistanceFromRiver: 0.5,
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeModelUnavailable, appErr.Code)
	assert.ErrorIs(t, err, loadErr)
}

func TestClassify_RankedImportances(t *testing.T) {
	adapter := newReferenceAdapter(t)

	result, err := adapter.Classify(types.FeatureVector{
		SoilType:          types.SoilLoam,
		FloodFrequency:    1,
		RainfallIntensity: 50,
		ElevationCategory: types.ElevationMid,
		DistanceFromRiver: 2.0,
	})
	require.NoError(t, err)

	want := []string{
		"flood_frequency",
		"rainfall_intensity",
		"elevation_category",
		"soil_type",
		"distance_from_river",
	}
	require.Len(t, result.FeatureImportances, len(want))
	var total float64
	for i, fi := range result.FeatureImportances {
		assert.Equal(t, want[i], fi.Feature)
		total += fi.Importance
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestEncodeDecode_Roundtrip(t *testing.T) {
	model := BuildReferenceModel()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, model))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.NoError(t, decoded.Validate())

	assert.Equal(t, model.Version, decoded.Version)
	assert.Equal(t, model.Classes, decoded.Classes)
	assert.Equal(t, len(model.Trees), len(decoded.Trees))

	// The decoded artifact must classify identically.
	fv := types.FeatureVector{
		SoilType:          types.SoilClay,
		FloodFrequency:    4,
		RainfallIntensity: 220,
		ElevationCategory: types.ElevationLow,
		DistanceFromRiver: 0.5,
	}
	orig, err := NewAdapter(model).Classify(fv)
	require.NoError(t, err)
	again, err := NewAdapter(decoded).Classify(fv)
	require.NoError(t, err)
	assert.Equal(t, orig, again)
}

func TestValidate_RejectsBrokenModels(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Model)
	}{
		{"no version", func(m *Model) { m.Version = "" }},
		{"no classes", func(m *Model) { m.Classes = nil }},
		{"unknown class", func(m *Model) { m.Classes = []types.RiskLevel{"Catastrophic"} }},
		{"wrong feature count", func(m *Model) { m.Features = m.Features[:3] }},
		{"wrong feature order", func(m *Model) {
			m.Features = []string{"flood_frequency", "soil_type", "rainfall_intensity", "elevation_category", "distance_from_river"}
		}},
		{"no trees", func(m *Model) { m.Trees = nil }},
		{"empty tree", func(m *Model) { m.Trees = []Tree{{}} }},
		{"leaf count mismatch", func(m *Model) {
			m.Trees = []Tree{{Nodes: []Node{{Feature: leafFeature, Counts: []float64{1, 2}}}}}
		}},
		{"unknown feature index", func(m *Model) {
			m.Trees = []Tree{{Nodes: []Node{
				{Feature: 9, Threshold: 1, Left: 1, Right: 2},
				{Feature: leafFeature, Counts: []float64{1, 1, 1}},
				{Feature: leafFeature, Counts: []float64{1, 1, 1}},
			}}}
		}},
		{"child cycle", func(m *Model) {
			m.Trees = []Tree{{Nodes: []Node{
				{Feature: colSoilType, Threshold: 1, Left: 0, Right: 0},
			}}}
		}},
		{"no importances", func(m *Model) { m.Importances = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := BuildReferenceModel()
			tc.mutate(m)
			assert.Error(t, m.Validate())
		})
	}
}

func TestClassify_UnknownEncodingFails(t *testing.T) {
	adapter := newReferenceAdapter(t)

	_, err := adapter.Classify(types.FeatureVector{
		SoilType:          "granite",
		FloodFrequency:    1,
		RainfallIntensity: 50,
		ElevationCategory: types.ElevationMid,
		DistanceFromRiver: 1.0,
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalUnexpected, appErr.Code)
}
