package classifier

import "soilsafe/internal/types"

// ReferenceVersion identifies the bundled reference artifact. Bump when the
// splits, encodings, or leaf distributions change.
const ReferenceVersion = "2026.08.1"

// split describes one level of a reference tree. Each tree tests every
// feature exactly once, so a tree is a complete binary tree over its splits.
// riskOnHigh selects which branch counts toward the risk score: values above
// the threshold for most features, values below it for distance_from_river.
type split struct {
	feature    int
	threshold  float64
	riskOnHigh bool
}

// leafCounts maps a risk score (number of risk branches taken, 0..5) to
// per-class sample counts in [Low, Medium, High] order. Scores near the
// class boundaries carry mixed counts so that confidence degrades smoothly.
var leafCounts = [][]float64{
	{92, 7, 1},
	{78, 20, 2},
	{18, 72, 10},
	{6, 70, 24},
	{2, 18, 80},
	{0, 8, 92},
}

// referenceSplits defines the three trees of the bundled forest. The trees
// share the cohesive-soil split and vary the numeric thresholds so the
// averaged distribution softens around the decision boundaries.
var referenceSplits = [][]split{
	{
		{colSoilType, 1.5, true},
		{colFloodFrequency, 2.5, true},
		{colRainfallIntensity, 99.5, true},
		{colElevationCategory, 0.5, true},
		{colDistanceFromRiver, 0.995, false},
	},
	{
		{colSoilType, 1.5, true},
		{colFloodFrequency, 3.5, true},
		{colRainfallIntensity, 89.5, true},
		{colElevationCategory, 0.5, true},
		{colDistanceFromRiver, 1.25, false},
	},
	{
		{colSoilType, 1.5, true},
		{colFloodFrequency, 2.5, true},
		{colRainfallIntensity, 109.5, true},
		{colElevationCategory, 1.5, true},
		{colDistanceFromRiver, 0.75, false},
	},
}

// BuildReferenceModel constructs the bundled reference forest. It is the
// in-repo counterpart of the offline training pipeline: the label rule is the
// additive five-factor score used to build the regional training set
// (cohesive soil, flood recurrence, heavy rainfall, low-lying ground, river
// proximity), expressed as complete decision trees with mixed-count leaves.
func BuildReferenceModel() *Model {
	trees := make([]Tree, 0, len(referenceSplits))
	for _, splits := range referenceSplits {
		trees = append(trees, buildScoreTree(splits))
	}

	return &Model{
		Version:   ReferenceVersion,
		Algorithm: "decision_forest",
		Classes:   []types.RiskLevel{types.RiskLow, types.RiskMedium, types.RiskHigh},
		Features:  FeatureColumns,
		SoilEncoding: map[types.SoilType]float64{
			types.SoilSand: 0,
			types.SoilLoam: 1,
			types.SoilSilt: 2,
			types.SoilClay: 3,
		},
		ElevationEncoding: map[types.ElevationCategory]float64{
			types.ElevationHigh: 0,
			types.ElevationMid:  1,
			types.ElevationLow:  2,
		},
		Trees: trees,
		Importances: map[string]float64{
			"flood_frequency":     0.30,
			"rainfall_intensity":  0.26,
			"elevation_category":  0.20,
			"soil_type":           0.14,
			"distance_from_river": 0.10,
		},
	}
}

// buildScoreTree expands the splits into a complete binary tree whose leaves
// carry the leafCounts row for the accumulated risk score.
func buildScoreTree(splits []split) Tree {
	var nodes []Node
	var build func(level, score int) int
	build = func(level, score int) int {
		if level == len(splits) {
			nodes = append(nodes, Node{Feature: leafFeature, Counts: leafCounts[score]})
			return len(nodes) - 1
		}
		s := splits[level]
		idx := len(nodes)
		nodes = append(nodes, Node{Feature: s.feature, Threshold: s.threshold})

		leftScore, rightScore := score, score
		if s.riskOnHigh {
			rightScore++
		} else {
			leftScore++
		}
		nodes[idx].Left = build(level+1, leftScore)
		nodes[idx].Right = build(level+1, rightScore)
		return idx
	}
	build(0, 0)
	return Tree{Nodes: nodes}
}
