// Package classifier wraps the pre-trained soil risk model. The model is an
// offline, versioned artifact: a decision forest serialized as
// zstd-compressed JSON, produced by cmd/tools/genmodel and loaded read-only
// at startup. The adapter encodes feature vectors into the model's expected
// representation, averages the per-tree class distributions, and derives the
// risk level, confidence, and static feature importances.
package classifier

import (
	"fmt"

	"soilsafe/internal/types"
)

// Feature column order expected by the model. Encoded vectors are indexed by
// these positions; the artifact's feature list must match exactly.
const (
	colSoilType = iota
	colFloodFrequency
	colRainfallIntensity
	colElevationCategory
	colDistanceFromRiver
	numFeatures
)

// FeatureColumns lists the model's input features in column order.
var FeatureColumns = []string{
	"soil_type",
	"flood_frequency",
	"rainfall_intensity",
	"elevation_category",
	"distance_from_river",
}

// leafFeature marks a tree node as a leaf.
const leafFeature = -1

// Node is one node of a serialized decision tree. Internal nodes test
// x[Feature] <= Threshold and descend to Left on true, Right on false.
// Leaves carry per-class sample counts in the artifact's class order.
type Node struct {
	Feature   int       `json:"feature"` // -1 for leaves
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Counts    []float64 `json:"counts,omitempty"`
}

// Tree is a single decision tree, stored as a flat node array rooted at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Model is the deserialized classifier artifact.
type Model struct {
	Version           string                              `json:"version"`
	Algorithm         string                              `json:"algorithm"`
	Classes           []types.RiskLevel                   `json:"classes"`
	Features          []string                            `json:"features"`
	SoilEncoding      map[types.SoilType]float64          `json:"soil_encoding"`
	ElevationEncoding map[types.ElevationCategory]float64 `json:"elevation_encoding"`
	Trees             []Tree                              `json:"trees"`
	Importances       map[string]float64                  `json:"importances"`
}

// Validate checks the structural invariants the adapter relies on. A model
// that fails validation is treated the same as one that failed to load.
func (m *Model) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("model has no version")
	}
	if len(m.Classes) == 0 {
		return fmt.Errorf("model has no classes")
	}
	for _, c := range m.Classes {
		if !c.Valid() {
			return fmt.Errorf("model declares unknown class %q", c)
		}
	}
	if len(m.Features) != numFeatures {
		return fmt.Errorf("model declares %d features, want %d", len(m.Features), numFeatures)
	}
	for i, f := range m.Features {
		if f != FeatureColumns[i] {
			return fmt.Errorf("model feature column %d is %q, want %q", i, f, FeatureColumns[i])
		}
	}
	if len(m.Trees) == 0 {
		return fmt.Errorf("model has no trees")
	}
	for ti, tree := range m.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range tree.Nodes {
			if n.Feature == leafFeature {
				if len(n.Counts) != len(m.Classes) {
					return fmt.Errorf("tree %d leaf %d has %d counts, want %d", ti, ni, len(n.Counts), len(m.Classes))
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= numFeatures {
				return fmt.Errorf("tree %d node %d tests unknown feature %d", ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Left >= len(tree.Nodes) || n.Right <= ni || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has out-of-range children", ti, ni)
			}
		}
	}
	if len(m.Importances) == 0 {
		return fmt.Errorf("model has no feature importances")
	}
	return nil
}

// encode maps a validated feature vector onto the model's numeric columns.
func (m *Model) encode(fv types.FeatureVector) ([numFeatures]float64, error) {
	var x [numFeatures]float64

	soil, ok := m.SoilEncoding[fv.SoilType]
	if !ok {
		return x, fmt.Errorf("soil type %q missing from model encoding", fv.SoilType)
	}
	elev, ok := m.ElevationEncoding[fv.ElevationCategory]
	if !ok {
		return x, fmt.Errorf("elevation category %q missing from model encoding", fv.ElevationCategory)
	}

	x[colSoilType] = soil
	x[colFloodFrequency] = float64(fv.FloodFrequency)
	x[colRainfallIntensity] = fv.RainfallIntensity
	x[colElevationCategory] = elev
	x[colDistanceFromRiver] = fv.DistanceFromRiver
	return x, nil
}

// walk descends one tree and returns the leaf's class counts.
func (t Tree) walk(x [numFeatures]float64) []float64 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Feature == leafFeature {
			return n.Counts
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}
