package classifier

import (
	"sort"

	"soilsafe/internal/types"
)

// Adapter exposes the loaded model behind the engine's classification
// contract. An adapter whose artifact failed to load stays constructible so
// the process can keep serving health checks, but every Classify call fails
// fast with a model_unavailable error; the adapter never falls back to a
// heuristic silently.
//
// The adapter holds only immutable state after construction and is safe for
// unsynchronized concurrent use.
type Adapter struct {
	model   *Model
	loadErr error
}

// NewAdapter wraps a successfully loaded model.
func NewAdapter(m *Model) *Adapter {
	return &Adapter{model: m}
}

// NewUnavailableAdapter records a startup load failure. The original error is
// retained for the health probe; callers receive a typed AppError.
func NewUnavailableAdapter(loadErr error) *Adapter {
	return &Adapter{loadErr: loadErr}
}

// Available reports whether the model artifact loaded successfully.
func (a *Adapter) Available() bool {
	return a.model != nil
}

// LoadError returns the startup load failure, if any.
func (a *Adapter) LoadError() error {
	return a.loadErr
}

// ModelVersion returns the artifact version, or "" when unavailable.
func (a *Adapter) ModelVersion() string {
	if a.model == nil {
		return ""
	}
	return a.model.Version
}

// Classify encodes the feature vector, averages the per-tree class
// distributions, and derives the arg-max risk level. Ties are broken by a
// fixed class-priority order (High > Medium > Low) to bias toward caution.
// The classifier is deterministic: identical vectors yield identical results.
func (a *Adapter) Classify(fv types.FeatureVector) (types.ClassificationResult, error) {
	if a.model == nil {
		return types.ClassificationResult{}, types.NewAppError(
			types.ErrCodeModelUnavailable,
			"classifier model is not loaded",
			a.loadErr,
		)
	}

	x, err := a.model.encode(fv)
	if err != nil {
		return types.ClassificationResult{}, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"feature encoding failed",
			err,
		)
	}

	// Accumulate normalized leaf distributions across the forest.
	sums := make([]float64, len(a.model.Classes))
	for _, tree := range a.model.Trees {
		counts := tree.walk(x)
		var total float64
		for _, c := range counts {
			total += c
		}
		if total == 0 {
			continue
		}
		for i, c := range counts {
			sums[i] += c / total
		}
	}

	var grand float64
	for _, s := range sums {
		grand += s
	}
	if grand == 0 {
		return types.ClassificationResult{}, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"model produced an empty distribution",
			nil,
		)
	}

	probs := make(map[types.RiskLevel]float64, len(a.model.Classes))
	for i, class := range a.model.Classes {
		probs[class] = sums[i] / grand
	}

	winner := argmax(probs)

	return types.ClassificationResult{
		RiskLevel:          winner,
		Confidence:         probs[winner],
		Probabilities:      probs,
		FeatureImportances: a.rankedImportances(),
		ModelVersion:       a.model.Version,
	}, nil
}

// argmax picks the class with the largest probability mass. Classes are
// scanned in descending priority order so that exact ties resolve to the more
// cautious class.
func argmax(probs map[types.RiskLevel]float64) types.RiskLevel {
	ordered := []types.RiskLevel{types.RiskHigh, types.RiskMedium, types.RiskLow}
	best := ordered[0]
	bestP := probs[best]
	for _, class := range ordered[1:] {
		if probs[class] > bestP {
			best = class
			bestP = probs[class]
		}
	}
	return best
}

// rankedImportances returns the model's static per-version importances sorted
// descending, name-ascending on equal weight for a stable order.
func (a *Adapter) rankedImportances() []types.FeatureImportance {
	ranked := make([]types.FeatureImportance, 0, len(a.model.Importances))
	for feature, imp := range a.model.Importances {
		ranked = append(ranked, types.FeatureImportance{Feature: feature, Importance: imp})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Importance != ranked[j].Importance {
			return ranked[i].Importance > ranked[j].Importance
		}
		return ranked[i].Feature < ranked[j].Feature
	})
	return ranked
}
