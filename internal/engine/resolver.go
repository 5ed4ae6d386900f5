// Package engine implements the feature inference and risk classification
// pipeline: resolve -> classify -> explain -> assemble. Every request runs the
// chain as a short-lived pure computation over the read-only region table and
// model artifact; the engine performs no I/O and holds no per-request state.
package engine

import (
	"fmt"

	"soilsafe/internal/regions"
	"soilsafe/internal/types"
)

// Resolver produces one canonical, fully-populated feature vector from either
// explicit soil/flood parameters or a coordinate pair with an optional region
// hint. Resolution is purely functional given the static table.
type Resolver struct {
	table *regions.Table
}

// NewResolver creates a Resolver over the loaded regional feature table.
func NewResolver(table *regions.Table) *Resolver {
	return &Resolver{table: table}
}

// ResolveFeatures validates explicit caller-supplied features and passes them
// through unchanged. Violations fail with a validation error naming the
// offending field.
func (r *Resolver) ResolveFeatures(fv types.FeatureVector) (types.FeatureVector, types.Provenance, error) {
	if err := fv.Validate(); err != nil {
		return types.FeatureVector{}, types.Provenance{}, err
	}
	return fv, types.Provenance{Path: types.ResolutionDirect}, nil
}

// ResolveLocation infers a feature vector from a coordinate pair and optional
// region hint. The geographic gate is applied first: a coordinate outside the
// supported operating area fails with unsupported_region rather than being
// silently substituted with a default. Within the gate, precedence is fixed:
// exact region-name match, then the prioritized token rules, then the
// bounding-box lookup, then the designated default region — the last marked
// as a low-confidence inference in provenance.
func (r *Resolver) ResolveLocation(hint types.LocationHint) (types.FeatureVector, types.Provenance, error) {
	if err := types.ValidateCoordinates(hint.Latitude, hint.Longitude); err != nil {
		return types.FeatureVector{}, types.Provenance{}, err
	}
	if !types.InSupportedArea(hint.Latitude, hint.Longitude) {
		return types.FeatureVector{}, types.Provenance{}, types.NewAppErrorWithDetails(
			types.ErrCodeUnsupportedRegion,
			fmt.Sprintf("coordinates (%.4f, %.4f) are outside the supported operating area", hint.Latitude, hint.Longitude),
			nil,
			map[string]any{
				"latitude":  hint.Latitude,
				"longitude": hint.Longitude,
			},
		)
	}

	loc := &types.Coordinates{Latitude: hint.Latitude, Longitude: hint.Longitude}

	if hint.RegionName != "" {
		if entry, ok := r.table.Lookup(hint.RegionName); ok {
			return entry.Features, types.Provenance{
				Path:     types.ResolutionExactRegion,
				Region:   entry.Name,
				Location: loc,
			}, nil
		}
		if entry, ok := r.table.MatchToken(hint.RegionName); ok {
			return entry.Features, types.Provenance{
				Path:     types.ResolutionTokenMatch,
				Region:   entry.Name,
				Location: loc,
			}, nil
		}
	}

	if entry, ok := r.table.Locate(hint.Latitude, hint.Longitude); ok {
		return entry.Features, types.Provenance{
			Path:     types.ResolutionBoundingBox,
			Region:   entry.Name,
			Location: loc,
		}, nil
	}

	// Nothing matched inside the gate: substitute the designated default
	// region's profile, flagged so callers never mistake it for an exact
	// resolution.
	def := r.table.Default()
	return def.Features, types.Provenance{
		Path:     types.ResolutionDefaultFallback,
		Region:   def.Name,
		Location: loc,
	}, nil
}
