package engine

import (
	"fmt"

	"soilsafe/internal/types"
)

// Disclaimer is the fixed advisory text attached to every response.
const Disclaimer = "Predictions are indicative and based on regional data. Not a substitute for on-site testing."

// Risk-elevating thresholds. A feature whose value crosses its threshold is
// surfaced to the caller as an influencing factor.
const (
	// FloodFrequencyThreshold is the recurrence count above which flooding is
	// treated as frequent.
	FloodFrequencyThreshold = 3
	// RainfallThresholdMM approximates the regional 90th-percentile 24h
	// rainfall; readings at or above it count as heavy rain.
	RainfallThresholdMM = 100.0
	// RiverDistanceThresholdKM is the proximity below which river exposure is
	// considered direct.
	RiverDistanceThresholdKM = 1.0
	// topFactorCount bounds how many features the explanation sentence names.
	topFactorCount = 2
)

// recommendations is the fixed lookup keyed by risk level. Messages are never
// generated dynamically so the full set of safety texts stays bounded and
// auditable.
var recommendations = map[types.RiskLevel]string{
	types.RiskHigh:   "High risk: Restrict access and seek a professional geotechnical inspection before re-using the land. Avoid heavy machinery and replanting until cleared.",
	types.RiskMedium: "Moderate risk: Schedule an inspection, reduce heavy loads, and monitor for settlement or waterlogging. Take precautions before replanting.",
	types.RiskLow:    "Low risk: Routine checks recommended. Continue with caution and schedule a follow-up inspection if conditions change.",
}

// RecommendationFor returns the fixed safety recommendation for a risk level.
func RecommendationFor(level types.RiskLevel) string {
	return recommendations[level]
}

// Compose turns the classifier output and resolved features into the
// human-readable parts of the response: a templated explanation naming the
// top contributing factors with their observed values, the fixed
// recommendation for the risk class, and the threshold-filtered influencing
// factor statements ordered by feature importance.
func Compose(fv types.FeatureVector, result types.ClassificationResult, prov types.Provenance) (explanation, recommendation string, factors []string) {
	explanation = composeExplanation(fv, result, prov)
	recommendation = RecommendationFor(result.RiskLevel)
	factors = influencingFactors(fv, result)
	return explanation, recommendation, factors
}

// composeExplanation renders one sentence per top-ranked feature, then
// appends resolution context for location-based requests.
func composeExplanation(fv types.FeatureVector, result types.ClassificationResult, prov types.Provenance) string {
	var out string
	n := 0
	for _, fi := range result.FeatureImportances {
		if n == topFactorCount {
			break
		}
		sentence := featureSentence(fv, fi.Feature)
		if sentence == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += sentence
		n++
	}

	if prov.Region != "" {
		out += fmt.Sprintf(" Region: %s.", prov.Region)
	}
	if prov.Path == types.ResolutionDefaultFallback {
		out += " Regional profile is a default estimate; treat this result with reduced confidence."
	}
	return out
}

// featureSentence renders the observation template for one feature.
func featureSentence(fv types.FeatureVector, feature string) string {
	switch feature {
	case "soil_type":
		return fmt.Sprintf("Soil type '%s' can affect post-flood stability.", fv.SoilType)
	case "flood_frequency":
		if fv.FloodFrequency >= FloodFrequencyThreshold {
			return fmt.Sprintf("Frequent flooding (%d times) increases saturation and erosion risk.", fv.FloodFrequency)
		}
		return fmt.Sprintf("Flood occurrences (%d times) are a contributing factor.", fv.FloodFrequency)
	case "rainfall_intensity":
		if fv.RainfallIntensity >= RainfallThresholdMM {
			return fmt.Sprintf("Heavy rainfall (%.0f mm) raises landslip and saturation risk.", fv.RainfallIntensity)
		}
		return fmt.Sprintf("Rainfall intensity (%.0f mm) influences soil moisture.", fv.RainfallIntensity)
	case "elevation_category":
		if fv.ElevationCategory == types.ElevationLow || fv.ElevationCategory == types.ElevationMid {
			return fmt.Sprintf("Lower elevation ('%s') is more flood-prone and increases risk.", fv.ElevationCategory)
		}
		return fmt.Sprintf("Elevation ('%s') provides some protection against flooding.", fv.ElevationCategory)
	case "distance_from_river":
		if fv.DistanceFromRiver < RiverDistanceThresholdKM {
			return fmt.Sprintf("Very close to river (%.1f km) which raises flood exposure.", fv.DistanceFromRiver)
		}
		return fmt.Sprintf("Distance from river (%.1f km) affects exposure.", fv.DistanceFromRiver)
	}
	return ""
}

// influencingFactors lists each feature whose value crosses its documented
// risk-elevating threshold, as short factual statements. Order follows the
// feature-importance ranking; features below their thresholds are filtered
// out, so the list may be empty.
func influencingFactors(fv types.FeatureVector, result types.ClassificationResult) []string {
	factors := make([]string, 0, len(result.FeatureImportances))
	for _, fi := range result.FeatureImportances {
		switch fi.Feature {
		case "flood_frequency":
			if fv.FloodFrequency >= FloodFrequencyThreshold {
				factors = append(factors, fmt.Sprintf(
					"Flood frequency of %d meets or exceeds the elevated-risk threshold of %d occurrences.",
					fv.FloodFrequency, FloodFrequencyThreshold))
			}
		case "rainfall_intensity":
			if fv.RainfallIntensity >= RainfallThresholdMM {
				factors = append(factors, fmt.Sprintf(
					"Rainfall intensity of %.0f mm is at or above the heavy-rain threshold of %.0f mm.",
					fv.RainfallIntensity, RainfallThresholdMM))
			}
		case "elevation_category":
			if fv.ElevationCategory == types.ElevationLow {
				factors = append(factors, "Site sits in the low elevation band, the most flood-prone category.")
			}
		case "soil_type":
			if fv.SoilType.Cohesive() {
				factors = append(factors, fmt.Sprintf(
					"Cohesive %s soil drains poorly and stays saturated after flooding.", fv.SoilType))
			}
		case "distance_from_river":
			if fv.DistanceFromRiver < RiverDistanceThresholdKM {
				factors = append(factors, fmt.Sprintf(
					"Site is %.1f km from the nearest river, inside the %.1f km direct-exposure band.",
					fv.DistanceFromRiver, RiverDistanceThresholdKM))
			}
		}
	}
	return factors
}
