// Package handlers contains the HTTP handlers for the SoilSafe API. Handlers
// translate between the wire contracts and the assessment engine; all domain
// logic lives behind the service interfaces so handlers stay thin and
// testable.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"soilsafe/internal/core"
	"soilsafe/internal/types"
)

// AssessmentService defines the engine operations the handlers depend on.
type AssessmentService interface {
	AssessFeatures(ctx context.Context, fv types.FeatureVector) (*types.RiskResponse, error)
	AssessLocation(ctx context.Context, hint types.LocationHint) (*types.RiskResponse, error)
}

// AssessmentHandler serves the risk assessment endpoints, both the modern
// /v1 contract and the legacy /predict contract.
type AssessmentHandler struct {
	server  *core.Server
	service AssessmentService
}

// NewAssessmentHandler creates a handler with its dependencies injected.
func NewAssessmentHandler(server *core.Server, service AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{server: server, service: service}
}

// RegisterRoutes mounts the assessment endpoints under the /v1 group.
func (h *AssessmentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/assessments", h.HandleAssessFeatures)
	r.Post("/assessments/location", h.HandleAssessLocation)
}

// RegisterLegacyRoutes mounts the compatibility route kept for callers that
// predate the /v1 namespace.
func (h *AssessmentHandler) RegisterLegacyRoutes(r chi.Router) {
	r.Post("/predict", h.HandleLegacyPredict)
}

// assessmentRequest is the modern feature-based request schema. Pointer
// fields distinguish absent from zero-valued input; distance_from_river is
// optional and defaults to 0.
type assessmentRequest struct {
	SoilType          *string  `json:"soil_type"`
	FloodFrequency    *int     `json:"flood_frequency"`
	RainfallIntensity *float64 `json:"rainfall_intensity"`
	ElevationCategory *string  `json:"elevation_category"`
	DistanceFromRiver *float64 `json:"distance_from_river"`
}

func (req assessmentRequest) vector() (types.FeatureVector, []string) {
	var missing []string
	if req.SoilType == nil {
		missing = append(missing, "soil_type")
	}
	if req.FloodFrequency == nil {
		missing = append(missing, "flood_frequency")
	}
	if req.RainfallIntensity == nil {
		missing = append(missing, "rainfall_intensity")
	}
	if req.ElevationCategory == nil {
		missing = append(missing, "elevation_category")
	}
	if len(missing) > 0 {
		return types.FeatureVector{}, missing
	}

	fv := types.FeatureVector{
		SoilType:          types.SoilType(normalize(*req.SoilType)),
		FloodFrequency:    *req.FloodFrequency,
		RainfallIntensity: *req.RainfallIntensity,
		ElevationCategory: types.ElevationCategory(normalize(*req.ElevationCategory)),
	}
	if req.DistanceFromRiver != nil {
		fv.DistanceFromRiver = *req.DistanceFromRiver
	}
	return fv, nil
}

// legacyAssessmentRequest is the field naming used by pre-v1 clients.
type legacyAssessmentRequest struct {
	Soil          *string  `json:"soil"`
	FloodFreq     *int     `json:"flood_freq"`
	Rainfall      *float64 `json:"rainfall"`
	Elevation     *string  `json:"elevation"`
	RiverDistance *float64 `json:"river_distance"`
}

func (req legacyAssessmentRequest) vector() (types.FeatureVector, bool) {
	if req.Soil == nil || req.FloodFreq == nil || req.Rainfall == nil || req.Elevation == nil {
		return types.FeatureVector{}, false
	}

	fv := types.FeatureVector{
		SoilType:          types.SoilType(normalize(*req.Soil)),
		FloodFrequency:    *req.FloodFreq,
		RainfallIntensity: *req.Rainfall,
		ElevationCategory: types.ElevationCategory(normalize(*req.Elevation)),
	}
	if req.RiverDistance != nil {
		fv.DistanceFromRiver = *req.RiverDistance
	}
	return fv, true
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Region    string   `json:"region"`
}

// HandleAssessFeatures serves POST /v1/assessments. A body carrying the
// legacy field names instead of the modern ones is decoded a second time
// against the legacy schema before the request is rejected; this retry
// happens at most once and only when the modern decode reports missing
// fields.
func (h *AssessmentHandler) HandleAssessFeatures(w http.ResponseWriter, r *http.Request) {
	fv, err := decodeFeatureBody(w, r)
	if err != nil {
		h.server.Error(w, r, err)
		return
	}

	resp, err := h.service.AssessFeatures(r.Context(), fv)
	if err != nil {
		h.server.Error(w, r, err)
		return
	}

	h.server.JSON(w, r, http.StatusOK, resp)
}

// HandleAssessLocation serves POST /v1/assessments/location.
func (h *AssessmentHandler) HandleAssessLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		h.server.Error(w, r, err)
		return
	}

	var missing []string
	if req.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if req.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		h.server.Error(w, r, types.NewMissingFieldError(missing...))
		return
	}

	hint := types.LocationHint{
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		RegionName: normalize(req.Region),
	}

	resp, err := h.service.AssessLocation(r.Context(), hint)
	if err != nil {
		h.server.Error(w, r, err)
		return
	}

	h.server.JSON(w, r, http.StatusOK, resp)
}

// HandleLegacyPredict serves POST /predict. It accepts either field naming
// and returns the reduced legacy contract.
func (h *AssessmentHandler) HandleLegacyPredict(w http.ResponseWriter, r *http.Request) {
	fv, err := decodeFeatureBody(w, r)
	if err != nil {
		h.server.Error(w, r, err)
		return
	}

	resp, err := h.service.AssessFeatures(r.Context(), fv)
	if err != nil {
		h.server.Error(w, r, err)
		return
	}

	h.server.JSON(w, r, http.StatusOK, resp.Legacy())
}

// decodeFeatureBody decodes a feature-based request, preferring the modern
// schema and falling back to the legacy one when the modern decode comes up
// short. The missing-field error always names the modern field names.
func decodeFeatureBody(w http.ResponseWriter, r *http.Request) (types.FeatureVector, error) {
	body, err := core.ReadBody(w, r)
	if err != nil {
		return types.FeatureVector{}, err
	}

	var req assessmentRequest
	if err := core.UnmarshalBody(body, &req); err != nil {
		return types.FeatureVector{}, err
	}

	fv, missing := req.vector()
	if len(missing) == 0 {
		return fv, nil
	}

	var legacy legacyAssessmentRequest
	if err := core.UnmarshalBody(body, &legacy); err == nil {
		if lfv, ok := legacy.vector(); ok {
			return lfv, nil
		}
	}

	return types.FeatureVector{}, types.NewMissingFieldError(missing...)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
