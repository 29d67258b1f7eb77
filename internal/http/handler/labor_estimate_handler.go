package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/straye-as/staffing-api/internal/mapper"
	"github.com/straye-as/staffing-api/internal/service"
	"go.uber.org/zap"
)

// LaborEstimateHandler handles HTTP requests for module labor estimates
type LaborEstimateHandler struct {
	laborEstimateService *service.LaborEstimateService
	logger               *zap.Logger
}

// NewLaborEstimateHandler creates a new LaborEstimateHandler instance
func NewLaborEstimateHandler(laborEstimateService *service.LaborEstimateService, logger *zap.Logger) *LaborEstimateHandler {
	return &LaborEstimateHandler{
		laborEstimateService: laborEstimateService,
		logger:               logger,
	}
}

// GetExpected returns the estimate derived from the module's complexity points
// @Summary Get expected labor estimate
// @Description Compute hours and workers per position from the complexity points of a module
// @Tags labor-estimate
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} domain.LaborEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/expected [get]
// @Security BearerAuth
func (h *LaborEstimateHandler) GetExpected(w http.ResponseWriter, r *http.Request) {
	h.getEstimate(w, r, domain.LaborEstimateExpected)
}

// GetSaved returns the confirmed estimate of a module
// @Summary Get saved labor estimate
// @Tags labor-estimate
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} domain.LaborEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/saved [get]
// @Security BearerAuth
func (h *LaborEstimateHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	h.getEstimate(w, r, domain.LaborEstimateSaved)
}

// GetRequested returns the headcount requested for a module by open and closed requests
// @Summary Get requested labor estimate
// @Tags labor-estimate
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} domain.LaborEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/requested [get]
// @Security BearerAuth
func (h *LaborEstimateHandler) GetRequested(w http.ResponseWriter, r *http.Request) {
	h.getEstimate(w, r, domain.LaborEstimateRequested)
}

// GetExpectedMinusSaved returns how far the saved estimate is from the expected one
// @Summary Get expected minus saved labor estimate
// @Tags labor-estimate
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} domain.LaborEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/expected-minus-saved [get]
// @Security BearerAuth
func (h *LaborEstimateHandler) GetExpectedMinusSaved(w http.ResponseWriter, r *http.Request) {
	h.getEstimate(w, r, domain.LaborEstimateExpectedMinusSaved)
}

// GetSavedMinusRequested returns the saved headcount not yet covered by requests
// @Summary Get saved minus requested labor estimate
// @Tags labor-estimate
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} domain.LaborEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/saved-minus-requested [get]
// @Security BearerAuth
func (h *LaborEstimateHandler) GetSavedMinusRequested(w http.ResponseWriter, r *http.Request) {
	h.getEstimate(w, r, domain.LaborEstimateSavedMinusRequested)
}

func (h *LaborEstimateHandler) getEstimate(w http.ResponseWriter, r *http.Request, kind domain.LaborEstimateKind) {
	moduleID, ok := parseModuleID(w, r)
	if !ok {
		return
	}

	estimate, err := h.laborEstimateService.GetLaborEstimate(r.Context(), moduleID, kind)
	if err != nil {
		respondServiceError(w, err, "Failed to compute labor estimate")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLaborEstimateDTO(estimate))
}

// UpdateSaved replaces the saved estimate of a module
// @Summary Update saved labor estimate
// @Description Replace every saved position of a module with the given ones
// @Tags labor-estimate
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param request body domain.UpdateSavedLaborEstimateRequest true "Saved positions"
// @Success 200 {object} domain.LaborEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/saved [put]
// @Security BearerAuth
func (h *LaborEstimateHandler) UpdateSaved(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseModuleID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateSavedLaborEstimateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	estimate, err := h.laborEstimateService.UpdateSavedLaborEstimate(r.Context(), moduleID, req)
	if err != nil {
		respondServiceError(w, err, "Failed to update saved labor estimate")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLaborEstimateDTO(estimate))
}

// SaveExpected makes the expected estimate the saved one
// @Summary Save expected labor estimate
// @Description Replace the saved estimate with the expected one. Returns 204 when they already match.
// @Tags labor-estimate
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} domain.LaborEstimateDTO
// @Success 204 "Saved estimate already matches"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/expected/save [post]
// @Security BearerAuth
func (h *LaborEstimateHandler) SaveExpected(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseModuleID(w, r)
	if !ok {
		return
	}

	changed, err := h.laborEstimateService.SetExpectedLaborEstimateAsSaved(r.Context(), moduleID)
	if err != nil {
		respondServiceError(w, err, "Failed to save expected labor estimate")
		return
	}
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	saved, err := h.laborEstimateService.GetSavedLaborEstimate(r.Context(), moduleID)
	if err != nil {
		respondServiceError(w, err, "Failed to get saved labor estimate")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLaborEstimateDTO(saved))
}

// CreateRequest requests the saved headcount that is not yet requested
// @Summary Create staffing request from saved labor estimate
// @Description Create one staffing request for every position whose saved workers exceed the requested ones. Returns 204 when nothing is missing.
// @Tags labor-estimate
// @Produce json
// @Param id path string true "Module ID"
// @Success 201 {object} domain.StaffingRequestDTO
// @Success 204 "Saved estimate already requested"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /modules/{id}/labor-estimate/requests [post]
// @Security BearerAuth
func (h *LaborEstimateHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseModuleID(w, r)
	if !ok {
		return
	}

	request, err := h.laborEstimateService.CreateRequestForSavedLaborEstimate(r.Context(), moduleID)
	if err != nil {
		respondServiceError(w, err, "Failed to create staffing request")
		return
	}
	if request == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, http.StatusCreated, mapper.ToStaffingRequestDTO(request))
}

func parseModuleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid module ID")
		return uuid.Nil, false
	}
	return id, true
}
