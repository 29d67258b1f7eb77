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

// projectKinds maps URL segments to estimate kinds
var projectKinds = map[string]domain.LaborEstimateKind{
	"expected":              domain.LaborEstimateExpected,
	"saved":                 domain.LaborEstimateSaved,
	"requested":             domain.LaborEstimateRequested,
	"expected-minus-saved":  domain.LaborEstimateExpectedMinusSaved,
	"saved-minus-requested": domain.LaborEstimateSavedMinusRequested,
}

// ProjectLaborEstimateHandler handles HTTP requests for project labor estimates
type ProjectLaborEstimateHandler struct {
	projectService *service.ProjectLaborEstimateService
	logger         *zap.Logger
}

// NewProjectLaborEstimateHandler creates a new ProjectLaborEstimateHandler instance
func NewProjectLaborEstimateHandler(projectService *service.ProjectLaborEstimateService, logger *zap.Logger) *ProjectLaborEstimateHandler {
	return &ProjectLaborEstimateHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// Get returns a project wide labor estimate. Only the saved view is available.
// @Summary Get project labor estimate
// @Description Sum the estimates of every module of a project. Views other than saved return 501.
// @Tags labor-estimate,projects
// @Produce json
// @Param id path string true "Project ID"
// @Param kind path string true "Estimate view" Enums(expected, saved, requested, expected-minus-saved, saved-minus-requested)
// @Success 200 {object} domain.LaborEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Failure 501 {object} domain.APIError
// @Router /projects/{id}/labor-estimate/{kind} [get]
// @Security BearerAuth
func (h *ProjectLaborEstimateHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	kind, ok := projectKinds[chi.URLParam(r, "kind")]
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown labor estimate view")
		return
	}

	estimate, err := h.projectService.GetLaborEstimate(r.Context(), projectID, kind)
	if err != nil {
		respondServiceError(w, err, "Failed to compute project labor estimate")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToLaborEstimateDTO(estimate))
}
