package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/straye-as/staffing-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectLaborEstimateService aggregates module estimates over a whole project
type ProjectLaborEstimateService struct {
	projectRepo   *repository.ProjectRepository
	moduleRepo    *repository.ModuleRepository
	moduleService *LaborEstimateService
	logger        *zap.Logger
}

// NewProjectLaborEstimateService creates a new ProjectLaborEstimateService instance
func NewProjectLaborEstimateService(
	projectRepo *repository.ProjectRepository,
	moduleRepo *repository.ModuleRepository,
	moduleService *LaborEstimateService,
	logger *zap.Logger,
) *ProjectLaborEstimateService {
	return &ProjectLaborEstimateService{
		projectRepo:   projectRepo,
		moduleRepo:    moduleRepo,
		moduleService: moduleService,
		logger:        logger,
	}
}

// GetLaborEstimate returns the project view of the given kind. Only the saved view
// is supported; every other kind returns ErrNotImplemented.
func (s *ProjectLaborEstimateService) GetLaborEstimate(ctx context.Context, projectID uuid.UUID, kind domain.LaborEstimateKind) (*domain.LaborEstimate, error) {
	if kind == domain.LaborEstimateSaved {
		return s.GetSavedLaborEstimate(ctx, projectID)
	}
	if !domain.IsValidLaborEstimateKind(string(kind)) {
		return nil, fmt.Errorf("%w: unknown labor estimate kind %q", ErrInvalidInput, kind)
	}
	return nil, fmt.Errorf("%w: project %s labor estimate", ErrNotImplemented, kind)
}

// GetSavedLaborEstimate folds the saved estimates of every module of the project into
// one. Hours and workers are summed per position; the calendar spans all modules.
// Positions are ordered by summed hours, largest first.
func (s *ProjectLaborEstimateService) GetSavedLaborEstimate(ctx context.Context, projectID uuid.UUID) (*domain.LaborEstimate, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	modules, err := s.moduleRepo.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("Failed to list project modules",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list project modules: %w", err)
	}

	result := &domain.LaborEstimate{Kind: domain.LaborEstimateSaved}
	for i, module := range modules {
		saved, err := s.moduleService.GetSavedLaborEstimate(ctx, module.ID)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			result = saved
			continue
		}
		result = domain.CombineLaborEstimates(result, saved)
	}

	result.SortByHoursDesc()
	return result, nil
}

// GetExpectedLaborEstimate is not supported for projects
func (s *ProjectLaborEstimateService) GetExpectedLaborEstimate(ctx context.Context, projectID uuid.UUID) (*domain.LaborEstimate, error) {
	return s.GetLaborEstimate(ctx, projectID, domain.LaborEstimateExpected)
}

// GetRequestedLaborEstimate is not supported for projects
func (s *ProjectLaborEstimateService) GetRequestedLaborEstimate(ctx context.Context, projectID uuid.UUID) (*domain.LaborEstimate, error) {
	return s.GetLaborEstimate(ctx, projectID, domain.LaborEstimateRequested)
}
