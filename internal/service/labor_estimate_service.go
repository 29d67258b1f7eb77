package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/straye-as/staffing-api/internal/logger"
	"github.com/straye-as/staffing-api/internal/metrics"
	"github.com/straye-as/staffing-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// staffingRequestComment is attached to requests created from the saved estimate
const staffingRequestComment = "Created from saved labor estimate"

// LaborEstimateService computes the labor estimate views of a module and reconciles
// the saved estimate and staffing requests with them
type LaborEstimateService struct {
	db                *gorm.DB
	moduleRepo        *repository.ModuleRepository
	pointRepo         *repository.ComplexityPointRepository
	laborEstimateRepo *repository.LaborEstimateRepository
	requestRepo       *repository.StaffingRequestRepository
	positionRepo      *repository.PositionRepository
	metrics           *metrics.Manager
	logger            *zap.Logger
}

// NewLaborEstimateService creates a new LaborEstimateService instance
func NewLaborEstimateService(
	db *gorm.DB,
	moduleRepo *repository.ModuleRepository,
	pointRepo *repository.ComplexityPointRepository,
	laborEstimateRepo *repository.LaborEstimateRepository,
	requestRepo *repository.StaffingRequestRepository,
	positionRepo *repository.PositionRepository,
	metricsManager *metrics.Manager,
	log *zap.Logger,
) *LaborEstimateService {
	return &LaborEstimateService{
		db:                db,
		moduleRepo:        moduleRepo,
		pointRepo:         pointRepo,
		laborEstimateRepo: laborEstimateRepo,
		requestRepo:       requestRepo,
		positionRepo:      positionRepo,
		metrics:           metricsManager,
		logger:            log,
	}
}

// estimateReader builds estimate views from repositories bound to a single
// connection or transaction, so every view of one action sees the same snapshot
type estimateReader struct {
	moduleRepo  *repository.ModuleRepository
	pointRepo   *repository.ComplexityPointRepository
	savedRepo   *repository.LaborEstimateRepository
	requestRepo *repository.StaffingRequestRepository
}

func (s *LaborEstimateService) reader() *estimateReader {
	return &estimateReader{
		moduleRepo:  s.moduleRepo,
		pointRepo:   s.pointRepo,
		savedRepo:   s.laborEstimateRepo,
		requestRepo: s.requestRepo,
	}
}

func (s *LaborEstimateService) readerTx(tx *gorm.DB) *estimateReader {
	return &estimateReader{
		moduleRepo:  s.moduleRepo.WithTx(tx),
		pointRepo:   s.pointRepo.WithTx(tx),
		savedRepo:   s.laborEstimateRepo.WithTx(tx),
		requestRepo: s.requestRepo.WithTx(tx),
	}
}

func (r *estimateReader) module(ctx context.Context, moduleID uuid.UUID) (*domain.Module, error) {
	module, err := r.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, moduleLookupError(moduleID, err)
	}
	return module, nil
}

// lockModule loads the module and holds its row lock until the transaction ends.
// Reconciliation actions on one module are serialized by this lock.
func (r *estimateReader) lockModule(ctx context.Context, moduleID uuid.UUID) (*domain.Module, error) {
	module, err := r.moduleRepo.GetByIDForUpdate(ctx, moduleID)
	if err != nil {
		return nil, moduleLookupError(moduleID, err)
	}
	return module, nil
}

func (r *estimateReader) expected(ctx context.Context, module *domain.Module) (*domain.LaborEstimate, error) {
	points, err := r.pointRepo.ListByModule(ctx, module.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list complexity points: %w", err)
	}

	typeIDs := make([]uuid.UUID, 0, len(points))
	seen := make(map[uuid.UUID]bool)
	for _, p := range points {
		if !seen[p.PointTypeID] {
			seen[p.PointTypeID] = true
			typeIDs = append(typeIDs, p.PointTypeID)
		}
	}

	norms, err := r.pointRepo.ListNormsByPointTypes(ctx, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list position hour norms: %w", err)
	}

	return ComputeExpectedLaborEstimate(module, points, norms)
}

func (r *estimateReader) saved(ctx context.Context, module *domain.Module) (*domain.LaborEstimate, error) {
	rows, err := r.savedRepo.ListByModule(ctx, module.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved labor estimate: %w", err)
	}
	return buildSavedLaborEstimate(module, rows), nil
}

func (r *estimateReader) requested(ctx context.Context, module *domain.Module) (*domain.LaborEstimate, error) {
	requirements, err := r.requestRepo.ListRequirementsByModule(ctx, module.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staffing requirements: %w", err)
	}
	return buildRequestedLaborEstimate(module, requirements), nil
}

func (r *estimateReader) expectedMinusSaved(ctx context.Context, module *domain.Module) (*domain.LaborEstimate, error) {
	expected, err := r.expected(ctx, module)
	if err != nil {
		return nil, err
	}
	saved, err := r.saved(ctx, module)
	if err != nil {
		return nil, err
	}
	return expectedMinusSaved(expected, saved), nil
}

func (r *estimateReader) savedMinusRequested(ctx context.Context, module *domain.Module) (*domain.LaborEstimate, error) {
	saved, err := r.saved(ctx, module)
	if err != nil {
		return nil, err
	}
	requested, err := r.requested(ctx, module)
	if err != nil {
		return nil, err
	}
	return savedMinusRequested(saved, requested), nil
}

func (r *estimateReader) view(ctx context.Context, module *domain.Module, kind domain.LaborEstimateKind) (*domain.LaborEstimate, error) {
	switch kind {
	case domain.LaborEstimateExpected:
		return r.expected(ctx, module)
	case domain.LaborEstimateSaved:
		return r.saved(ctx, module)
	case domain.LaborEstimateRequested:
		return r.requested(ctx, module)
	case domain.LaborEstimateExpectedMinusSaved:
		return r.expectedMinusSaved(ctx, module)
	case domain.LaborEstimateSavedMinusRequested:
		return r.savedMinusRequested(ctx, module)
	default:
		return nil, fmt.Errorf("%w: unknown labor estimate kind %q", ErrInvalidInput, kind)
	}
}

func moduleLookupError(moduleID uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, moduleID)
	}
	return fmt.Errorf("failed to get module: %w", err)
}

// GetLaborEstimate returns the estimate view of the given kind for a module
func (s *LaborEstimateService) GetLaborEstimate(ctx context.Context, moduleID uuid.UUID, kind domain.LaborEstimateKind) (*domain.LaborEstimate, error) {
	start := time.Now()

	r := s.reader()
	module, err := r.module(ctx, moduleID)
	if err == nil {
		var estimate *domain.LaborEstimate
		estimate, err = r.view(ctx, module, kind)
		if err == nil {
			s.metrics.ObserveEstimate(string(kind), time.Since(start))
			return estimate, nil
		}
	}

	s.metrics.RecordEstimateError(string(kind))
	if !errors.Is(err, ErrModuleNotFound) {
		logger.WithEstimate(s.logger, moduleID, string(kind)).Error("Failed to compute labor estimate", zap.Error(err))
	}
	return nil, err
}

// GetExpectedLaborEstimate returns the estimate derived from the module's complexity points
func (s *LaborEstimateService) GetExpectedLaborEstimate(ctx context.Context, moduleID uuid.UUID) (*domain.LaborEstimate, error) {
	return s.GetLaborEstimate(ctx, moduleID, domain.LaborEstimateExpected)
}

// GetSavedLaborEstimate returns the human confirmed estimate of the module
func (s *LaborEstimateService) GetSavedLaborEstimate(ctx context.Context, moduleID uuid.UUID) (*domain.LaborEstimate, error) {
	return s.GetLaborEstimate(ctx, moduleID, domain.LaborEstimateSaved)
}

// GetRequestedLaborEstimate returns the headcount already requested for the module
func (s *LaborEstimateService) GetRequestedLaborEstimate(ctx context.Context, moduleID uuid.UUID) (*domain.LaborEstimate, error) {
	return s.GetLaborEstimate(ctx, moduleID, domain.LaborEstimateRequested)
}

// GetExpectedMinusSavedLaborEstimate returns how far the saved estimate is from the expected one
func (s *LaborEstimateService) GetExpectedMinusSavedLaborEstimate(ctx context.Context, moduleID uuid.UUID) (*domain.LaborEstimate, error) {
	return s.GetLaborEstimate(ctx, moduleID, domain.LaborEstimateExpectedMinusSaved)
}

// GetSavedMinusRequestedLaborEstimate returns the saved headcount not yet covered by requests
func (s *LaborEstimateService) GetSavedMinusRequestedLaborEstimate(ctx context.Context, moduleID uuid.UUID) (*domain.LaborEstimate, error) {
	return s.GetLaborEstimate(ctx, moduleID, domain.LaborEstimateSavedMinusRequested)
}

// CreateRequestForSavedLaborEstimate creates a staffing request covering every position
// whose saved headcount exceeds the requested headcount. It returns nil when nothing
// is missing. The gap is computed under the module lock, so two concurrent calls never
// request the same workers twice.
func (s *LaborEstimateService) CreateRequestForSavedLaborEstimate(ctx context.Context, moduleID uuid.UUID) (*domain.StaffingRequest, error) {
	var requestID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.readerTx(tx)
		module, err := r.lockModule(ctx, moduleID)
		if err != nil {
			return err
		}

		gap, err := r.savedMinusRequested(ctx, module)
		if err != nil {
			return err
		}

		request := &domain.StaffingRequest{
			ModuleID: module.ID,
			Status:   domain.StaffingRequestStatusOpen,
			Comment:  staffingRequestComment,
		}
		for _, p := range gap.Positions {
			if p.Workers <= 0 {
				continue
			}
			request.Requirements = append(request.Requirements, domain.StaffingRequirement{
				PositionID:   p.PositionID,
				WorkersCount: p.Workers,
			})
		}
		if len(request.Requirements) == 0 {
			return nil
		}

		if err := s.requestRepo.WithTx(tx).Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create staffing request: %w", err)
		}
		requestID = request.ID
		return nil
	})
	if err != nil {
		return nil, s.reconciliationError("create staffing request", moduleID, err)
	}

	if requestID == uuid.Nil {
		s.metrics.RecordReconciliation(metrics.OutcomeRequestNotNeeded)
		logger.WithModule(s.logger, moduleID).Debug("Saved labor estimate already requested")
		return nil, nil
	}

	s.metrics.RecordReconciliation(metrics.OutcomeRequestCreated)
	logger.WithModule(s.logger, moduleID).Info("Staffing request created from saved labor estimate",
		zap.String("request_id", requestID.String()))

	return s.GetStaffingRequest(ctx, requestID)
}

// SetExpectedLaborEstimateAsSaved replaces the saved estimate with the expected one.
// It reports false and writes nothing when both already agree on every position.
func (s *LaborEstimateService) SetExpectedLaborEstimateAsSaved(ctx context.Context, moduleID uuid.UUID) (bool, error) {
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.readerTx(tx)
		module, err := r.lockModule(ctx, moduleID)
		if err != nil {
			return err
		}

		expected, err := r.expected(ctx, module)
		if err != nil {
			return err
		}
		saved, err := r.saved(ctx, module)
		if err != nil {
			return err
		}
		if sameLaborEstimate(expected, saved) {
			return nil
		}

		rows := make([]domain.ModulePositionLaborEstimate, 0, len(expected.Positions))
		for _, p := range expected.Positions {
			rows = append(rows, domain.ModulePositionLaborEstimate{
				PositionID:   p.PositionID,
				HoursCount:   p.HoursOrZero(),
				WorkersCount: p.Workers,
			})
		}
		if err := s.laborEstimateRepo.WithTx(tx).ReplaceForModule(ctx, module.ID, rows); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, s.reconciliationError("save expected labor estimate", moduleID, err)
	}

	if changed {
		s.metrics.RecordReconciliation(metrics.OutcomeSavedChanged)
		logger.WithModule(s.logger, moduleID).Info("Expected labor estimate saved")
	} else {
		s.metrics.RecordReconciliation(metrics.OutcomeSavedUnchanged)
	}
	return changed, nil
}

// UpdateSavedLaborEstimate replaces the saved estimate with a manually edited one
func (s *LaborEstimateService) UpdateSavedLaborEstimate(ctx context.Context, moduleID uuid.UUID, req domain.UpdateSavedLaborEstimateRequest) (*domain.LaborEstimate, error) {
	rows := make([]domain.ModulePositionLaborEstimate, 0, len(req.Positions))
	ids := make([]uuid.UUID, 0, len(req.Positions))
	for _, p := range req.Positions {
		if p.HoursCount < 0 || p.WorkersCount < 0 {
			return nil, fmt.Errorf("%w: hours and workers must not be negative", ErrInvalidInput)
		}
		ids = append(ids, p.PositionID)
		rows = append(rows, domain.ModulePositionLaborEstimate{
			PositionID:   p.PositionID,
			HoursCount:   decimal.NewFromFloat(p.HoursCount).Round(hoursPrecision),
			WorkersCount: p.WorkersCount,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		module, err := s.readerTx(tx).lockModule(ctx, moduleID)
		if err != nil {
			return err
		}

		positions, err := s.positionRepo.WithTx(tx).ListByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to look up positions: %w", err)
		}
		for _, id := range ids {
			if _, ok := positions[id]; !ok {
				return fmt.Errorf("%w: %s", ErrPositionNotFound, id)
			}
		}

		return s.laborEstimateRepo.WithTx(tx).ReplaceForModule(ctx, module.ID, rows)
	})
	if err != nil {
		return nil, s.reconciliationError("update saved labor estimate", moduleID, err)
	}

	s.metrics.RecordReconciliation(metrics.OutcomeSavedUpdated)
	logger.WithModule(s.logger, moduleID).Info("Saved labor estimate updated", zap.Int("positions", len(rows)))

	return s.GetSavedLaborEstimate(ctx, moduleID)
}

// GetStaffingRequest returns a staffing request with its requirements
func (s *LaborEstimateService) GetStaffingRequest(ctx context.Context, id uuid.UUID) (*domain.StaffingRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStaffingRequestNotFound, id)
		}
		return nil, fmt.Errorf("failed to get staffing request: %w", err)
	}
	return request, nil
}

// ListFundingGaps returns every position of every module whose saved headcount is
// not covered by staffing requests, in module order
func (s *LaborEstimateService) ListFundingGaps(ctx context.Context) ([]domain.FundingGap, error) {
	modules, err := s.moduleRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}

	r := s.reader()
	var gaps []domain.FundingGap
	for i := range modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		module := &modules[i]
		diff, err := r.savedMinusRequested(ctx, module)
		if err != nil {
			return nil, fmt.Errorf("failed to compute funding gap of module %s: %w", module.ID, err)
		}

		for _, p := range diff.Positions {
			if p.Workers <= 0 {
				continue
			}
			gaps = append(gaps, domain.FundingGap{
				ProjectID:    module.ProjectID,
				ModuleID:     module.ID,
				ModuleName:   module.Name,
				PositionID:   p.PositionID,
				PositionName: p.PositionName,
				WorkersGap:   p.Workers,
			})
		}
	}
	return gaps, nil
}

// reconciliationError classifies a failed reconciliation transaction
func (s *LaborEstimateService) reconciliationError(action string, moduleID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, ErrModuleNotFound), errors.Is(err, ErrPositionNotFound),
		errors.Is(err, ErrInvalidWorkCalendar), errors.Is(err, ErrInvalidInput):
		return err
	case repository.IsTransactionConflict(err):
		s.metrics.RecordReconciliation(metrics.OutcomeConflict)
		logger.WithModule(s.logger, moduleID).Warn("Reconciliation aborted by concurrent writer",
			zap.String("action", action),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrTransactionConflict, err)
	default:
		logger.WithModule(s.logger, moduleID).Error("Failed to "+action, zap.Error(err))
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
