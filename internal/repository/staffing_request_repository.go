package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"gorm.io/gorm"
)

// StaffingRequestRepository handles staffing requests and their requirements
type StaffingRequestRepository struct {
	db *gorm.DB
}

// NewStaffingRequestRepository creates a new StaffingRequestRepository instance
func NewStaffingRequestRepository(db *gorm.DB) *StaffingRequestRepository {
	return &StaffingRequestRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *StaffingRequestRepository) WithTx(tx *gorm.DB) *StaffingRequestRepository {
	return &StaffingRequestRepository{db: tx}
}

// Create inserts a request together with its requirements
func (r *StaffingRequestRepository) Create(ctx context.Context, request *domain.StaffingRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID retrieves a request with its requirements and their positions
func (r *StaffingRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StaffingRequest, error) {
	var request domain.StaffingRequest
	err := r.db.WithContext(ctx).
		Preload("Requirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("staffing_requirements.created_at ASC, staffing_requirements.id ASC")
		}).
		Preload("Requirements.Position").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListRequirementsByModule returns the requirements of every request of the module that
// was not cancelled, ordered by request and then requirement creation time
func (r *StaffingRequestRepository) ListRequirementsByModule(ctx context.Context, moduleID uuid.UUID) ([]domain.StaffingRequirement, error) {
	var requirements []domain.StaffingRequirement
	err := r.db.WithContext(ctx).
		Preload("Position").
		Joins("JOIN staffing_requests ON staffing_requests.id = staffing_requirements.request_id").
		Where("staffing_requests.module_id = ? AND staffing_requests.status <> ?", moduleID, domain.StaffingRequestStatusCancelled).
		Order("staffing_requests.created_at ASC, staffing_requirements.created_at ASC, staffing_requirements.id ASC").
		Find(&requirements).Error
	return requirements, err
}
