package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"gorm.io/gorm"
)

// LaborEstimateRepository handles the saved (confirmed) labor estimate rows of modules
type LaborEstimateRepository struct {
	db *gorm.DB
}

// NewLaborEstimateRepository creates a new LaborEstimateRepository instance
func NewLaborEstimateRepository(db *gorm.DB) *LaborEstimateRepository {
	return &LaborEstimateRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *LaborEstimateRepository) WithTx(tx *gorm.DB) *LaborEstimateRepository {
	return &LaborEstimateRepository{db: tx}
}

// ListByModule returns the saved rows of a module with their positions
func (r *LaborEstimateRepository) ListByModule(ctx context.Context, moduleID uuid.UUID) ([]domain.ModulePositionLaborEstimate, error) {
	var rows []domain.ModulePositionLaborEstimate
	err := r.db.WithContext(ctx).
		Preload("Position").
		Where("module_id = ?", moduleID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// ReplaceForModule deletes every saved row of the module and inserts the given ones.
// Call it on a repository bound to a transaction so the replace is atomic.
func (r *LaborEstimateRepository) ReplaceForModule(ctx context.Context, moduleID uuid.UUID, rows []domain.ModulePositionLaborEstimate) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("module_id = ?", moduleID).Delete(&domain.ModulePositionLaborEstimate{}).Error; err != nil {
		return fmt.Errorf("failed to delete saved labor estimate: %w", err)
	}

	for i := range rows {
		rows[i].ModuleID = moduleID
		if err := db.Omit("Position").Create(&rows[i]).Error; err != nil {
			return fmt.Errorf("failed to insert saved labor estimate for position %s: %w", rows[i].PositionID, err)
		}
	}
	return nil
}
