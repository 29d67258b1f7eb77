package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModuleRepository handles database operations for modules
type ModuleRepository struct {
	db *gorm.DB
}

// NewModuleRepository creates a new ModuleRepository instance
func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ModuleRepository) WithTx(tx *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: tx}
}

// GetByID retrieves a module by its ID
func (r *ModuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	var module domain.Module
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// GetByIDForUpdate retrieves a module and locks its row until the surrounding
// transaction ends. Reconciliation actions on one module are serialized through this lock.
func (r *ModuleRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	var module domain.Module
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// ListByProject returns the modules of a project in creation order
func (r *ModuleRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Module, error) {
	var modules []domain.Module
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&modules).Error
	return modules, err
}

// ListAll returns every module ordered by project and creation time
func (r *ModuleRepository) ListAll(ctx context.Context) ([]domain.Module, error) {
	var modules []domain.Module
	err := r.db.WithContext(ctx).
		Order("project_id ASC, created_at ASC, id ASC").
		Find(&modules).Error
	return modules, err
}
