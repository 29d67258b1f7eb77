package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"gorm.io/gorm"
)

// ComplexityPointRepository reads complexity points and the hour norms of their types
type ComplexityPointRepository struct {
	db *gorm.DB
}

// NewComplexityPointRepository creates a new ComplexityPointRepository instance
func NewComplexityPointRepository(db *gorm.DB) *ComplexityPointRepository {
	return &ComplexityPointRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ComplexityPointRepository) WithTx(tx *gorm.DB) *ComplexityPointRepository {
	return &ComplexityPointRepository{db: tx}
}

// ListByModule returns the points of a module with their difficulty levels, in creation order
func (r *ComplexityPointRepository) ListByModule(ctx context.Context, moduleID uuid.UUID) ([]domain.ComplexityPoint, error) {
	var points []domain.ComplexityPoint
	err := r.db.WithContext(ctx).
		Preload("DifficultyLevel").
		Where("module_id = ?", moduleID).
		Order("created_at ASC, id ASC").
		Find(&points).Error
	return points, err
}

// ListNormsByPointTypes returns the hour norms of the given point types grouped by type.
// Norms of a type keep their creation order.
func (r *ComplexityPointRepository) ListNormsByPointTypes(ctx context.Context, pointTypeIDs []uuid.UUID) (map[uuid.UUID][]domain.PositionHourNorm, error) {
	grouped := make(map[uuid.UUID][]domain.PositionHourNorm)
	if len(pointTypeIDs) == 0 {
		return grouped, nil
	}

	var norms []domain.PositionHourNorm
	err := r.db.WithContext(ctx).
		Preload("Position").
		Where("point_type_id IN ?", pointTypeIDs).
		Order("created_at ASC, id ASC").
		Find(&norms).Error
	if err != nil {
		return nil, err
	}

	for _, norm := range norms {
		grouped[norm.PointTypeID] = append(grouped[norm.PointTypeID], norm)
	}
	return grouped, nil
}
