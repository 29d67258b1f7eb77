package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"gorm.io/gorm"
)

// PositionRepository handles database operations for positions
type PositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new PositionRepository instance
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PositionRepository) WithTx(tx *gorm.DB) *PositionRepository {
	return &PositionRepository{db: tx}
}

// ListByIDs returns the positions with the given IDs keyed by ID
func (r *PositionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Position, error) {
	result := make(map[uuid.UUID]domain.Position, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var positions []domain.Position
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&positions).Error; err != nil {
		return nil, err
	}
	for _, p := range positions {
		result[p.ID] = p
	}
	return result, nil
}
