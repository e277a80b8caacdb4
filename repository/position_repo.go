package repository

import (
	"cityrace/apperr"
	"cityrace/models"

	"gorm.io/gorm"
)

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Save appends a submitted position to the member's position log.
func (r *PositionRepository) Save(position *models.Position) error {
	if err := r.db.Create(position).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "failed to save position")
	}
	return nil
}

func (r *PositionRepository) FindMemberPositions(memberID string) ([]models.Position, error) {
	var positions []models.Position
	err := r.db.Where("member_id = ?", memberID).
		Order("created_at, id").
		Find(&positions).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find member positions")
	}
	return positions, nil
}
