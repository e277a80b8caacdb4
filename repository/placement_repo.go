package repository

import (
	"errors"

	"cityrace/apperr"
	"cityrace/models"

	"gorm.io/gorm"
)

type PlacementRepository struct {
	db *gorm.DB
}

func NewPlacementRepository(db *gorm.DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

// Save records a member's finish. The unique constraint on (game, member)
// guards against double placement, a duplicate surfaces as a conflict.
func (r *PlacementRepository) Save(placement *models.Placement) error {
	if err := r.db.Create(placement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("placement already recorded for member with id=%s",
				placement.MemberID)
		}
		return apperr.Wrap(apperr.KindInternal, err, "failed to save placement")
	}
	return nil
}
