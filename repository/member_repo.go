package repository

import (
	"errors"
	"time"

	"cityrace/apperr"
	"cityrace/models"

	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Add(member *models.Member) error {
	if err := r.db.Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("user with id=%s is already a member of game with id=%s",
				member.UserID, member.GameID)
		}
		return apperr.Wrap(apperr.KindInternal, err, "failed to add game member")
	}
	return nil
}

// Find returns the member with the given id, or nil if no such member exists.
func (r *MemberRepository) Find(id string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find game member")
	}
	return &member, nil
}

// SetReady flags the member as ready. Setting an already ready member ready
// again is a no-op.
func (r *MemberRepository) SetReady(id string) error {
	err := r.db.Model(&models.Member{}).Where("id = ?", id).
		Update("is_ready", true).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "failed to set member as ready")
	}
	return nil
}

// SetResigned soft-removes a member from a started game.
func (r *MemberRepository) SetResigned(id string) error {
	err := r.db.Model(&models.Member{}).Where("id = ?", id).
		Update("resigned_at", time.Now().UTC()).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "failed to set member as resigned")
	}
	return nil
}

// Delete removes a member from an unstarted game.
func (r *MemberRepository) Delete(member *models.Member) error {
	if err := r.db.Delete(member).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "failed to delete game member")
	}
	return nil
}

// CountAnswered returns how many questions the member has answered.
func (r *MemberRepository) CountAnswered(memberID string) (int, error) {
	var count int64
	err := r.db.Model(&models.MemberQuestion{}).
		Where("member_id = ? AND answered_at IS NOT NULL", memberID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, err, "failed to count answered questions")
	}
	return int(count), nil
}
