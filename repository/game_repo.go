package repository

import (
	"errors"
	"time"

	"cityrace/apperr"
	"cityrace/models"

	"gorm.io/gorm"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Save persists a new game together with its initial members.
func (r *GameRepository) Save(game *models.Game) error {
	if err := r.db.Create(game).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("game with id=%s already exists", game.ID)
		}
		return apperr.Wrap(apperr.KindInternal, err, "failed to save game")
	}
	return nil
}

// Find returns the game with the given id, or nil if no such game exists.
func (r *GameRepository) Find(id string) (*models.Game, error) {
	var game models.Game
	err := r.db.Where("id = ?", id).
		Preload("Members").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_questions.id")
		}).
		Preload("Placements", func(db *gorm.DB) *gorm.DB {
			return db.Order("placements.created_at, placements.id")
		}).
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find game")
	}
	return &game, nil
}

// FindByShortcode resolves a 4 character shortcode to the first unstarted
// game whose id starts with it. Prefix collisions resolve to the oldest
// match, a documented limitation of the shortcode scheme.
func (r *GameRepository) FindByShortcode(code string) (*models.Game, error) {
	var game models.Game
	err := r.db.Where("id LIKE ? AND started_at IS NULL", code+"%").
		Order("created_at").
		Preload("Members").
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find game by shortcode")
	}
	return &game, nil
}

// Start persists the ordered question set and marks the game started in a
// single transaction, so a failed start leaves no partial assignment behind.
// Losing a race against a concurrent start rolls the questions back and
// surfaces as a conflict.
func (r *GameRepository) Start(game *models.Game, questions []models.GameQuestion) error {
	now := time.Now().UTC()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		result := tx.Model(game).Where("started_at IS NULL").Update("started_at", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.Conflict("game with id=%s has already started", game.ID)
		}
		return nil
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("game questions already assigned")
		}
		return apperr.Wrap(apperr.KindInternal, err, "failed to start game")
	}
	game.StartedAt = &now
	return nil
}

// End marks the game ended. Returns false if it had already ended, so racing
// completion checks resolve to a single winner and a single broadcast.
func (r *GameRepository) End(game *models.Game) (bool, error) {
	now := time.Now().UTC()
	result := r.db.Model(game).Where("ended_at IS NULL").Update("ended_at", now)
	if result.Error != nil {
		return false, apperr.Wrap(apperr.KindInternal, result.Error, "failed to mark game as ended")
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	game.EndedAt = &now
	return true, nil
}

// Delete removes an unstarted game and its members.
func (r *GameRepository) Delete(game *models.Game) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", game.ID).Delete(&models.Member{}).Error; err != nil {
			return err
		}
		return tx.Delete(game).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "failed to delete game")
	}
	return nil
}
