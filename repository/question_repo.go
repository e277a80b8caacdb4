package repository

import (
	"errors"
	"time"

	"cityrace/apperr"
	"cityrace/models"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Save(question *models.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("question with id=%s already exists", question.ID)
		}
		return apperr.Wrap(apperr.KindInternal, err, "failed to save question")
	}
	return nil
}

// Find returns the question with the given id, or nil if none exists.
func (r *QuestionRepository) Find(id string) (*models.Question, error) {
	var question models.Question
	err := r.db.Where("id = ?", id).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find question")
	}
	return &question, nil
}

// FindAll returns every question in the pool, minus the given ids.
func (r *QuestionRepository) FindAll(exceptIDs []string) ([]models.Question, error) {
	var questions []models.Question
	query := r.db
	if len(exceptIDs) > 0 {
		query = query.Where("id NOT IN ?", exceptIDs)
	}
	if err := query.Find(&questions).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find questions")
	}
	return questions, nil
}

// FindPreviousQuestionIDs returns the ids of all questions already assigned
// to any game that shares at least one user with the given game. Used to
// keep returning players from seeing repeated questions.
func (r *QuestionRepository) FindPreviousQuestionIDs(game *models.Game) ([]string, error) {
	userIDs := make([]string, 0, len(game.Members))
	for _, member := range game.Members {
		userIDs = append(userIDs, member.UserID)
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	var questionIDs []string
	err := r.db.Table("game_questions").
		Joins("JOIN members ON members.game_id = game_questions.game_id").
		Where("members.user_id IN ?", userIDs).
		Distinct().
		Pluck("game_questions.question_id", &questionIDs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find previous question ids")
	}
	return questionIDs, nil
}

// FindMemberUnanswered returns the game's questions that the member has not
// answered yet, in canonical sequence order.
func (r *QuestionRepository) FindMemberUnanswered(gameID, memberID string) ([]models.GameQuestion, error) {
	answered := r.db.Model(&models.MemberQuestion{}).
		Select("game_question_id").
		Where("member_id = ? AND answered_at IS NOT NULL", memberID)

	var gameQuestions []models.GameQuestion
	err := r.db.Preload("Question").
		Where("game_id = ? AND id NOT IN (?)", gameID, answered).
		Order("id").
		Find(&gameQuestions).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find unanswered questions")
	}
	return gameQuestions, nil
}

// FindMemberActiveQuestion returns the member's single unanswered assigned
// question, or nil if the member has no active question.
func (r *QuestionRepository) FindMemberActiveQuestion(gameID, memberID string) (*models.GameQuestion, error) {
	var memberQuestion models.MemberQuestion
	err := r.db.Where("member_id = ? AND answered_at IS NULL", memberID).
		First(&memberQuestion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to find active question")
	}

	var gameQuestion models.GameQuestion
	err = r.db.Preload("Question").
		Where("id = ? AND game_id = ?", memberQuestion.GameQuestionID, gameID).
		First(&gameQuestion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to load active question")
	}
	return &gameQuestion, nil
}

// SaveMemberQuestion records a game question as active for a member. A
// duplicate for the same member and question surfaces as a conflict.
func (r *QuestionRepository) SaveMemberQuestion(memberQuestion *models.MemberQuestion) error {
	if err := r.db.Create(memberQuestion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("question already assigned to member with id=%s",
				memberQuestion.MemberID)
		}
		return apperr.Wrap(apperr.KindInternal, err, "failed to save member question")
	}
	return nil
}

// SetMemberQuestionAnswered closes the member's active question, linking the
// position that answered it. Returns false if no unanswered row matched,
// which happens when a concurrent submission already closed the question.
func (r *QuestionRepository) SetMemberQuestionAnswered(memberID string, gameQuestionID uint, position *models.Position) (bool, error) {
	result := r.db.Model(&models.MemberQuestion{}).
		Where("member_id = ? AND game_question_id = ? AND answered_at IS NULL",
			memberID, gameQuestionID).
		Updates(map[string]interface{}{
			"answered_at": time.Now().UTC(),
			"position_id": position.ID,
		})
	if result.Error != nil {
		return false, apperr.Wrap(apperr.KindInternal, result.Error, "failed to mark question as answered")
	}
	return result.RowsAffected > 0, nil
}
