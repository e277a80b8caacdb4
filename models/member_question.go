package models

import (
	"time"
)

// MemberQuestion tracks one member's progress on one game question. A row is
// created the moment the question becomes active for the member. At most one
// row per member has a null AnsweredAt, that row is the member's active
// question. The winning position is linked once the question is answered.
type MemberQuestion struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	MemberID       string     `json:"member_id" gorm:"size:50;not null;uniqueIndex:uniq_member_game_question,priority:1"`
	GameQuestionID uint       `json:"game_question_id" gorm:"not null;uniqueIndex:uniq_member_game_question,priority:2"`
	PositionID     *string    `json:"position_id" gorm:"size:50"`
	AnsweredAt     *time.Time `json:"answered_at"`
	CreatedAt      time.Time  `json:"created_at"`

	// Relationships
	GameQuestion GameQuestion `json:"game_question,omitempty" gorm:"foreignKey:GameQuestionID"`
}
