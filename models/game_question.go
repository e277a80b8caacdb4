package models

// GameQuestion assigns a pool question to a game. The rows are created in
// bulk when the game starts and their insertion order is the canonical
// question sequence for that game.
type GameQuestion struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	GameID     string `json:"game_id" gorm:"size:50;not null"`
	QuestionID string `json:"question_id" gorm:"size:50;not null"`

	// Relationships
	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}
