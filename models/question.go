package models

import (
	"time"
)

// Question is a geographically anchored trivia question in the global pool.
// Prompt and answer texts are bilingual (Swedish/English). Questions are
// immutable once created and are shared across games via GameQuestion rows.
type Question struct {
	ID        string    `json:"id" gorm:"primaryKey;size:50"`
	Latitude  float64   `json:"latitude" gorm:"not null"`
	Longitude float64   `json:"longitude" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null"`
	TextEn    string    `json:"text_en" gorm:"not null"`
	Answer    string    `json:"answer" gorm:"not null"`
	AnswerEn  string    `json:"answer_en" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Question) Coordinate() Coordinate {
	return Coordinate{Latitude: q.Latitude, Longitude: q.Longitude}
}
