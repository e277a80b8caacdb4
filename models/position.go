package models

import (
	"time"
)

// Position is a single GPS submission by a member. The log is append-only,
// misses are stored as well as the positions that answered a question.
type Position struct {
	ID        string    `json:"id" gorm:"primaryKey;size:50"`
	MemberID  string    `json:"member_id" gorm:"size:50;not null"`
	Latitude  float64   `json:"latitude" gorm:"not null"`
	Longitude float64   `json:"longitude" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Position) Coordinate() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}
