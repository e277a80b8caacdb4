package models

import (
	"time"
)

// GameStatus is the game lifecycle state, derived from the nullable
// started/ended timestamps so persisted history stays the source of truth.
type GameStatus string

const (
	GameStatusCreated GameStatus = "CREATED"
	GameStatusStarted GameStatus = "STARTED"
	GameStatusEnded   GameStatus = "ENDED"
)

type Game struct {
	ID        string     `json:"id" gorm:"primaryKey;size:50"`
	Name      string     `json:"name" gorm:"size:100;not null"`
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	CreatedAt time.Time  `json:"created_at"`

	// Relationships
	Members    []Member       `json:"members,omitempty" gorm:"foreignKey:GameID"`
	Questions  []GameQuestion `json:"questions,omitempty" gorm:"foreignKey:GameID"`
	Placements []Placement    `json:"placements,omitempty" gorm:"foreignKey:GameID"`
}

func (g *Game) Status() GameStatus {
	switch {
	case g.EndedAt != nil:
		return GameStatusEnded
	case g.StartedAt != nil:
		return GameStatusStarted
	default:
		return GameStatusCreated
	}
}

// ActiveMembers returns the members that have not resigned.
func (g *Game) ActiveMembers() []Member {
	active := []Member{}
	for _, member := range g.Members {
		if member.ResignedAt == nil {
			active = append(active, member)
		}
	}
	return active
}
