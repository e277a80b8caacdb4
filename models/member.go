package models

import (
	"time"
)

// MemberState mirrors the resigned_at timestamp as an explicit state.
type MemberState string

const (
	MemberStateActive   MemberState = "ACTIVE"
	MemberStateResigned MemberState = "RESIGNED"
)

// Member is a user's participation in a single game. A user joins a given
// game at most once. Once the game has started members are never deleted,
// leaving becomes a soft resignation instead.
type Member struct {
	ID         string     `json:"id" gorm:"primaryKey;size:50"`
	GameID     string     `json:"game_id" gorm:"size:50;not null;uniqueIndex:uniq_member_game_user,priority:1"`
	UserID     string     `json:"user_id" gorm:"size:50;not null;uniqueIndex:uniq_member_game_user,priority:2"`
	IsAdmin    bool       `json:"is_admin" gorm:"not null;default:false"`
	IsReady    bool       `json:"is_ready" gorm:"not null;default:false"`
	ResignedAt *time.Time `json:"resigned_at"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relationships
	Positions []Position       `json:"positions,omitempty" gorm:"foreignKey:MemberID"`
	Questions []MemberQuestion `json:"questions,omitempty" gorm:"foreignKey:MemberID"`
}

func (m *Member) State() MemberState {
	if m.ResignedAt != nil {
		return MemberStateResigned
	}
	return MemberStateActive
}
