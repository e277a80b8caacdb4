package models

import (
	"time"
)

// Placement records that a member finished every question in a game. Rows
// ordered by creation time define the final ranking. One row per member and
// game, enforced by the unique index.
type Placement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    string    `json:"game_id" gorm:"size:50;not null;uniqueIndex:uniq_placement_game_member,priority:1"`
	MemberID  string    `json:"member_id" gorm:"size:50;not null;uniqueIndex:uniq_placement_game_member,priority:2"`
	CreatedAt time.Time `json:"created_at"`
}
