package domain

import "time"

// UserGameStock grants a user ownership of a game. One row per (user, game),
// written inside the settlement transaction and never afterwards.
type UserGameStock struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"userId" gorm:"not null;uniqueIndex:uniq_user_game"`
	GameID    uint64    `json:"gameId" gorm:"not null;uniqueIndex:uniq_user_game"`
	License   string    `json:"license" gorm:"type:varchar(128);not null;unique"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (UserGameStock) TableName() string { return "user_game_stock" }
