package domain

import "time"

// Game is catalog data. The purchase lifecycle only reads it; ownership of
// the row belongs to the catalog subsystem.
type Game struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
