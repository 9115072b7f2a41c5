package domain

import (
	"fmt"
	"time"
)

// GamePrice is one entry in a game's append-only price ledger. A row with a
// nil EndDate is the single open price for its game; all other rows are
// history. Rows are never deleted.
type GamePrice struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID    uint64     `json:"gameId" gorm:"not null;index"`
	Value     int64      `json:"value" gorm:"not null"`
	Stock     *int64     `json:"stock,omitempty"`
	StartDate time.Time  `json:"startDate" gorm:"not null"`
	EndDate   *time.Time `json:"endDate,omitempty" gorm:"index"`
}

func (GamePrice) TableName() string { return "game_prices" }

// NewOpenPrice opens a price row starting at the given instant.
func NewOpenPrice(gameID uint64, value int64, stock *int64, at time.Time) *GamePrice {
	return &GamePrice{
		GameID:    gameID,
		Value:     value,
		Stock:     stock,
		StartDate: at,
	}
}

func (p *GamePrice) Open() bool { return p.EndDate == nil }

// Close ends the row's validity. Closing an already closed row is a bug in
// the caller, not a state to silently accept.
func (p *GamePrice) Close(at time.Time) error {
	if !p.Open() {
		return fmt.Errorf("price %d already closed", p.ID)
	}
	p.EndDate = &at
	return nil
}
