package repository

import (
	"context"
	"time"

	"game-store/internal/domain"
)

type GameRepository interface {
	// FindByID returns nil when the game does not exist.
	FindByID(ctx context.Context, id uint64) (*domain.Game, error)

	// CurrentPrice returns the game's open price row, or nil if the game
	// has never been priced.
	CurrentPrice(ctx context.Context, gameID uint64) (*domain.GamePrice, error)

	// SetCurrentPrice closes the open price row (if any) and opens a new one
	// in a single transaction, so readers never observe zero or two open
	// rows for the same game.
	SetCurrentPrice(ctx context.Context, gameID uint64, value int64, stock *int64, at time.Time) (*domain.GamePrice, error)
}
