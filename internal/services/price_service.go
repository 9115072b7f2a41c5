package services

import (
	"context"
	"fmt"
	"time"

	"game-store/internal/domain"
	"game-store/internal/repository"
)

// PriceService owns the per-game price timeline: an append-only ledger with
// at most one open row per game.
type PriceService struct {
	games repository.GameRepository
}

func NewPriceService(games repository.GameRepository) *PriceService {
	return &PriceService{games: games}
}

func (s *PriceService) SetCurrentPrice(ctx context.Context, gameID uint64, value int64, stock *int64) (*domain.GamePrice, error) {
	if value < 0 {
		return nil, fmt.Errorf("price value must not be negative: %w", domain.ErrInvalidArgument)
	}
	if stock != nil && *stock < 0 {
		return nil, fmt.Errorf("stock must not be negative: %w", domain.ErrInvalidArgument)
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", gameID, domain.ErrNotFound)
	}

	return s.games.SetCurrentPrice(ctx, gameID, value, stock, time.Now())
}

// CurrentPrice returns the open price row, or nil if the game has never been
// priced.
func (s *PriceService) CurrentPrice(ctx context.Context, gameID uint64) (*domain.GamePrice, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", gameID, domain.ErrNotFound)
	}
	return s.games.CurrentPrice(ctx, gameID)
}
