package mysql

import (
	"context"
	"errors"
	"time"

	"game-store/internal/domain"
	"game-store/internal/repository"

	"gorm.io/gorm"
)

type gameRepo struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) repository.GameRepository {
	return &gameRepo{db: db}
}

func (r *gameRepo) FindByID(ctx context.Context, id uint64) (*domain.Game, error) {
	var g domain.Game
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *gameRepo) CurrentPrice(ctx context.Context, gameID uint64) (*domain.GamePrice, error) {
	var p domain.GamePrice
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND end_date IS NULL", gameID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// SetCurrentPrice closes the open row and opens the replacement in one
// transaction. The closed row's end_date equals the new row's start_date,
// keeping the ledger gapless.
func (r *gameRepo) SetCurrentPrice(ctx context.Context, gameID uint64, value int64, stock *int64, at time.Time) (*domain.GamePrice, error) {
	price := domain.NewOpenPrice(gameID, value, stock, at)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.GamePrice{}).
			Where("game_id = ? AND end_date IS NULL", gameID).
			Update("end_date", at)
		if res.Error != nil {
			return res.Error
		}
		return tx.Create(price).Error
	})
	if err != nil {
		return nil, err
	}
	return price, nil
}
