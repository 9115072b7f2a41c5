package repository

import (
	"context"

	"game-store/internal/domain"
)

type PaymentRepository interface {
	// FindByID returns nil when the payment does not exist.
	FindByID(ctx context.Context, id uint64) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
}
