package repository

import (
	"context"

	"game-store/internal/domain"
)

type UserRepository interface {
	// FindByID returns nil when the user does not exist.
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
}
