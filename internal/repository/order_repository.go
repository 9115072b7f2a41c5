package repository

import (
	"context"
	"time"

	"game-store/internal/domain"
)

// OrderQuery filters the order history listing. Nil fields are not applied.
type OrderQuery struct {
	UserID uint64
	From   *time.Time
	To     *time.Time
	Status *domain.OrderStatus
	Page   int
	Limit  int
}

type OrderRepository interface {
	// FindOpenByUser returns the user's INITIATED order with items and game
	// references preloaded, or nil if the user has no open cart.
	FindOpenByUser(ctx context.Context, userID uint64) (*domain.Order, error)

	// CreateOpen persists a new INITIATED order. A concurrent creation for
	// the same user surfaces as domain.ErrDuplicateOpenOrder.
	CreateOpen(ctx context.Context, order *domain.Order) error

	// FindByID loads an order with items, game references and payment, or
	// nil if it does not exist.
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)

	SaveItem(ctx context.Context, item *domain.OrderItem) error
	RemoveItem(ctx context.Context, orderID, itemID uint64) error
	ClearItems(ctx context.Context, orderID uint64) error

	// Touch bumps the order's updated_at.
	Touch(ctx context.Context, orderID uint64, at time.Time) error

	ListByUser(ctx context.Context, q OrderQuery) ([]domain.Order, error)

	// Settle atomically persists the license grants and the payment row and
	// flips the order INITIATED -> PAYED. Either everything commits or
	// nothing does. A lost settlement race returns domain.ErrAlreadyPaid.
	Settle(ctx context.Context, orderID uint64, payment *domain.Payment, grants []domain.UserGameStock, at time.Time) error
}
