package services

import (
	"context"
	"fmt"

	"game-store/internal/domain"
	"game-store/internal/repository"
)

// OrderService serves the order history listing.
type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) ListOrders(ctx context.Context, q repository.OrderQuery) ([]domain.Order, error) {
	if q.Page <= 0 || q.Limit <= 0 {
		return nil, fmt.Errorf("page and limit must be positive: %w", domain.ErrInvalidArgument)
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, fmt.Errorf("from must not be after to: %w", domain.ErrInvalidArgument)
	}
	return s.orders.ListByUser(ctx, q)
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return order, nil
}
