package services

import (
	"context"
	"testing"
	"time"

	"game-store/internal/domain"
	"game-store/internal/mocks"
	"game-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderService_ListOrders(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	svc := NewOrderService(orderRepo)

	status := domain.StatusPayed
	q := repository.OrderQuery{UserID: TestUserID, Status: &status, Page: 1, Limit: 20}
	orderRepo.On("ListByUser", mock.Anything, q).Return([]domain.Order{
		{ID: 1, UserID: TestUserID, Status: domain.StatusPayed},
	}, nil)

	orders, err := svc.ListOrders(context.Background(), q)

	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_ListOrders_InvalidPaging(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	svc := NewOrderService(orderRepo)

	for _, q := range []repository.OrderQuery{
		{UserID: TestUserID, Page: 0, Limit: 20},
		{UserID: TestUserID, Page: 1, Limit: -5},
	} {
		_, err := svc.ListOrders(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	orderRepo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestOrderService_ListOrders_InvertedRange(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	svc := NewOrderService(orderRepo)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := svc.ListOrders(context.Background(), repository.OrderQuery{
		UserID: TestUserID, From: &from, To: &to, Page: 1, Limit: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	svc := NewOrderService(orderRepo)

	orderRepo.On("FindByID", mock.Anything, uint64(999)).Return(nil, nil)

	order, err := svc.GetOrder(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, order)
}
