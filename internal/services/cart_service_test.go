package services

import (
	"context"
	"errors"
	"testing"

	"game-store/internal/domain"
	"game-store/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartFixture() (*CartService, *mocks.MockOrderRepository, *mocks.MockGameRepository, *mocks.MockUserRepository) {
	orderRepo := new(mocks.MockOrderRepository)
	gameRepo := new(mocks.MockGameRepository)
	userRepo := new(mocks.MockUserRepository)
	return NewCartService(orderRepo, gameRepo, userRepo), orderRepo, gameRepo, userRepo
}

func TestCartService_AddToCart_CreatesOpenOrder(t *testing.T) {
	svc, orderRepo, gameRepo, userRepo := newCartFixture()

	userRepo.On("FindByID", mock.Anything, TestUserID).Return(CreateTestUser(TestUserID, TestUserName), nil)
	gameRepo.On("FindByID", mock.Anything, TestGameID).Return(CreateTestGame(TestGameID, TestTitle), nil)
	gameRepo.On("CurrentPrice", mock.Anything, TestGameID).Return(CreateTestOpenPrice(TestGameID, TestPrice), nil)

	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(nil, nil)
	orderRepo.On("CreateOpen", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Order).ID = TestOrderID
	})
	orderRepo.On("SaveItem", mock.Anything, mock.AnythingOfType("*domain.OrderItem")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.OrderItem).ID = 1
	})
	orderRepo.On("Touch", mock.Anything, TestOrderID, mock.Anything).Return(nil)

	order, err := svc.AddToCart(context.Background(), TestUserID, TestGameID, 2)

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, domain.StatusInitiated, order.Status)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, TestPrice, order.Items[0].Price)
	assert.Equal(t, int64(2), order.Items[0].Quantity)

	orderRepo.AssertExpectations(t)
	gameRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCartService_AddToCart_MergesQuantityWithoutRereadingPrice(t *testing.T) {
	svc, orderRepo, gameRepo, userRepo := newCartFixture()

	existing := CreateTestOpenOrder(TestOrderID, TestUserID, domain.OrderItem{
		ID: 1, OrderID: TestOrderID, GameID: TestGameID, Price: TestPrice, Quantity: 1,
	})

	userRepo.On("FindByID", mock.Anything, TestUserID).Return(CreateTestUser(TestUserID, TestUserName), nil)
	gameRepo.On("FindByID", mock.Anything, TestGameID).Return(CreateTestGame(TestGameID, TestTitle), nil)
	// CurrentPrice is deliberately not stubbed: merging must not read the
	// catalog price, the snapshot from add time wins.

	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(existing, nil)
	orderRepo.On("SaveItem", mock.Anything, mock.AnythingOfType("*domain.OrderItem")).Return(nil)
	orderRepo.On("Touch", mock.Anything, TestOrderID, mock.Anything).Return(nil)

	order, err := svc.AddToCart(context.Background(), TestUserID, TestGameID, 2)

	assert.NoError(t, err)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, int64(3), order.Items[0].Quantity)
	assert.Equal(t, TestPrice, order.Items[0].Price)

	gameRepo.AssertNotCalled(t, "CurrentPrice", mock.Anything, mock.Anything)
	orderRepo.AssertExpectations(t)
}

func TestCartService_AddToCart_RetriesAfterLostCreateRace(t *testing.T) {
	svc, orderRepo, gameRepo, userRepo := newCartFixture()

	winner := CreateTestOpenOrder(TestOrderID, TestUserID)

	userRepo.On("FindByID", mock.Anything, TestUserID).Return(CreateTestUser(TestUserID, TestUserName), nil)
	gameRepo.On("FindByID", mock.Anything, TestGameID).Return(CreateTestGame(TestGameID, TestTitle), nil)
	gameRepo.On("CurrentPrice", mock.Anything, TestGameID).Return(CreateTestOpenPrice(TestGameID, TestPrice), nil)

	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(nil, nil).Once()
	orderRepo.On("CreateOpen", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(domain.ErrDuplicateOpenOrder)
	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(winner, nil).Once()
	orderRepo.On("SaveItem", mock.Anything, mock.AnythingOfType("*domain.OrderItem")).Return(nil)
	orderRepo.On("Touch", mock.Anything, TestOrderID, mock.Anything).Return(nil)

	order, err := svc.AddToCart(context.Background(), TestUserID, TestGameID, 1)

	assert.NoError(t, err)
	assert.Equal(t, TestOrderID, order.ID)
	orderRepo.AssertExpectations(t)
}

func TestCartService_AddToCart_Errors(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int64
		setupMocks func(*mocks.MockOrderRepository, *mocks.MockGameRepository, *mocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:       "non-positive quantity",
			quantity:   0,
			setupMocks: func(*mocks.MockOrderRepository, *mocks.MockGameRepository, *mocks.MockUserRepository) {},
			wantErr:    domain.ErrInvalidArgument,
		},
		{
			name:     "unknown user",
			quantity: 1,
			setupMocks: func(_ *mocks.MockOrderRepository, _ *mocks.MockGameRepository, userRepo *mocks.MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, TestUserID).Return(nil, nil)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:     "unknown game",
			quantity: 1,
			setupMocks: func(_ *mocks.MockOrderRepository, gameRepo *mocks.MockGameRepository, userRepo *mocks.MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, TestUserID).Return(CreateTestUser(TestUserID, TestUserName), nil)
				gameRepo.On("FindByID", mock.Anything, TestGameID).Return(nil, nil)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:     "game never priced",
			quantity: 1,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, gameRepo *mocks.MockGameRepository, userRepo *mocks.MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, TestUserID).Return(CreateTestUser(TestUserID, TestUserName), nil)
				gameRepo.On("FindByID", mock.Anything, TestGameID).Return(CreateTestGame(TestGameID, TestTitle), nil)
				gameRepo.On("CurrentPrice", mock.Anything, TestGameID).Return(nil, nil)
				orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(CreateTestOpenOrder(TestOrderID, TestUserID), nil)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:     "repository error",
			quantity: 1,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, gameRepo *mocks.MockGameRepository, userRepo *mocks.MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, TestUserID).Return(CreateTestUser(TestUserID, TestUserName), nil)
				gameRepo.On("FindByID", mock.Anything, TestGameID).Return(CreateTestGame(TestGameID, TestTitle), nil)
				orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(nil, errors.New("database error"))
			},
			wantErr: nil, // opaque error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orderRepo, gameRepo, userRepo := newCartFixture()
			tt.setupMocks(orderRepo, gameRepo, userRepo)

			order, err := svc.AddToCart(context.Background(), TestUserID, TestGameID, tt.quantity)

			assert.Error(t, err)
			assert.Nil(t, order)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			orderRepo.AssertExpectations(t)
		})
	}
}

func TestCartService_ItemsInCart_EmptyWhenNoOpenOrder(t *testing.T) {
	svc, orderRepo, _, _ := newCartFixture()
	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(nil, nil)

	items, err := svc.ItemsInCart(context.Background(), TestUserID)

	assert.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCartService_RemoveFromCart_NoOpWhenAbsent(t *testing.T) {
	svc, orderRepo, _, _ := newCartFixture()
	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(nil, nil)

	assert.NoError(t, svc.RemoveFromCart(context.Background(), TestUserID, 5))
	orderRepo.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_RemoveFromCart_RemovesAndTouches(t *testing.T) {
	svc, orderRepo, _, _ := newCartFixture()
	order := CreateTestOpenOrder(TestOrderID, TestUserID, domain.OrderItem{ID: 5, OrderID: TestOrderID, GameID: TestGameID})

	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(order, nil)
	orderRepo.On("RemoveItem", mock.Anything, TestOrderID, uint64(5)).Return(nil)
	orderRepo.On("Touch", mock.Anything, TestOrderID, mock.Anything).Return(nil)

	assert.NoError(t, svc.RemoveFromCart(context.Background(), TestUserID, 5))
	orderRepo.AssertExpectations(t)
}

func TestCartService_ClearCart(t *testing.T) {
	svc, orderRepo, _, _ := newCartFixture()
	order := CreateTestOpenOrder(TestOrderID, TestUserID)

	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(order, nil)
	orderRepo.On("ClearItems", mock.Anything, TestOrderID).Return(nil)
	orderRepo.On("Touch", mock.Anything, TestOrderID, mock.Anything).Return(nil)

	assert.NoError(t, svc.ClearCart(context.Background(), TestUserID))
	orderRepo.AssertExpectations(t)
}

func TestCartService_ClearCart_NoOpWhenAbsent(t *testing.T) {
	svc, orderRepo, _, _ := newCartFixture()
	orderRepo.On("FindOpenByUser", mock.Anything, TestUserID).Return(nil, nil)

	assert.NoError(t, svc.ClearCart(context.Background(), TestUserID))
	orderRepo.AssertNotCalled(t, "ClearItems", mock.Anything, mock.Anything)
}
