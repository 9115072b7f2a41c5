package services

import (
	"time"

	"game-store/internal/domain"
)

func CreateTestUser(id uint64, name string) *domain.User {
	return &domain.User{ID: id, Name: name, Email: name + "@example.com"}
}

func CreateTestGame(id uint64, title string) *domain.Game {
	return &domain.Game{ID: id, Title: title}
}

func CreateTestOpenPrice(gameID uint64, value int64) *domain.GamePrice {
	return domain.NewOpenPrice(gameID, value, nil, time.Now().Add(-time.Hour))
}

func CreateTestOpenOrder(id, userID uint64, items ...domain.OrderItem) *domain.Order {
	order := domain.NewOpenOrder(userID)
	order.ID = id
	order.Items = items
	return order
}

const (
	TestUserID   = uint64(1)
	TestGameID   = uint64(10)
	TestOrderID  = uint64(100)
	TestPrice    = int64(1000)
	TestUserName = "Test Buyer"
	TestTitle    = "Test Game"
)
