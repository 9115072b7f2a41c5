package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"game-store/internal/domain"
	"game-store/internal/logging"
	"game-store/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const gameCacheTTL = time.Minute

// CartService manages the user's single open order. The create-if-absent
// path is guarded by the (user_id, open) unique index: on a lost race the
// insert fails with a duplicate key and the lookup is retried once.
type CartService struct {
	orders      repository.OrderRepository
	games       repository.GameRepository
	users       repository.UserRepository
	redisClient *redis.Client
	group       singleflight.Group
}

func NewCartService(orders repository.OrderRepository, games repository.GameRepository, users repository.UserRepository) *CartService {
	return &CartService{
		orders: orders,
		games:  games,
		users:  users,
	}
}

func (s *CartService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *CartService) AddToCart(ctx context.Context, userID, gameID uint64, quantity int64) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrInvalidArgument)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}

	game, err := s.gameWithCache(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", gameID, domain.ErrNotFound)
	}

	order, err := s.openOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if item := order.ItemFor(gameID); item != nil {
		item.Quantity += quantity
		if err := s.orders.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	} else {
		// Snapshot the current price. The price is read fresh here and never
		// from the game cache: a stale snapshot would survive in the cart.
		price, err := s.games.CurrentPrice(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if price == nil {
			return nil, fmt.Errorf("game %d has no current price: %w", gameID, domain.ErrNotFound)
		}
		item := domain.OrderItem{
			OrderID:  order.ID,
			GameID:   gameID,
			Price:    price.Value,
			Quantity: quantity,
			Game:     game,
		}
		if err := s.orders.SaveItem(ctx, &item); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := s.orders.Touch(ctx, order.ID, now); err != nil {
		return nil, err
	}
	order.UpdatedAt = now
	return order, nil
}

// ItemsInCart is read-only; no open cart means an empty list, not an error.
func (s *CartService) ItemsInCart(ctx context.Context, userID uint64) ([]domain.OrderItem, error) {
	order, err := s.orders.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return []domain.OrderItem{}, nil
	}
	return order.Items, nil
}

// RemoveFromCart is a no-op when the cart or the item is absent.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, orderItemID uint64) error {
	order, err := s.orders.FindOpenByUser(ctx, userID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if err := s.orders.RemoveItem(ctx, order.ID, orderItemID); err != nil {
		return err
	}
	return s.orders.Touch(ctx, order.ID, time.Now())
}

// ClearCart is a no-op when the user has no open cart.
func (s *CartService) ClearCart(ctx context.Context, userID uint64) error {
	order, err := s.orders.FindOpenByUser(ctx, userID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if err := s.orders.ClearItems(ctx, order.ID); err != nil {
		return err
	}
	return s.orders.Touch(ctx, order.ID, time.Now())
}

func (s *CartService) openOrder(ctx context.Context, userID uint64) (*domain.Order, error) {
	order, err := s.orders.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return order, nil
	}

	order = domain.NewOpenOrder(userID)
	err = s.orders.CreateOpen(ctx, order)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrDuplicateOpenOrder) {
		return nil, err
	}

	// Lost the race: another request created the cart between our lookup and
	// insert. Re-read once; the duplicate key proves the row exists.
	order, err = s.orders.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrDuplicateOpenOrder
	}
	return order, nil
}

func (s *CartService) gameWithCache(ctx context.Context, gameID uint64) (*domain.Game, error) {
	cacheKey := fmt.Sprintf("game:%d", gameID)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var game domain.Game
			if err := json.Unmarshal([]byte(cached), &game); err == nil {
				return &game, nil
			}
		}
	}

	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		game, err := s.games.FindByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if s.redisClient != nil && game != nil {
			if data, err := json.Marshal(game); err == nil {
				if err := s.redisClient.Set(ctx, cacheKey, data, gameCacheTTL).Err(); err != nil {
					logging.FromCtx(ctx).Warn("game cache set failed", "game_id", gameID, "err", err)
				}
			}
		}
		return game, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Game), nil
}
