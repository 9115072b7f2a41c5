package mysql

import (
	"context"
	"errors"
	"time"

	"game-store/internal/domain"
	"game-store/internal/repository"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func isDuplicateKey(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func (r *orderRepo) FindOpenByUser(ctx context.Context, userID uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Game").
		Where("user_id = ? AND status = ?", userID, domain.StatusInitiated).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) CreateOpen(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrDuplicateOpenOrder
		}
		return err
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Game").
		Preload("Payment").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) SaveItem(ctx context.Context, item *domain.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Game").Save(item).Error
}

func (r *orderRepo) RemoveItem(ctx context.Context, orderID, itemID uint64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ? AND id = ?", orderID, itemID).
		Delete(&domain.OrderItem{}).Error
}

func (r *orderRepo) ClearItems(ctx context.Context, orderID uint64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&domain.OrderItem{}).Error
}

func (r *orderRepo) Touch(ctx context.Context, orderID uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("updated_at", at).Error
}

func (r *orderRepo) ListByUser(ctx context.Context, q repository.OrderQuery) ([]domain.Order, error) {
	tx := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Game").
		Preload("Payment").
		Where("user_id = ?", q.UserID)
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at <= ?", *q.To)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset((q.Page - 1) * q.Limit)
	}

	var out []domain.Order
	if err := tx.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Settle is the single atomic unit of the payment flow: grants, payment row
// and the status flip commit together or roll back together. The row lock
// plus the conditional update make concurrent settlements of one order
// resolve to exactly one winner.
func (r *orderRepo) Settle(ctx context.Context, orderID uint64, payment *domain.Payment, grants []domain.UserGameStock, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if o.Status == domain.StatusPayed {
			return domain.ErrAlreadyPaid
		}
		if o.Status != domain.StatusInitiated {
			return domain.ErrOrderClosed
		}

		if len(grants) > 0 {
			if err := tx.Create(&grants).Error; err != nil {
				if isDuplicateKey(err) {
					return domain.ErrAlreadyPaid
				}
				return err
			}
		}

		payment.OrderID = orderID
		if err := tx.Create(payment).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrAlreadyPaid
			}
			return err
		}

		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", orderID, domain.StatusInitiated).
			Updates(map[string]any{
				"status":     domain.StatusPayed,
				"open":       nil,
				"updated_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyPaid
		}
		return nil
	})
}
