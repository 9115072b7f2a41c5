package services

import (
	"context"
	"fmt"
	"time"

	"game-store/internal/domain"
	rabbit "game-store/internal/infra/rabbitmq"
	"game-store/internal/logging"
	"game-store/internal/repository"
)

// PaymentService performs settlement: licenses, payment row and the status
// flip commit as one transaction through the order repository.
type PaymentService struct {
	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	users     repository.UserRepository
	issuer    LicenseIssuer
	publisher rabbit.PublisherInterface
}

func NewPaymentService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	issuer LicenseIssuer,
	publisher rabbit.PublisherInterface,
) *PaymentService {
	return &PaymentService{
		orders:    orders,
		payments:  payments,
		users:     users,
		issuer:    issuer,
		publisher: publisher,
	}
}

func (s *PaymentService) Settle(ctx context.Context, orderID uint64, paymentMethod string) (*domain.Invoice, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	if order.Status == domain.StatusPayed {
		return nil, domain.ErrAlreadyPaid
	}
	if order.Status != domain.StatusInitiated {
		return nil, domain.ErrOrderClosed
	}

	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", order.UserID, domain.ErrNotFound)
	}

	now := time.Now()
	grants := make([]domain.UserGameStock, 0, len(order.Items))
	lines := make([]domain.InvoiceLine, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		license := s.issuer.Issue(order.UserID, item.GameID)
		grants = append(grants, domain.UserGameStock{
			UserID:  order.UserID,
			GameID:  item.GameID,
			License: license,
		})
		title := ""
		if item.Game != nil {
			title = item.Game.Title
		}
		lines = append(lines, domain.InvoiceLine{GameTitle: title, License: license})
	}

	payment := &domain.Payment{
		OrderID:       order.ID,
		Confirmed:     true,
		PayedAt:       now,
		PaymentMethod: paymentMethod,
	}

	// The repository runs this as one transaction. A concurrent settlement
	// of the same order loses on the row lock and surfaces ErrAlreadyPaid;
	// none of its grants survive.
	if err := s.orders.Settle(ctx, order.ID, payment, grants, now); err != nil {
		return nil, err
	}

	go s.publishOrderSettled(context.Background(), order, now)

	return &domain.Invoice{
		OrderID: order.ID,
		UserID:  order.UserID,
		Buyer:   user.Name,
		PayedAt: now,
		Total:   order.Total(),
		Lines:   lines,
	}, nil
}

// UpdateSettlement patches the payment record. Nil fields stay unchanged;
// a future payed-at is rejected.
func (s *PaymentService) UpdateSettlement(ctx context.Context, paymentID uint64, payedAt *time.Time, paymentMethod *string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %d: %w", paymentID, domain.ErrNotFound)
	}

	if payedAt != nil {
		if payedAt.After(time.Now()) {
			return nil, fmt.Errorf("payed_at must not be in the future: %w", domain.ErrInvalidArgument)
		}
		payment.PayedAt = *payedAt
	}
	if paymentMethod != nil {
		payment.PaymentMethod = *paymentMethod
	}

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) publishOrderSettled(ctx context.Context, order *domain.Order, payedAt time.Time) {
	if s.publisher == nil {
		return
	}
	evt := domain.OrderSettledEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total(),
		PayedAt: payedAt,
	}
	if err := s.publisher.Publish(ctx, "order.settled", evt); err != nil {
		logging.FromCtx(ctx).Error("failed to publish order.settled", "order_id", order.ID, "err", err)
	}
}
