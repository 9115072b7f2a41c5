package domain

import "time"

type OrderStatus string

const (
	StatusCreated   OrderStatus = "CREATED"
	StatusInitiated OrderStatus = "INITIATED"
	StatusPayed     OrderStatus = "PAYED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is a user's cart while INITIATED and a purchase once PAYED.
//
// The Open column is 1 while the order is the user's active cart and NULL
// once the order reaches a terminal state. Together with the unique index on
// (user_id, open) it guarantees at most one INITIATED order per user even
// under concurrent creation (MySQL unique indexes ignore NULLs).
type Order struct {
	ID        uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64      `json:"userId" gorm:"not null;index;uniqueIndex:uniq_user_open_order"`
	Status    OrderStatus `json:"status" gorm:"type:enum('CREATED','INITIATED','PAYED','CANCELLED');not null;index"`
	Open      *bool       `json:"-" gorm:"uniqueIndex:uniq_user_open_order"`
	CreatedAt time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment   *Payment    `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the game's price at add time. Later price changes must
// not alter a pending cart, so this is a copied value, not a Price reference.
type OrderItem struct {
	ID       uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID  uint64 `json:"orderId" gorm:"not null;index"`
	GameID   uint64 `json:"gameId" gorm:"not null;index"`
	Price    int64  `json:"price" gorm:"not null"`
	Quantity int64  `json:"quantity" gorm:"not null"`
	Game     *Game  `json:"game,omitempty" gorm:"foreignKey:GameID"`
}

// NewOpenOrder creates the user's active cart. Carts are born INITIATED;
// CREATED is a transient pre-cart state the cart flow never persists.
func NewOpenOrder(userID uint64) *Order {
	open := true
	now := time.Now()
	return &Order{
		UserID:    userID,
		Status:    StatusInitiated,
		Open:      &open,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ItemFor returns the line item referencing the game, or nil.
func (o *Order) ItemFor(gameID uint64) *OrderItem {
	for i := range o.Items {
		if o.Items[i].GameID == gameID {
			return &o.Items[i]
		}
	}
	return nil
}

func (o *Order) Total() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Price * o.Items[i].Quantity
	}
	return total
}

// Settle transitions INITIATED -> PAYED. PAYED and CANCELLED are terminal.
func (o *Order) Settle(at time.Time) error {
	if o.Status == StatusPayed {
		return ErrAlreadyPaid
	}
	if o.Status != StatusInitiated {
		return ErrOrderClosed
	}
	o.Status = StatusPayed
	o.Open = nil
	o.UpdatedAt = at
	return nil
}

// Cancel transitions INITIATED -> CANCELLED.
func (o *Order) Cancel(at time.Time) error {
	if o.Status == StatusPayed {
		return ErrAlreadyPaid
	}
	if o.Status != StatusInitiated {
		return ErrOrderClosed
	}
	o.Status = StatusCancelled
	o.Open = nil
	o.UpdatedAt = at
	return nil
}
