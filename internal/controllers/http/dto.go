package http

import "time"

type CartItemView struct {
	OrderItemID uint64 `json:"orderItemId"`
	GameID      uint64 `json:"gameId"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
}

type CartView struct {
	OrderID uint64         `json:"orderId,omitempty"`
	Items   []CartItemView `json:"items"`
	Total   int64          `json:"total"`
}

type CreatePaymentRequest struct {
	OrderID       uint64 `json:"orderId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

type UpdatePaymentRequest struct {
	ID            uint64     `json:"id" binding:"required"`
	PayedAt       *time.Time `json:"payedAt"`
	PaymentMethod *string    `json:"paymentMethod"`
}

type PaymentView struct {
	ID            uint64    `json:"id"`
	OrderID       uint64    `json:"orderId"`
	Confirmed     bool      `json:"confirmed"`
	PayedAt       time.Time `json:"payedAt"`
	PaymentMethod string    `json:"paymentMethod"`
}

type SetPriceRequest struct {
	Value int64  `json:"value" binding:"min=0"`
	Stock *int64 `json:"stock"`
}
