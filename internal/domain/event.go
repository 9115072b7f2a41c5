package domain

import "time"

type OrderSettledEvent struct {
	OrderID uint64    `json:"orderId"`
	UserID  uint64    `json:"userId"`
	Total   int64     `json:"total"`
	PayedAt time.Time `json:"payedAt"`
}
