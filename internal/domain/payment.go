package domain

import "time"

// Payment is the one-to-one settlement record of a PAYED order. It is
// created exactly once at settlement; later edits only patch the date or
// the method.
type Payment struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID       uint64    `json:"orderId" gorm:"not null;uniqueIndex"`
	Confirmed     bool      `json:"confirmed" gorm:"not null"`
	PayedAt       time.Time `json:"payedAt" gorm:"not null"`
	PaymentMethod string    `json:"paymentMethod" gorm:"type:varchar(64);not null"`
}
