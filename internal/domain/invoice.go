package domain

import "time"

// Invoice is the structured record handed to the external document renderer.
// This service knows nothing about the rendered format.
type Invoice struct {
	OrderID uint64        `json:"orderId"`
	UserID  uint64        `json:"userId"`
	Buyer   string        `json:"buyer"`
	PayedAt time.Time     `json:"payedAt"`
	Total   int64         `json:"total"`
	Lines   []InvoiceLine `json:"lines"`
}

type InvoiceLine struct {
	GameTitle string `json:"gameTitle"`
	License   string `json:"license"`
}
