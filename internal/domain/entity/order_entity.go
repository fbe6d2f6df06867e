package entity

import "time"

// OrderSourceManual marks orders recorded by an operator grant rather than a payment.
const OrderSourceManual = "manual"

// Order records how a user came to own a content entry.
type Order struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	ContentID string    `json:"content_id"`
	Source    string    `json:"source"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
