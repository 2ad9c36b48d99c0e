package models

import "time"

// FulfillmentEvent is the message published to SNS after an order is
// persisted for the first time, for downstream services to consume.
type FulfillmentEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}
