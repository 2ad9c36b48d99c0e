package models

import "time"

// Customer is the running aggregate per purchasing email. Invariant:
// TotalSpent equals the sum of TotalAmount across the orders in Orders.
// The email is lowercased and used as the document id.
type Customer struct {
	Email      string    `bson:"_id" json:"email"`
	Orders     []string  `bson:"orders" json:"orders"`
	TotalSpent int64     `bson:"total_spent" json:"total_spent"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
