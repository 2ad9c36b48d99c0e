package models

import "time"

// Order status values. An order normally goes completed -> shipped;
// requires_reconciliation marks a verified webhook whose provider re-fetch
// failed, to be completed by Stripe's redelivery or an operator.
const (
	StatusCompleted              = "completed"
	StatusShipped                = "shipped"
	StatusRequiresReconciliation = "requires_reconciliation"
)

// LineItem is a snapshot of one purchased line at fulfillment time.
// All amounts are integer minor currency units (øre/cents).
type LineItem struct {
	ProductName string `bson:"product_name" json:"product_name"`
	Quantity    int64  `bson:"quantity" json:"quantity"`
	UnitAmount  int64  `bson:"unit_amount" json:"unit_amount"`
	TotalAmount int64  `bson:"total_amount" json:"total_amount"`
}

// ShippingDetails is the address collected by Stripe Checkout. It is optional
// on an order; rendering must branch on its absence.
type ShippingDetails struct {
	Name       string `bson:"name" json:"name"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	Country    string `bson:"country" json:"country"`
}

// Order is the durable record of a completed checkout. The Stripe checkout
// session id doubles as the document id and the idempotency key: one order
// per session, no matter how many times the webhook is delivered.
type Order struct {
	SessionID         string           `bson:"_id" json:"session_id"`
	CustomerEmail     string           `bson:"customer_email" json:"customer_email"`
	ProductsPurchased []LineItem       `bson:"products_purchased" json:"products_purchased"`
	ShippingDetails   *ShippingDetails `bson:"shipping_details,omitempty" json:"shipping_details,omitempty"`
	TotalAmount       int64            `bson:"total_amount" json:"total_amount"`
	Currency          string           `bson:"currency" json:"currency"`
	Status            string           `bson:"status" json:"status"`
	CreatedAt         time.Time        `bson:"created_at" json:"created_at"`
}
