package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"checkout-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// LedgerRepository is the durable store for orders and customer aggregates.
//
// Orders are keyed by checkout session id, so the webhook's at-least-once
// delivery collapses to exactly one order document. UpsertOrder reports
// whether the write completed the order for the first time; callers trigger
// notifications and event fan-out only on a first fulfillment.
// ApplyCustomerDelta is idempotent per (email, orderID) and is applied on
// every delivery, so an increment lost to a transient write failure is
// repaired by the provider's redelivery.
type LedgerRepository interface {
	UpsertOrder(ctx context.Context, order *models.Order) (firstFulfillment bool, err error)
	ApplyCustomerDelta(ctx context.Context, email, orderID string, amount int64) error
	MarkReconciliation(ctx context.Context, sessionID, email string) error
	GetOrder(ctx context.Context, sessionID string) (*models.Order, error)
	GetCustomer(ctx context.Context, email string) (*models.Customer, error)
	ListCustomerOrders(ctx context.Context, email string) ([]models.Order, error)
}

type mongoLedgerRepo struct {
	orders    *mongo.Collection
	customers *mongo.Collection
}

func NewMongoLedgerRepo(db *mongo.Database) LedgerRepository {
	return &mongoLedgerRepo{
		orders:    db.Collection("orders"),
		customers: db.Collection("customers"),
	}
}

// UpsertOrder writes the order keyed by session id. created_at is only set on
// insert, so a redelivered event never moves the creation timestamp.
//
// The pre-image of the document decides firstFulfillment: absent or a
// reconciliation stub means this write completed the order. Concurrent
// duplicate deliveries race on a single atomic document operation, so exactly
// one of them observes a first fulfillment.
func (r *mongoLedgerRepo) UpsertOrder(ctx context.Context, order *models.Order) (bool, error) {
	filter := bson.M{"_id": order.SessionID}
	update := bson.M{
		"$set": bson.M{
			"customer_email":     order.CustomerEmail,
			"products_purchased": order.ProductsPurchased,
			"shipping_details":   order.ShippingDetails,
			"total_amount":       order.TotalAmount,
			"currency":           order.Currency,
			"status":             models.StatusCompleted,
		},
		"$setOnInsert": bson.M{
			"created_at": order.CreatedAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var before models.Order
	err := r.orders.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err == mongo.ErrNoDocuments {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("order upsert failed: %w", err)
	}
	return before.Status == models.StatusRequiresReconciliation, nil
}

// ApplyCustomerDelta adds the order id to the customer's order set and
// increments total_spent in a single atomic update, creating the customer on
// first purchase. The filter excludes customers that already contain the
// order id, so the delta applies at most once per order however often the
// webhook is redelivered; $inc never runs without the matching $push.
func (r *mongoLedgerRepo) ApplyCustomerDelta(ctx context.Context, email, orderID string, amount int64) error {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":    normalizeEmail(email),
		"orders": bson.M{"$ne": orderID},
	}
	update := bson.M{
		"$push":        bson.M{"orders": orderID},
		"$inc":         bson.M{"total_spent": amount},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := r.customers.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// Lost an insert race: the customer document exists now. Retry
		// without upsert; matching zero documents means this order id is
		// already counted.
		_, err = r.customers.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return fmt.Errorf("customer aggregate update failed: %w", err)
	}
	return nil
}

// MarkReconciliation records a stub order for a verified event whose provider
// re-fetch failed. $setOnInsert only, so it never clobbers a completed order
// and a later redelivery can still finish the fulfillment.
func (r *mongoLedgerRepo) MarkReconciliation(ctx context.Context, sessionID, email string) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"customer_email": normalizeEmail(email),
			"status":         models.StatusRequiresReconciliation,
			"created_at":     time.Now().UTC(),
		},
	}

	_, err := r.orders.UpdateOne(ctx, bson.M{"_id": sessionID}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("reconciliation mark failed: %w", err)
	}
	return nil
}

func (r *mongoLedgerRepo) GetOrder(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order lookup failed: %w", err)
	}
	return &order, nil
}

func (r *mongoLedgerRepo) GetCustomer(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.customers.FindOne(ctx, bson.M{"_id": normalizeEmail(email)}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	return &customer, nil
}

func (r *mongoLedgerRepo) ListCustomerOrders(ctx context.Context, email string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.orders.Find(ctx, bson.M{"customer_email": normalizeEmail(email)}, opts)
	if err != nil {
		return nil, fmt.Errorf("order query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("order decode failed: %w", err)
	}
	return orders, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
