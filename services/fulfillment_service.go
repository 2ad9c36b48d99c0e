package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"checkout-service/models"
	"checkout-service/pkg/aws"
	"checkout-service/repository"
	"checkout-service/sender"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// FulfillmentService turns verified webhook events into durable orders.
type FulfillmentService interface {
	ProcessEvent(ctx context.Context, event stripe.Event) error
}

type fulfillmentService struct {
	provider   SessionFetcher
	ledger     repository.LedgerRepository
	email      sender.EmailSender
	events     aws.SNSPublisher
	topicArn   string
	ownerEmail string
	logger     *zap.Logger
}

func NewFulfillmentService(
	provider SessionFetcher,
	ledger repository.LedgerRepository,
	email sender.EmailSender,
	events aws.SNSPublisher,
	topicArn string,
	ownerEmail string,
	logger *zap.Logger,
) FulfillmentService {
	return &fulfillmentService{
		provider:   provider,
		ledger:     ledger,
		email:      email,
		events:     events,
		topicArn:   topicArn,
		ownerEmail: ownerEmail,
		logger:     logger,
	}
}

// ProcessEvent dispatches a verified event by type. Only
// checkout.session.completed triggers fulfillment; unknown types are logged
// and acknowledged so future provider event types never cause failures.
func (s *fulfillmentService) ProcessEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	default:
		s.logger.Info("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
		)
		return nil
	}
}

func (s *fulfillmentService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var snapshot stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &snapshot); err != nil {
		s.logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		return fmt.Errorf("decode checkout session: %w", err)
	}

	order, err := s.materializeOrder(ctx, snapshot.ID)
	if err != nil {
		s.logger.Error("Failed to materialize order from provider",
			zap.String("session_id", snapshot.ID),
			zap.Error(err),
		)
		email := ""
		if snapshot.CustomerDetails != nil {
			email = snapshot.CustomerDetails.Email
		}
		if markErr := s.ledger.MarkReconciliation(ctx, snapshot.ID, email); markErr != nil {
			s.logger.Error("Failed to mark order for reconciliation",
				zap.String("session_id", snapshot.ID),
				zap.Error(markErr),
			)
		}
		return err
	}

	firstFulfillment, err := s.ledger.UpsertOrder(ctx, order)
	if err != nil {
		// Stripe's redelivery is the recovery path for persistence failures.
		s.logger.Error("Failed to persist order",
			zap.String("session_id", order.SessionID),
			zap.Error(err),
		)
		return err
	}
	// Applied on every delivery: the ledger makes the delta a no-op once the
	// order id is in the customer's set, so a redelivery repairs an increment
	// lost to a write failure after the order was persisted.
	if order.CustomerEmail == "" {
		s.logger.Warn("Missing customer email, skipping customer aggregate",
			zap.String("session_id", order.SessionID),
		)
	} else if err := s.ledger.ApplyCustomerDelta(ctx, order.CustomerEmail, order.SessionID, order.TotalAmount); err != nil {
		s.logger.Error("Failed to update customer aggregate",
			zap.String("session_id", order.SessionID),
			zap.String("customer_email", order.CustomerEmail),
			zap.Error(err),
		)
		return err
	}

	if !firstFulfillment {
		s.logger.Info("Skipping duplicate checkout webhook",
			zap.String("session_id", order.SessionID),
		)
		return nil
	}

	s.publishFulfillmentEvent(ctx, order)
	s.sendOrderEmails(ctx, order)

	s.logger.Info("Order fulfilled",
		zap.String("session_id", order.SessionID),
		zap.String("customer_email", order.CustomerEmail),
		zap.Int64("total_amount", order.TotalAmount),
		zap.String("currency", order.Currency),
	)
	return nil
}

// materializeOrder expands the completed session into a full order by
// re-querying the provider. Line items keep the provider's insertion order;
// all amounts stay in integer minor units.
func (s *fulfillmentService) materializeOrder(ctx context.Context, sessionID string) (*models.Order, error) {
	sess, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("checkout session fetch failed: %w", err)
	}

	order := &models.Order{
		SessionID:   sess.ID,
		TotalAmount: sess.AmountTotal,
		Currency:    string(sess.Currency),
		Status:      models.StatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}

	if sess.CustomerDetails != nil {
		order.CustomerEmail = strings.ToLower(sess.CustomerDetails.Email)
	}
	if order.CustomerEmail == "" {
		// The session-creation path stores the email in metadata as well.
		order.CustomerEmail = strings.ToLower(sess.Metadata["customer_email"])
	}

	if sess.LineItems != nil {
		for _, li := range sess.LineItems.Data {
			item := models.LineItem{
				ProductName: li.Description,
				Quantity:    li.Quantity,
				TotalAmount: li.AmountTotal,
			}
			if li.Price != nil {
				item.UnitAmount = li.Price.UnitAmount
				if item.ProductName == "" && li.Price.Product != nil {
					item.ProductName = li.Price.Product.Name
				}
			}
			order.ProductsPurchased = append(order.ProductsPurchased, item)
		}
	}

	if sess.ShippingDetails != nil {
		details := &models.ShippingDetails{Name: sess.ShippingDetails.Name}
		if addr := sess.ShippingDetails.Address; addr != nil {
			details.Line1 = addr.Line1
			details.Line2 = addr.Line2
			details.City = addr.City
			details.State = addr.State
			details.PostalCode = addr.PostalCode
			details.Country = addr.Country
		}
		order.ShippingDetails = details
	}

	return order, nil
}

// publishFulfillmentEvent fans the completed order out to SNS. Best-effort;
// a publish failure is logged and never affects the persisted order.
func (s *fulfillmentService) publishFulfillmentEvent(ctx context.Context, order *models.Order) {
	if s.events == nil || s.topicArn == "" {
		return
	}

	payload, _ := json.Marshal(models.FulfillmentEvent{
		Type:          "order_completed",
		OrderID:       order.SessionID,
		CustomerEmail: order.CustomerEmail,
		Amount:        order.TotalAmount,
		Currency:      order.Currency,
		Timestamp:     time.Now().UTC(),
	})
	if err := s.events.Publish(ctx, s.topicArn, payload); err != nil {
		s.logger.Error("Failed to publish fulfillment event to SNS",
			zap.String("session_id", order.SessionID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Fulfillment event published to SNS",
		zap.String("session_id", order.SessionID),
	)
}

// sendOrderEmails sends the customer confirmation and the operator
// notification as independent parallel attempts. A failure of either is
// logged only; notification is strictly downstream of persistence.
func (s *fulfillmentService) sendOrderEmails(ctx context.Context, order *models.Order) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if order.CustomerEmail == "" {
			s.logger.Warn("Missing customer email, skipping confirmation",
				zap.String("session_id", order.SessionID),
			)
			return
		}
		textBody, htmlBody, err := renderCustomerEmail(order)
		if err != nil {
			s.logger.Error("Failed to render confirmation email", zap.Error(err))
			return
		}
		if _, err := s.email.SendEmail(ctx, order.CustomerEmail, "Order confirmation", textBody, htmlBody); err != nil {
			s.logger.Error("Failed to send customer confirmation email",
				zap.String("session_id", order.SessionID),
				zap.String("to", order.CustomerEmail),
				zap.Error(err),
			)
		}
	}()

	go func() {
		defer wg.Done()
		textBody, htmlBody, err := renderOwnerEmail(order)
		if err != nil {
			s.logger.Error("Failed to render owner notification email", zap.Error(err))
			return
		}
		if _, err := s.email.SendEmail(ctx, s.ownerEmail, "New order "+order.SessionID, textBody, htmlBody); err != nil {
			s.logger.Error("Failed to send owner notification email",
				zap.String("session_id", order.SessionID),
				zap.String("to", s.ownerEmail),
				zap.Error(err),
			)
		}
	}()

	wg.Wait()
}
