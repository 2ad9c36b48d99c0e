package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// ErrInvalidSignature marks a webhook body that failed signature
// verification. Callers must respond 400 and must not process the event.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// WebhookParser verifies an inbound webhook request and returns the event.
type WebhookParser interface {
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

// SessionFetcher retrieves the authoritative checkout session from the
// provider, with line items expanded.
type SessionFetcher interface {
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

// SessionCreator starts a provider-hosted checkout flow.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeService struct {
	SecretKey  string
	WebhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey}
}

// ParseWebhook verifies the Stripe-Signature header against the exact raw
// body bytes. Verification covers a timestamp plus the payload with a
// constant-time compare and a freshness tolerance, so replayed or tampered
// deliveries are rejected before any parsing of the content.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, fmt.Errorf("read webhook body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err = webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
	if err != nil {
		return event, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// GetCheckoutSession re-fetches the session by id with line_items expanded.
// The webhook payload's embedded session is a snapshot without expanded
// relations and is not trusted for line-item detail.
func (s *StripeService) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	return session.Get(id, params)
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return session.New(params)
}
