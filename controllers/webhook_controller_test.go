package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkout-service/controllers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type mockParser struct {
	event stripe.Event
	err   error
}

func (m *mockParser) ParseWebhook(_ *http.Request) (stripe.Event, error) {
	return m.event, m.err
}

type mockFulfillment struct {
	processed chan stripe.Event
}

func (m *mockFulfillment) ProcessEvent(_ context.Context, event stripe.Event) error {
	m.processed <- event
	return nil
}

func newWebhookRouter(parser *mockParser, fulfillment *mockFulfillment) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	wc := &controllers.WebhookController{
		Stripe:      parser,
		Fulfillment: fulfillment,
		Logger:      zap.NewNop(),
	}
	r.POST("/webhook", wc.StripeWebhook)
	return r
}

func TestStripeWebhook_InvalidSignature(t *testing.T) {
	fulfillment := &mockFulfillment{processed: make(chan stripe.Event, 1)}
	r := newWebhookRouter(&mockParser{err: errors.New("signature mismatch")}, fulfillment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{}"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	select {
	case <-fulfillment.processed:
		t.Fatal("fulfillment must not run for an unverified event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStripeWebhook_AcksAndProcessesInBackground(t *testing.T) {
	event := stripe.Event{ID: "evt_1", Type: "checkout.session.completed"}
	fulfillment := &mockFulfillment{processed: make(chan stripe.Event, 1)}
	r := newWebhookRouter(&mockParser{event: event}, fulfillment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{}"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())

	select {
	case got := <-fulfillment.processed:
		assert.Equal(t, "evt_1", got.ID)
	case <-time.After(time.Second):
		t.Fatal("fulfillment was not invoked")
	}
}

func TestStripeWebhook_AcksUnknownEventTypes(t *testing.T) {
	event := stripe.Event{ID: "evt_2", Type: "payment_intent.created"}
	fulfillment := &mockFulfillment{processed: make(chan stripe.Event, 1)}
	r := newWebhookRouter(&mockParser{event: event}, fulfillment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{}"))
	r.ServeHTTP(w, req)

	// The dispatcher decides what to do with the type; the handler acks anything verified.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())
}
