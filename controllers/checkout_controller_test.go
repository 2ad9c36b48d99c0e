package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"checkout-service/controllers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type mockSessionCreator struct {
	params *stripe.CheckoutSessionParams
	sess   *stripe.CheckoutSession
	err    error
}

func (m *mockSessionCreator) CreateCheckoutSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.params = params
	return m.sess, m.err
}

func newCheckoutRouter(creator *mockSessionCreator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cc := &controllers.CheckoutController{
		Stripe:      creator,
		FrontendURL: "http://localhost:3000",
		Logger:      zap.NewNop(),
	}
	r.POST("/create-checkout-session", cc.CreateCheckoutSession)
	return r
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	creator := &mockSessionCreator{sess: &stripe.CheckoutSession{ID: "cs_test_123"}}
	r := newCheckoutRouter(creator)

	body := `{
		"cartItems": [
			{"name": "Wool beanie", "price": "249,00 kr", "quantity": 2},
			{"name": "Knit scarf", "price": "399,00 kr", "quantity": 1}
		],
		"shippingDetails": {"email": "kari@example.com"}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/create-checkout-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://shop.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": "cs_test_123"}`, w.Body.String())

	if !assert.NotNil(t, creator.params) {
		return
	}
	if assert.Len(t, creator.params.LineItems, 2) {
		first := creator.params.LineItems[0]
		assert.Equal(t, int64(24900), *first.PriceData.UnitAmount)
		assert.Equal(t, "Wool beanie", *first.PriceData.ProductData.Name)
		assert.Equal(t, int64(2), *first.Quantity)
		assert.Equal(t, "nok", *first.PriceData.Currency)
	}
	assert.Equal(t, "kari@example.com", creator.params.Metadata["customer_email"])
	assert.NotEmpty(t, creator.params.Metadata["checkout_ref"])
	assert.Equal(t, "https://shop.example/success?session_id={CHECKOUT_SESSION_ID}", *creator.params.SuccessURL)
	assert.Equal(t, "https://shop.example/cancel", *creator.params.CancelURL)
}

func TestCreateCheckoutSession_MissingEmail(t *testing.T) {
	creator := &mockSessionCreator{sess: &stripe.CheckoutSession{ID: "cs_test_123"}}
	r := newCheckoutRouter(creator)

	body := `{"cartItems": [{"name": "Wool beanie", "price": "249,00 kr", "quantity": 1}], "shippingDetails": {}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/create-checkout-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, creator.params)
}

func TestCreateCheckoutSession_UnparseablePrice(t *testing.T) {
	creator := &mockSessionCreator{sess: &stripe.CheckoutSession{ID: "cs_test_123"}}
	r := newCheckoutRouter(creator)

	body := `{"cartItems": [{"name": "Mystery box", "price": "gratis", "quantity": 1}], "shippingDetails": {"email": "kari@example.com"}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/create-checkout-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, creator.params)
}

func TestCreateCheckoutSession_FallsBackToConfiguredOrigin(t *testing.T) {
	creator := &mockSessionCreator{sess: &stripe.CheckoutSession{ID: "cs_test_123"}}
	r := newCheckoutRouter(creator)

	body := `{"cartItems": [{"name": "Wool beanie", "price": "249,00 kr", "quantity": 1}], "shippingDetails": {"email": "kari@example.com"}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/create-checkout-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000/cancel", *creator.params.CancelURL)
}
