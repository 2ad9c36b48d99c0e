package controllers

import (
	"net/http"

	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Stripe      services.SessionCreator
	FrontendURL string
	Logger      *zap.Logger
}

type checkoutItem struct {
	Name     string `json:"name" binding:"required"`
	Price    string `json:"price" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,min=1"`
}

type checkoutRequest struct {
	CartItems       []checkoutItem `json:"cartItems" binding:"required,min=1,dive"`
	ShippingDetails struct {
		Email string `json:"email" binding:"required,email"`
	} `json:"shippingDetails" binding:"required"`
}

// CreateCheckoutSession starts a Stripe-hosted checkout for the posted cart.
// Display prices arrive as strings ("249,00 kr") and are converted to øre;
// the customer email rides along in session metadata for the webhook side.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = cc.FrontendURL
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		unitAmount, err := services.ParsePriceMinorUnits(item.Price)
		if err != nil {
			cc.Logger.Warn("Rejecting cart item with unparseable price",
				zap.String("name", item.Name),
				zap.String("price", item.Price),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price for item " + item.Name})
			return
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("nok"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(unitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(origin + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(origin + "/cancel"),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"NO"}),
		},
	}
	params.AddMetadata("customer_email", req.ShippingDetails.Email)
	params.AddMetadata("checkout_ref", uuid.NewString())

	sess, err := cc.Stripe.CreateCheckoutSession(c.Request.Context(), params)
	if err != nil {
		cc.Logger.Error("Failed to create Stripe checkout session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": sess.ID})
}
