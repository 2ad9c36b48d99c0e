package controllers

import (
	"context"
	"net/http"
	"time"

	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fulfillmentTimeout bounds a single background fulfillment run (provider
// re-fetch, store writes, emails). It is independent of the webhook response,
// which is sent as soon as verification succeeds.
const fulfillmentTimeout = 30 * time.Second

type WebhookController struct {
	Stripe      services.WebhookParser
	Fulfillment services.FulfillmentService
	Logger      *zap.Logger
}

// StripeWebhook receives Stripe webhook deliveries. The signature is the only
// thing that decides the response code: a bad signature is a 400 with no
// processing, a good one is acked {"received": true} immediately while
// fulfillment runs in the background. Downstream failures are absorbed so
// Stripe never mistakes a store or mail glitch for a delivery failure.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.String(http.StatusBadRequest, "Webhook Error: %v", err)
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fulfillmentTimeout)
		defer cancel()
		if err := wc.Fulfillment.ProcessEvent(ctx, event); err != nil {
			wc.Logger.Error("Webhook fulfillment failed",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"received": true})
}
