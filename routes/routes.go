package routes

import (
	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public JSON endpoints and the webhook. The webhook
// route stays outside the CORS group and carries no middleware that would
// touch the body before signature verification.
func RegisterRoutes(r *gin.Engine, cc *controllers.CheckoutController, wc *controllers.WebhookController, dc *controllers.DashboardController) {
	api := r.Group("")
	api.Use(cors.Default())
	api.POST("/create-checkout-session", middleware.RateLimitMiddleware(), cc.CreateCheckoutSession)
	api.GET("/orders/:id", dc.GetOrder)
	api.GET("/customers/:email", dc.GetCustomer)
	api.GET("/customers/:email/orders", dc.ListCustomerOrders)

	// Stripe webhook (raw body, no CORS, no auth)
	r.POST("/webhook", wc.StripeWebhook)
}
