package main

import (
	"context"
	"log"

	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/database"
	"checkout-service/pkg/aws"
	"checkout-service/repository"
	"checkout-service/routes"
	"checkout-service/sender"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to load config:", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect(context.Background(), client)

	ledger := repository.NewMongoLedgerRepo(db)
	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)

	emailSender, err := sender.NewSMTPSender()
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to configure SMTP sender:", err)
	}

	var events aws.SNSPublisher
	if cfg.FulfillmentSNSTopicARN != "" {
		awsCfg, err := aws.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatal("[CheckoutService] ❌ Failed to load AWS config:", err)
		}
		events = aws.NewSNSClient(awsCfg)
	}

	fulfillment := services.NewFulfillmentService(
		stripeSvc,
		ledger,
		emailSender,
		events,
		cfg.FulfillmentSNSTopicARN,
		cfg.OwnerEmail,
		logger,
	)

	r := gin.New()
	r.Use(gin.Recovery())

	wc := &controllers.WebhookController{Stripe: stripeSvc, Fulfillment: fulfillment, Logger: logger}
	cc := &controllers.CheckoutController{Stripe: stripeSvc, FrontendURL: cfg.FrontendURL, Logger: logger}
	dc := &controllers.DashboardController{Ledger: ledger, Logger: logger}
	routes.RegisterRoutes(r, cc, wc, dc)

	logger.Info("checkout-service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[CheckoutService] ❌ Server failed:", err)
	}
}
