package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port                   string
	Env                    string
	MongoURI               string
	MongoDB                string
	StripeSecretKey        string
	StripeWebhookKey       string
	OwnerEmail             string // operator address for new-order notifications
	FrontendURL            string // fallback origin for success/cancel URLs
	FulfillmentSNSTopicARN string // optional; empty disables event fan-out
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8089"),
		Env:                    getEnv("ENV", "development"),
		MongoURI:               os.Getenv("MONGO_URI"),
		MongoDB:                getEnv("MONGO_DB", "checkout"),
		StripeSecretKey:        os.Getenv("STRIPE_API_KEY"),
		StripeWebhookKey:       os.Getenv("STRIPE_WEBHOOK_SECRET"),
		OwnerEmail:             os.Getenv("OWNER_EMAIL"),
		FrontendURL:            getEnv("FRONTEND_URL", "http://localhost:3000"),
		FulfillmentSNSTopicARN: os.Getenv("FULFILLMENT_SNS_TOPIC_ARN"),
	}

	var missing []string
	for _, required := range []struct {
		key string
		val string
	}{
		{"MONGO_URI", cfg.MongoURI},
		{"STRIPE_API_KEY", cfg.StripeSecretKey},
		{"STRIPE_WEBHOOK_SECRET", cfg.StripeWebhookKey},
		{"OWNER_EMAIL", cfg.OwnerEmail},
	} {
		if required.val == "" {
			missing = append(missing, required.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
