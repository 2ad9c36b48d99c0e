package config_test

import (
	"testing"

	"checkout-service/config"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("STRIPE_API_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("OWNER_EMAIL", "owner@shop.example")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("MONGO_DB", "")
	t.Setenv("FRONTEND_URL", "")

	cfg, err := config.LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, "checkout", cfg.MongoDB)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
}

func TestLoadConfig_NamesMissingKeys(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONGO_URI", "")
	t.Setenv("OWNER_EMAIL", "")

	_, err := config.LoadConfig()

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "MONGO_URI")
		assert.Contains(t, err.Error(), "OWNER_EMAIL")
		assert.NotContains(t, err.Error(), "STRIPE_API_KEY")
	}
}
