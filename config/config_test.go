package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SESSION_TTL", "ESTIMATE_PENDING_TTL", "CORS_ALLOWED_ORIGINS", "APP_ENV", "PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SessionTTL)
	assert.Equal(t, 720*time.Hour, cfg.Jobs.EstimatePendingTTL)
	assert.Equal(t, "@every 1h", cfg.Jobs.ExpirySchedule)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.Payments.MockMode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "yes")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SessionTTL)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.Payments.MockMode)
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("FIREBASE_CREDENTIALS_PATH", "")

	_, err := Load()
	require.Error(t, err)

	cfg := &Config{
		Server: ServerConfig{Port: "8080"},
		Dynamo: DynamoConfig{EstimatesTable: "e", PaymentsTable: "p"},
		Redis:  RedisConfig{Addr: "x:6379", SessionTTL: time.Minute},
		Jobs:   JobsConfig{EstimatePendingTTL: time.Hour},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Redis.SessionTTL = 0
	assert.Error(t, cfg.Validate())
}
