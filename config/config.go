package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Dynamo   DynamoConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	AMQP     AMQPConfig
	Payments PaymentsConfig
	Gemini   GeminiConfig
	Jobs     JobsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	DraftsPerMinute    int
}

type DynamoConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	EstimatesTable  string
	PaymentsTable   string
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

type FirebaseConfig struct {
	CredentialsPath string
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type PaymentsConfig struct {
	MercadoPagoAccessToken string
	MockMode               bool
	SandboxPayerEmail      string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type JobsConfig struct {
	ExpirySchedule     string
	EstimatePendingTTL time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

// Load reads the process environment. The .env file, if any, is loaded
// beforehand by godotenv/autoload in main.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			DraftsPerMinute:    getEnvAsInt("DRAFTS_PER_MINUTE", 10),
		},
		Dynamo: DynamoConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", "local"),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", "local"),
			Endpoint:        getEnv("DYNAMODB_ENDPOINT", ""),
			EstimatesTable:  getEnv("ESTIMATES_TABLE", "estimates"),
			PaymentsTable:   getEnv("PAYMENTS_TABLE", "payments"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "estimates"),
			Queue:    getEnv("AMQP_QUEUE", "estimate.saved"),
		},
		Payments: PaymentsConfig{
			MercadoPagoAccessToken: getEnv("MERCADOPAGO_ACCESS_TOKEN", ""),
			MockMode:               getEnvAsBool("PAYMENT_GATEWAY_MOCK", false) || getEnvAsBool("MERCADOPAGO_MOCK", false),
			SandboxPayerEmail:      getEnv("MERCADOPAGO_SANDBOX_PAYER_EMAIL", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Jobs: JobsConfig{
			ExpirySchedule:     getEnv("EXPIRY_SCHEDULE", "@every 1h"),
			EstimatePendingTTL: getEnvAsDuration("ESTIMATE_PENDING_TTL", 30*24*time.Hour),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Dynamo.EstimatesTable == "" || c.Dynamo.PaymentsTable == "" {
		return fmt.Errorf("ESTIMATES_TABLE and PAYMENTS_TABLE are required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.Redis.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Jobs.EstimatePendingTTL <= 0 {
		return fmt.Errorf("ESTIMATE_PENDING_TTL must be positive")
	}
	if c.IsProduction() && c.Firebase.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "default", defaultValue.String())
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return defaultValue
	case "1", "true", "yes", "on", "mock":
		return true
	default:
		return false
	}
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
