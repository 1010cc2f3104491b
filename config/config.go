package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Redis (page store)
	RedisURL string

	// Stripe
	StripeSecretKey       string
	StripeWebhookSecret   string
	StripeTimeoutSeconds  int
	SubscriptionTrialDays int

	// Site
	SiteURL string

	// Admin
	AdminAPIToken string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Email
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		// Stripe
		StripeSecretKey:       getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:   getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeTimeoutSeconds:  getEnvAsInt("STRIPE_TIMEOUT_SECONDS", 8),
		SubscriptionTrialDays: getEnvAsInt("SUBSCRIPTION_TRIAL_DAYS", 0),

		// Site
		SiteURL: getEnv("SITE_URL", "https://www.thecloudsteward.com"),

		// Admin
		AdminAPIToken: getEnv("ADMIN_API_TOKEN", ""),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"https://www.thecloudsteward.com",
			"https://thecloudsteward.com",
		}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 10),

		// Email
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@thecloudsteward.com"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "The Cloud Steward"),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
