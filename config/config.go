package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string
	// VercelPreviewPrefix allows preview deployments of the frontend
	// (<prefix>-*.vercel.app) to call the API. Empty disables previews;
	// a bare wildcard would let any Vercel tenant call cross-origin.
	VercelPreviewPrefix string
	// SMTP Configuration (Gmail by default, any submission relay works)
	SMTPHost  string
	SMTPPort  string
	EmailUser string // relay login, doubles as the From address
	EmailPass string
	EmailTo   string // site owner's inbox
	// Redis/Upstash Configuration (optional, used by rate limiting + visitor counter)
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitContactLimit    int
	RateLimitGlobalThreshold int
}

func LoadConfig() (*Config, error) {
	// .env is only present in local development; ignored elsewhere
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		// Trailing slash stripped so origin comparison is exact
		FrontendURL:         strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		VercelPreviewPrefix: getEnv("VERCEL_PREVIEW_PREFIX", ""),
		SMTPHost:            getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		EmailUser:           getEnv("EMAIL_USER", ""),
		EmailPass:           getEnv("EMAIL_PASS", ""),
		EmailTo:             getEnv("EMAIL_TO", ""),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitContactLimit:    getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 5),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	return cfg, nil
}

// MailConfigured reports whether the SMTP credentials required for the
// contact form are all present. Absence is a deployment defect, not a user
// error; callers surface it as "service unavailable".
func (c *Config) MailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != "" && c.EmailTo != ""
}

// MissingMailVars lists which of the required mail variables are absent,
// for startup logging only (never sent to clients).
func (c *Config) MissingMailVars() []string {
	var missing []string
	if c.EmailUser == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.EmailPass == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if c.EmailTo == "" {
		missing = append(missing, "EMAIL_TO")
	}
	return missing
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
