package config

import (
	"os"
	"strconv"
)

type R2 struct {
	AccountID     string
	AccessKey     string
	SecretKey     string
	BucketName    string
	PublicBaseURL string
}

type Config struct {
	PostgresURI        string
	RedisURI           string
	AnthropicAPIKey    string
	GeneratorModel     string
	ReviewModel        string
	GoogleClientID     string
	GoogleClientSecret string
	WebhookSecret      string
	SecretKey          string
	AdminAPIKey        string
	CookieName         string
	PostingHour        int
	R2                 R2
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		GeneratorModel:     getEnv("GENERATOR_MODEL", "claude-3-5-haiku-20241022"),
		ReviewModel:        getEnv("REVIEW_MODEL", "claude-3-5-sonnet-20241022"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		WebhookSecret:      getEnv("WEBHOOK_SECRET", ""),
		SecretKey:          getEnv("SECRET_KEY", ""),
		AdminAPIKey:        getEnv("ADMIN_API_KEY", ""),
		CookieName:         getEnv("COOKIE_NAME", "localpost_session"),
		PostingHour:        getEnvInt("POSTING_HOUR", 10),
		R2: R2{
			AccountID:     getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:     getEnv("R2_ACCESS_KEY", ""),
			SecretKey:     getEnv("R2_SECRET_KEY", ""),
			BucketName:    getEnv("R2_BUCKET_NAME", ""),
			PublicBaseURL: getEnv("R2_PUBLIC_BASE_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
