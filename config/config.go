package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DBURL         string
	RedisAddr     string
	RedisPassword string

	AccessTokenSecret     string
	RefreshTokenSecret    string
	ActivationTokenSecret string
	AccessExpiryMin       int
	RefreshExpiryMin      int

	MaxLoginAttempts       int
	LoginAttemptsWindowMin int
	TokenBucketMinutes     int
	TokenMaxBuckets        int

	GeoIPBaseURL     string
	GeoIPCacheTTLMin int
	FrontendBaseURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
}

func Load() *Config {
	// A .env file is optional; deployments normally set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBURL:         mustGetEnv("DB_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AccessTokenSecret:     mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:    mustGetEnv("REFRESH_TOKEN_SECRET"),
		ActivationTokenSecret: mustGetEnv("ACTIVATION_TOKEN_SECRET"),
		AccessExpiryMin:       getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMin:      getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),

		MaxLoginAttempts:       getEnvAsInt("MAX_LOGIN_ATTEMPTS", 10),
		LoginAttemptsWindowMin: getEnvAsInt("LOGIN_ATTEMPTS_WINDOW_MINUTES", 15),
		TokenBucketMinutes:     getEnvAsInt("TOKEN_BUCKET_MINUTES", 15),
		TokenMaxBuckets:        getEnvAsInt("TOKEN_MAX_BUCKETS", 288),

		GeoIPBaseURL:     getEnv("GEOIP_BASE_URL", "http://ip-api.com/json"),
		GeoIPCacheTTLMin: getEnvAsInt("GEOIP_CACHE_TTL_MINUTES", 1440),
		FrontendBaseURL:  getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@example.com"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
