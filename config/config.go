package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	BackendURL  string
	FrontendURL string
	// Credential decoding
	TokenSecret string
	// Redis/Upstash Configuration
	RedisURL      string
	RedisPassword string
	// Session Configuration
	SessionTTLMinutes int
	// Navigation targets handed to the frontend on redirects
	LoginPath           string
	PublicRootPath      string
	CompleteProfilePath string
	PendingApprovalPath string
	// Rate Limiting Configuration
	RateLimitWindowSeconds  int
	RateLimitLoginThreshold int
	// Audit Configuration
	AuditToDB bool // Whether to persist session events to database
}

func LoadConfig() (*Config, error) {
	// .env is only present in local development; ignored elsewhere.
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Trailing slashes cause double-slash URLs downstream
		BackendURL:  strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:4000"), "/"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		TokenSecret: getEnv("TOKEN_SECRET", getEnv("JWT_SECRET", "")),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Session Configuration
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 60*24*7), // one week
		// Navigation targets
		LoginPath:           getEnv("LOGIN_PATH", "/login"),
		PublicRootPath:      getEnv("PUBLIC_ROOT_PATH", "/"),
		CompleteProfilePath: getEnv("COMPLETE_PROFILE_PATH", "/employer/complete-profile"),
		PendingApprovalPath: getEnv("PENDING_APPROVAL_PATH", "/employer/pending-approval"),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),  // 1 minute window
		RateLimitLoginThreshold: getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10), // 10 login attempts per window
		// Audit Configuration
		AuditToDB: getEnvBool("AUDIT_TO_DB", true),
	}

	if cfg.TokenSecret == "" {
		log.Println("WARNING: TOKEN_SECRET is missing. Signed credentials will be rejected.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Credential storage and rate limiting will use in-memory fallback.")
	}
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Session audit log will be disabled.")
	}

	return cfg, nil
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

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
