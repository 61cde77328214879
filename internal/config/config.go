package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	DatabaseURL string

	// Firebase
	FirebaseProjectID string

	// Skill extraction
	AIProvider    string // claude or gemini
	ClaudeAPIKey  string
	ClaudeBaseURL string
	ClaudeModel   string
	GeminiAPIKey  string
	GeminiModel   string
	GithubToken   string

	// Messaging
	RabbitMQURL  string
	QueueWorkers int

	// Object storage (Cloudflare R2, S3 API)
	R2AccountID string
	R2Bucket    string
	R2AccessKey string
	R2SecretKey string

	// Matching
	MatchWorkers int

	// Rate Limiting
	RateLimitRPS int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Real env vars win over .env; a missing file is fine in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		AIProvider:        strings.ToLower(getEnv("AI_PROVIDER", "claude")),
		ClaudeAPIKey:      getEnv("CLAUDE_API_KEY", ""),
		ClaudeBaseURL:     getEnv("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		ClaudeModel:       getEnv("CLAUDE_MODEL", "claude-sonnet-4-5-20250929"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GithubToken:       getEnv("GITHUB_TOKEN", ""),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		QueueWorkers:      getEnvInt("QUEUE_WORKERS", 2),
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2Bucket:          getEnv("R2_BUCKET", ""),
		R2AccessKey:       getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey:       getEnv("R2_SECRET_KEY", ""),
		MatchWorkers:      getEnvInt("MATCH_WORKERS", 0),
		RateLimitRPS:      getEnvInt("RATE_LIMIT_RPS", 10),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
		}),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AIProvider != "claude" && cfg.AIProvider != "gemini" {
		return nil, fmt.Errorf("AI_PROVIDER must be claude or gemini, got %q", cfg.AIProvider)
	}

	return cfg, nil
}

// StorageEnabled reports whether all R2 settings are present
func (c *Config) StorageEnabled() bool {
	return c.R2AccountID != "" && c.R2Bucket != "" && c.R2AccessKey != "" && c.R2SecretKey != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping blanks
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
