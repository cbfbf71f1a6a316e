// Package config loads application configuration from the environment,
// with a .env file honored in development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// State backend selection. "disabled" turns session persistence off
// entirely; the server still answers, statelessly.
const (
	StateBackendRedis    = "redis"
	StateBackendDynamo   = "dynamo"
	StateBackendMemory   = "memory"
	StateBackendDisabled = "disabled"
)

// Config holds all runtime configuration.
type Config struct {
	ServerAddress string
	Environment   string
	LogLevel      string

	AWSRegion        string
	BedrockTextModel string
	BedrockEmbModel  string

	CardServiceURL string
	RequestTimeout time.Duration

	StateBackend string
	RedisAddr    string
	RedisDB      int
	DynamoTable  string

	SessionTTL time.Duration
	HistoryTTL time.Duration

	JWTSecret string
	JWTIssuer string

	EnableCORS bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		AWSRegion:        getEnv("AWS_REGION", "us-west-2"),
		BedrockTextModel: getEnv("BEDROCK_TEXT_MODEL", "anthropic.claude-3-haiku-20240307-v1:0"),
		BedrockEmbModel:  getEnv("BEDROCK_EMBED_MODEL", "amazon.titan-embed-text-v2:0"),

		CardServiceURL: getEnv("CARD_SERVICE_URL", "http://backend-service:5000"),
		RequestTimeout: getDurationSeconds("REQUEST_TIMEOUT_SECONDS", 30),

		StateBackend: getEnv("STATE_BACKEND", StateBackendRedis),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getIntEnv("REDIS_DB", 0),
		DynamoTable:  getEnv("DYNAMO_STATE_TABLE", ""),

		SessionTTL: getDurationSeconds("SESSION_TTL_SECONDS", 3600),
		HistoryTTL: getDurationSeconds("HISTORY_TTL_SECONDS", 86400),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "cardmind"),

		EnableCORS: getBoolEnv("ENABLE_CORS", true),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.StateBackend {
	case StateBackendRedis, StateBackendDynamo, StateBackendMemory, StateBackendDisabled:
	default:
		return fmt.Errorf("invalid STATE_BACKEND %q", c.StateBackend)
	}
	if c.StateBackend == StateBackendDynamo && c.DynamoTable == "" {
		return fmt.Errorf("DYNAMO_STATE_TABLE is required when STATE_BACKEND is dynamo")
	}
	if c.SessionTTL <= 0 || c.HistoryTTL <= 0 {
		return fmt.Errorf("session and history TTLs must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getIntEnv(key, defaultSeconds)) * time.Second
}
