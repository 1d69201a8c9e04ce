package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port     string
	DBFile   string
	LogLevel string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// AI gateway
	AIGatewayURL string
	AIAPIKey     string
	AIModel      string

	// Knowledge base
	KBPath string

	// Upload limits
	MaxFileSize int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBFile:            getEnv("DB_FILE", "data/tenders.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		AIGatewayURL:      getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1"),
		AIAPIKey:          getEnv("AI_API_KEY", ""),
		AIModel:           getEnv("AI_MODEL", "google/gemini-3-flash-preview"),
		KBPath:            getEnv("KB_PATH", "kb.yaml"),
		MaxFileSize:       10 * 1024 * 1024,
	}

	if cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
