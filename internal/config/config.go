// Package config loads and validates service configuration from the
// environment, with .env support for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the screener needs to run. DatabaseURL and
// GeminiAPIKey are required; the rest has working defaults.
type Config struct {
	DatabaseURL  string `validate:"required"`
	GeminiAPIKey string `validate:"required"`
	GeminiModel  string `validate:"required"`

	// Server
	ListenAddr string `validate:"required,hostname_port"`

	// Storage: "local" or "s3".
	StorageBackend string `validate:"required,oneof=local s3"`
	LocalStorePath string
	S3Endpoint     string `validate:"required_if=StorageBackend s3"`
	S3AccessKey    string `validate:"required_if=StorageBackend s3"`
	S3SecretKey    string `validate:"required_if=StorageBackend s3"`
	S3Bucket       string `validate:"required_if=StorageBackend s3"`
	S3Region       string
	S3UseSSL       bool

	// Batch
	BatchChunkSize   int           `validate:"min=1"`
	BatchFileTimeout time.Duration `validate:"min=1s"`

	// OCR language passed to tesseract; empty means its default.
	OCRLanguage string
}

// Load reads .env (when present) and builds a validated Config from the
// environment. Missing .env is not an error; real deployments set
// variables directly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		ListenAddr:       envOr("LISTEN_ADDR", "localhost:8080"),
		StorageBackend:   envOr("STORAGE_BACKEND", "local"),
		LocalStorePath:   envOr("LOCAL_STORE_PATH", "data/resumes"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         os.Getenv("S3_REGION"),
		S3UseSSL:         envBool("S3_USE_SSL", true),
		BatchChunkSize:   envInt("BATCH_CHUNK_SIZE", 5),
		BatchFileTimeout: envDuration("BATCH_FILE_TIMEOUT", 2*time.Minute),
		OCRLanguage:      os.Getenv("OCR_LANGUAGE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports the first violation in a
// readable form.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Errorf("config error: field %s failed %q validation", errs[0].Field(), errs[0].Tag())
	}
	return fmt.Errorf("config error: %w", err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
