package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL:      "postgres://localhost:5432/screener",
		GeminiAPIKey:     "key",
		GeminiModel:      "gemini-2.0-flash",
		ListenAddr:       "localhost:8080",
		StorageBackend:   "local",
		LocalStorePath:   "data/resumes",
		BatchChunkSize:   5,
		BatchFileTimeout: time.Minute,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }},
		{"missing api key", func(c *Config) { c.GeminiAPIKey = "" }},
		{"bad listen addr", func(c *Config) { c.ListenAddr = "not-an-addr" }},
		{"unknown backend", func(c *Config) { c.StorageBackend = "ftp" }},
		{"zero chunk size", func(c *Config) { c.BatchChunkSize = 0 }},
		{"tiny file timeout", func(c *Config) { c.BatchFileTimeout = time.Millisecond }},
		{"s3 without endpoint", func(c *Config) { c.StorageBackend = "s3" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateS3Backend(t *testing.T) {
	cfg := validConfig()
	cfg.StorageBackend = "s3"
	cfg.S3Endpoint = "minio:9000"
	cfg.S3AccessKey = "ak"
	cfg.S3SecretKey = "sk"
	cfg.S3Bucket = "resumes"
	assert.NoError(t, cfg.Validate())
}

func TestLoadUsesEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/screener")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("BATCH_CHUNK_SIZE", "10")
	t.Setenv("BATCH_FILE_TIMEOUT", "90s")
	t.Setenv("S3_USE_SSL", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, 10, cfg.BatchChunkSize)
	assert.Equal(t, 90*time.Second, cfg.BatchFileTimeout)
	assert.False(t, cfg.S3UseSSL)
}

func TestLoadRejectsIncompleteEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
