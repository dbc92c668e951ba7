package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/clinicalaide/stgkb/internal/pipeline"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Pipeline
	ChunkSize  int
	StagingDir string

	// Persistence
	DBPath string

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("STGKB_API_KEY"),

		ChunkSize:  envInt("STGKB_CHUNK_SIZE", pipeline.DefaultChunkSize),
		StagingDir: os.Getenv("STGKB_STAGING_DIR"),

		DBPath: envOr("STGKB_DB_PATH", "stgkb.db"),

		MaxUploadBytes: envInt64("STGKB_MAX_UPLOAD_BYTES", 104857600), // 100MB

		JobTTL: envDuration("STGKB_JOB_TTL", 1*time.Hour),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("STGKB_API_KEY is required")
	}
	if c.ChunkSize < pipeline.MinChunkSize || c.ChunkSize > pipeline.MaxChunkSize {
		return fmt.Errorf("STGKB_CHUNK_SIZE must be in [%d, %d], got %d",
			pipeline.MinChunkSize, pipeline.MaxChunkSize, c.ChunkSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
