package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the gallery service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"m3u8-viewer"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Metadata database (SQLite file)
	DatabasePath   string        `env:"DATABASE_PATH,notEmpty"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"5"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Authentication
	AuthPassword string        `env:"AUTH_PASSWORD,notEmpty"`
	JWTSecret    string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Storage Backend Selection
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"s3"` // Options: "s3" or "local"

	// S3 / R2 Storage Configuration
	S3Endpoint     string        `env:"S3_ENDPOINT"`
	S3Region       string        `env:"S3_REGION" envDefault:"auto"`
	S3Bucket       string        `env:"S3_BUCKET"`
	S3AccessKeyID  string        `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string        `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool          `env:"S3_USE_PATH_STYLE" envDefault:"true"`
	PresignTTL     time.Duration `env:"PRESIGN_TTL" envDefault:"1h"`

	// Local Storage Configuration
	LocalStoragePath    string `env:"LOCAL_STORAGE_PATH"`
	LocalStorageBaseURL string `env:"LOCAL_STORAGE_BASE_URL"`

	// Listing
	PageSize int `env:"PAGE_SIZE" envDefault:"12"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)

	if cfg.PageSize <= 0 {
		cfg.PageSize = 12
	}
	if cfg.IsS3Storage() {
		if cfg.S3Bucket == "" || cfg.S3AccessKeyID == "" || cfg.S3SecretKey == "" {
			return nil, fmt.Errorf("S3_BUCKET, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required for the s3 backend")
		}
	}
	if cfg.IsLocalStorage() && strings.TrimSpace(cfg.LocalStoragePath) == "" {
		return nil, fmt.Errorf("LOCAL_STORAGE_PATH is required for the local backend")
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if the local filesystem backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}

// IsS3Storage returns true if the S3 backend is configured.
func (c *Config) IsS3Storage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "s3"
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
