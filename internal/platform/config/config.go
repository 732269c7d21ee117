// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
read first through 'joho/godotenv' when present.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Folio server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL              string        `env:"DATABASE_URL,required"`
	DatabaseMaxConns         int32         `env:"DATABASE_MAX_CONNS"         envDefault:"25"`
	DatabaseStatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT" envDefault:"30s"`

	// Key-Value Cache (Redis)
	RedisURL      string `env:"REDIS_URL,required"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"folio.app"`

	// Content behaviour
	SlugConflictRetries int           `env:"SLUG_CONFLICT_RETRIES" envDefault:"3"`
	ContentSanitize     bool          `env:"CONTENT_SANITIZE"      envDefault:"true"`
	AdminOverride       bool          `env:"ADMIN_OVERRIDE"        envDefault:"false"`
	SiteCacheTTL        time.Duration `env:"SITE_CACHE_TTL"        envDefault:"60s"`

	// Object Storage (S3-compatible). Uploads are disabled without a bucket.
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"     envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.SlugConflictRetries < 0 {
		return nil, fmt.Errorf("config: SLUG_CONFLICT_RETRIES must not be negative, got %d", cfg.SlugConflictRetries)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowsOrigin reports whether origin is served by the configured domain suffix.
//
// "https://docs.folio.app" and "https://folio.app" match the suffix "folio.app";
// "https://evilfolio.app" does not.
func (c *Config) AllowsOrigin(origin string) bool {
	suffix := strings.TrimPrefix(c.AllowedOriginSuffix, ".")
	if suffix == "" {
		return false
	}

	host := origin
	if _, rest, found := strings.Cut(origin, "://"); found {
		host = rest
	}
	host, _, _ = strings.Cut(host, ":")

	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

// UploadsEnabled reports whether an object storage bucket is configured.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != ""
}
