// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

type Config struct {
	Addr     string
	TLSCert  string
	TLSKey   string
	LogLevel hclog.Level

	DatabaseURL string
	TokenKey    []byte

	RedisAddr string
	CacheTTL  time.Duration

	RateLimit  rate.Limit
	RateBurst  int
	TrustProxy bool
}

// TLS reports whether both a certificate and a key were given.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Accounts reports whether user accounts (and so authentication) are enabled.
func (c Config) Accounts() bool {
	return c.DatabaseURL != ""
}

// Load reads an optional .env file in the working directory and then the
// environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	c := Config{
		Addr:        env("PROPMATIC_ADDR", ":8080"),
		TLSCert:     os.Getenv("PROPMATIC_TLS_CERT"),
		TLSKey:      os.Getenv("PROPMATIC_TLS_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TokenKey:    []byte(os.Getenv("TOKEN_KEY")),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}

	level := env("PROPMATIC_LOG_LEVEL", "info")
	c.LogLevel = hclog.LevelFromString(level)
	if c.LogLevel == hclog.NoLevel {
		return Config{}, fmt.Errorf("PROPMATIC_LOG_LEVEL: unknown level %q", level)
	}

	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, errors.New("PROPMATIC_TLS_CERT and PROPMATIC_TLS_KEY must be set together")
	}
	if c.Accounts() && len(c.TokenKey) == 0 {
		return Config{}, errors.New("TOKEN_KEY is required when DATABASE_URL is set")
	}

	ttl, err := time.ParseDuration(env("PROPMATIC_CACHE_TTL", "10m"))
	if err != nil || ttl < 0 {
		return Config{}, fmt.Errorf("PROPMATIC_CACHE_TTL: invalid duration %q", os.Getenv("PROPMATIC_CACHE_TTL"))
	}
	c.CacheTTL = ttl

	limit, err := strconv.ParseFloat(env("PROPMATIC_RATE_LIMIT", "5"), 64)
	if err != nil || limit <= 0 {
		return Config{}, fmt.Errorf("PROPMATIC_RATE_LIMIT: want a positive number, got %q", os.Getenv("PROPMATIC_RATE_LIMIT"))
	}
	c.RateLimit = rate.Limit(limit)

	burst, err := strconv.Atoi(env("PROPMATIC_RATE_BURST", "10"))
	if err != nil || burst < 1 {
		return Config{}, fmt.Errorf("PROPMATIC_RATE_BURST: want a positive integer, got %q", os.Getenv("PROPMATIC_RATE_BURST"))
	}
	c.RateBurst = burst

	if v := os.Getenv("PROPMATIC_TRUST_PROXY"); v != "" {
		c.TrustProxy, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("PROPMATIC_TRUST_PROXY: %w", err)
		}
	}
	return c, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
