package config

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"
)

var keys = []string{
	"PROPMATIC_ADDR", "PROPMATIC_TLS_CERT", "PROPMATIC_TLS_KEY", "PROPMATIC_LOG_LEVEL",
	"DATABASE_URL", "TOKEN_KEY", "REDIS_ADDR", "PROPMATIC_CACHE_TTL",
	"PROPMATIC_RATE_LIMIT", "PROPMATIC_RATE_BURST", "PROPMATIC_TRUST_PROXY",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Addr != ":8080" {
		t.Errorf("Addr = %q", c.Addr)
	}
	if c.LogLevel != hclog.Info {
		t.Errorf("LogLevel = %v", c.LogLevel)
	}
	if c.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v", c.CacheTTL)
	}
	if c.RateLimit != rate.Limit(5) || c.RateBurst != 10 {
		t.Errorf("rate = %v/%d", c.RateLimit, c.RateBurst)
	}
	if c.TLS() || c.Accounts() || c.TrustProxy {
		t.Errorf("optional features enabled by default: %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROPMATIC_ADDR", ":9443")
	t.Setenv("PROPMATIC_TLS_CERT", "server.crt")
	t.Setenv("PROPMATIC_TLS_KEY", "server.key")
	t.Setenv("PROPMATIC_LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/propmatic")
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("PROPMATIC_CACHE_TTL", "30s")
	t.Setenv("PROPMATIC_RATE_BURST", "3")
	t.Setenv("PROPMATIC_TRUST_PROXY", "true")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.TLS() || !c.Accounts() || !c.TrustProxy {
		t.Errorf("features not enabled: %+v", c)
	}
	if c.LogLevel != hclog.Debug || c.CacheTTL != 30*time.Second || c.RateBurst != 3 {
		t.Errorf("unexpected config: %+v", c)
	}
	if string(c.TokenKey) != "secret" {
		t.Errorf("TokenKey = %q", c.TokenKey)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"database without token", map[string]string{"DATABASE_URL": "postgres://x"}},
		{"cert without key", map[string]string{"PROPMATIC_TLS_CERT": "a.crt"}},
		{"bad level", map[string]string{"PROPMATIC_LOG_LEVEL": "loud"}},
		{"bad ttl", map[string]string{"PROPMATIC_CACHE_TTL": "ten"}},
		{"negative ttl", map[string]string{"PROPMATIC_CACHE_TTL": "-1s"}},
		{"zero rate", map[string]string{"PROPMATIC_RATE_LIMIT": "0"}},
		{"bad burst", map[string]string{"PROPMATIC_RATE_BURST": "many"}},
		{"bad proxy flag", map[string]string{"PROPMATIC_TRUST_PROXY": "perhaps"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
