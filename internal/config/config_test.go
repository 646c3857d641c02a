package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigFile, "HTTP_ADDR", "PUBLIC_BASE_URL", "DOCS_DIR", "BACKEND_MODE", "UPSTREAM_BASE_URL",
		"UPSTREAM_TIMEOUT", "AUTH_JWT_SECRET", "JWT_SECRET", "TOKEN_TTL", "AUDIT_DRIVER", "DATABASE_URL",
		"PG_DSN", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_IDLE_TTL", "LOG_LEVEL", "LOG_FORMAT",
		"SHUTDOWN_TIMEOUT", "RATE_LIMIT_TRUST_PROXY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ModeUnimplemented, cfg.Backend.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.Backend.UpstreamTimeout)
	assert.Equal(t, "", cfg.Audit.Driver)
	assert.Equal(t, float64(5), cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("BACKEND_MODE", "Mock")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "5m")
	t.Setenv("AUDIT_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/watttime")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("PUBLIC_BASE_URL", "https://docs.example.org/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, ModeMock, cfg.Backend.Mode)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, AuditDriverPostgres, cfg.Audit.Driver)
	assert.Equal(t, float64(5), cfg.RateLimit.RPS, "unparsable values fall back")
	assert.Equal(t, "https://docs.example.org", cfg.PublicBaseURL)
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")

	path := filepath.Join(t.TempDir(), "watttime.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":7070"
backend:
  mode: upstream
  upstream_base_url: https://api.watttime.org
  upstream_timeout: 3s
audit:
  driver: sqlite
  dsn: file:audit.db
rate_limit:
  rps: 1.5
  burst: 2
`), 0o644))
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, ModeUpstream, cfg.Backend.Mode)
	assert.Equal(t, "https://api.watttime.org", cfg.Backend.UpstreamBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.UpstreamTimeout)
	assert.Equal(t, AuditDriverSQLite, cfg.Audit.Driver)
	assert.Equal(t, "file:audit.db", cfg.Audit.DSN)
	assert.Equal(t, 1.5, cfg.RateLimit.RPS)
	assert.Equal(t, 2, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Log.Level, "keys absent from the file keep env values")
}

func TestLoadOverridesBeforeValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_MODE", ModeUpstream)

	_, err := Load("")
	require.Error(t, err, "upstream without a base url")

	cfg, err := Load("", func(c *Config) { c.Backend.Mode = " Mock " })
	require.NoError(t, err)
	assert.Equal(t, ModeMock, cfg.Backend.Mode)
}

func TestTrustProxyFromEnv(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.RateLimit.TrustProxy)

	t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.RateLimit.TrustProxy)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := FromEnv()
	base.normalize()
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Backend.Mode = "magic" }},
		{"upstream without url", func(c *Config) { c.Backend.Mode = ModeUpstream }},
		{"upstream relative url", func(c *Config) {
			c.Backend.Mode = ModeUpstream
			c.Backend.UpstreamBaseURL = "api.watttime.org"
		}},
		{"audit without dsn", func(c *Config) { c.Audit.Driver = AuditDriverSQLite }},
		{"unknown audit driver", func(c *Config) { c.Audit.Driver = "mysql"; c.Audit.DSN = "x" }},
		{"bad public url", func(c *Config) { c.PublicBaseURL = "docs" }},
		{"negative burst", func(c *Config) { c.RateLimit.Burst = -1 }},
		{"empty addr", func(c *Config) { c.HTTPAddr = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
