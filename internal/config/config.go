// Package config loads service settings from the environment, optionally
// overlaid by a YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the optional YAML overlay.
const EnvConfigFile = "WATTTIME_CONFIG"

// Backend modes.
const (
	ModeUnimplemented = "unimplemented"
	ModeMock          = "mock"
	ModeUpstream      = "upstream"
)

// Audit drivers, matching the registered database/sql driver names.
const (
	AuditDriverPostgres = "pgx"
	AuditDriverSQLite   = "sqlite"
)

type BackendConfig struct {
	Mode            string        `yaml:"mode"`
	UpstreamBaseURL string        `yaml:"upstream_base_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type AuditConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RateLimitConfig struct {
	RPS     float64       `yaml:"rps"`
	Burst   int           `yaml:"burst"`
	IdleTTL time.Duration `yaml:"idle_ttl"`

	// TrustProxy keys buckets on X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full service configuration.
type Config struct {
	HTTPAddr        string          `yaml:"http_addr"`
	PublicBaseURL   string          `yaml:"public_base_url"`
	DocsDir         string          `yaml:"docs_dir"`
	Backend         BackendConfig   `yaml:"backend"`
	Auth            AuthConfig      `yaml:"auth"`
	Audit           AuditConfig     `yaml:"audit"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	Log             LogConfig       `yaml:"log"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
}

// Override adjusts a loaded configuration before it is validated.
type Override func(*Config)

// Load reads the environment, then the YAML file at path (or the file named
// by WATTTIME_CONFIG when path is empty), applies overrides and validates
// the result.
func Load(path string, overrides ...Override) (Config, error) {
	cfg := FromEnv()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	for _, o := range overrides {
		o(&cfg)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv builds a configuration from environment variables and defaults.
func FromEnv() Config {
	return Config{
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		PublicBaseURL: getenvDefault("PUBLIC_BASE_URL", ""),
		DocsDir:       getenvDefault("DOCS_DIR", ""),
		Backend: BackendConfig{
			Mode:            getenvDefault("BACKEND_MODE", ModeUnimplemented),
			UpstreamBaseURL: getenvDefault("UPSTREAM_BASE_URL", ""),
			UpstreamTimeout: getenvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
			TokenTTL:  getenvDuration("TOKEN_TTL", 30*time.Minute),
		},
		Audit: AuditConfig{
			Driver: getenvDefault("AUDIT_DRIVER", ""),
			DSN:    getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		},
		RateLimit: RateLimitConfig{
			RPS:        getenvFloatDefault("RATE_LIMIT_RPS", 5),
			Burst:      getenvIntDefault("RATE_LIMIT_BURST", 10),
			IdleTTL:    getenvDuration("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
			TrustProxy: getenvBool("RATE_LIMIT_TRUST_PROXY", false),
		},
		Log: LogConfig{
			Level:  getenvDefault("LOG_LEVEL", "info"),
			Format: getenvDefault("LOG_FORMAT", "json"),
		},
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func (c *Config) normalize() {
	c.Backend.Mode = strings.ToLower(strings.TrimSpace(c.Backend.Mode))
	if c.Backend.Mode == "" {
		c.Backend.Mode = ModeUnimplemented
	}
	c.Audit.Driver = strings.ToLower(strings.TrimSpace(c.Audit.Driver))
	if c.Audit.Driver == "postgres" || c.Audit.Driver == "postgresql" {
		c.Audit.Driver = AuditDriverPostgres
	}
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 30 * time.Minute
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Validate reports configuration combinations that cannot start.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	switch c.Backend.Mode {
	case ModeUnimplemented, ModeMock:
	case ModeUpstream:
		if c.Backend.UpstreamBaseURL == "" {
			errs = append(errs, errors.New("UPSTREAM_BASE_URL is required in upstream mode"))
		} else if u, err := url.Parse(c.Backend.UpstreamBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid UPSTREAM_BASE_URL %q", c.Backend.UpstreamBaseURL))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BACKEND_MODE %q", c.Backend.Mode))
	}
	switch c.Audit.Driver {
	case "":
	case AuditDriverPostgres, AuditDriverSQLite:
		if c.Audit.DSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when AUDIT_DRIVER is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUDIT_DRIVER %q", c.Audit.Driver))
	}
	if c.PublicBaseURL != "" {
		if u, err := url.Parse(c.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid PUBLIC_BASE_URL %q", c.PublicBaseURL))
		}
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate limit values must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
