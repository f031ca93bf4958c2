package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	CatalogBaseURL      string
	CatalogDocuments    []string
	CatalogFetchTimeout time.Duration
	CatalogCacheTTL     time.Duration

	SessionTTL time.Duration

	ExtractorURL     string
	ExtractorAPIKey  string
	ExtractorTimeout time.Duration
	ImportMaxImages  int
	ImportRateMax    int
	ImportRateWindow time.Duration
	IdempotencyTTL   time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		CatalogBaseURL:      strings.TrimSpace(k.String("CATALOG_BASE_URL")),
		CatalogDocuments:    splitAndTrim(k.String("CATALOG_DOCUMENTS")),
		CatalogFetchTimeout: parseDuration(k.String("CATALOG_FETCH_TIMEOUT"), "10s"),
		CatalogCacheTTL:     parseDuration(k.String("CATALOG_CACHE_TTL"), "10m"),

		SessionTTL: parseDuration(k.String("SESSION_TTL"), "2h"),

		ExtractorURL:     strings.TrimSpace(k.String("EXTRACTOR_URL")),
		ExtractorAPIKey:  k.String("EXTRACTOR_API_KEY"),
		ExtractorTimeout: parseDuration(k.String("EXTRACTOR_TIMEOUT"), "30s"),
		ImportMaxImages:  intOrDefault(k.Int("IMPORT_MAX_IMAGES"), 5),
		ImportRateMax:    intOrDefault(k.Int("IMPORT_RATE_MAX"), 10),
		ImportRateWindow: parseDuration(k.String("IMPORT_RATE_WINDOW"), "1m"),
		IdempotencyTTL:   parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),
	}

	if cfg.CatalogBaseURL == "" {
		return nil, errors.New("CATALOG_BASE_URL is required")
	}
	if len(cfg.CatalogDocuments) == 0 {
		return nil, errors.New("CATALOG_DOCUMENTS is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func intOrDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
