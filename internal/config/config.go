// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database
	DatabaseURL string `koanf:"database_url"`

	// Redis (optional, backs distributed rate limiting)
	RedisURL string `koanf:"redis_url"`

	// CORS
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// Tracing
	TracingEnabled      bool    `koanf:"tracing_enabled"`
	TracingExporterType string  `koanf:"tracing_exporter_type"`
	TracingOTLPEndpoint string  `koanf:"tracing_otlp_endpoint"`
	TracingSamplingRate float64 `koanf:"tracing_sampling_rate"`
	TracingInsecure     bool    `koanf:"tracing_insecure"`

	// Rate limiting (requests per minute)
	GlobalRateLimitPerMin int `koanf:"global_rate_limit_per_min"`
	SearchRateLimitPerMin int `koanf:"search_rate_limit_per_min"`

	// Search engine tuning
	MinQueryLength    int `koanf:"min_query_length"`
	SuggestionLimit   int `koanf:"suggestion_limit"`
	AlternativesLimit int `koanf:"alternatives_limit"`
	CacheCapacity     int `koanf:"cache_capacity"`

	// Score breakdown bonus caps (points)
	BonusCapRecentActivity float64 `koanf:"bonus_cap_recent_activity"`
	BonusCapBrandTenure    float64 `koanf:"bonus_cap_brand_tenure"`
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL    = errors.New("DATABASE_URL is required")
	ErrInvalidPort           = errors.New("PORT must be a valid integer")
	ErrInvalidSamplingRate   = errors.New("TRACING_SAMPLING_RATE must be between 0 and 1")
	ErrInvalidMinQueryLength = errors.New("MIN_QUERY_LENGTH must be at least 1")
	ErrInvalidCacheCapacity  = errors.New("CACHE_CAPACITY must be at least 1")
	ErrInvalidRateLimit      = errors.New("rate limits must be positive")
)

// Default values for non-secret configuration.
const (
	DefaultPort                  = 8080
	DefaultEnv                   = "development"
	DefaultTracingExporterType   = "otlp-http"
	DefaultTracingSamplingRate   = 0.1
	DefaultGlobalRateLimitPerMin = 100
	DefaultSearchRateLimitPerMin = 30
	DefaultMinQueryLength        = 3
	DefaultSuggestionLimit       = 10
	DefaultAlternativesLimit     = 5
	DefaultCacheCapacity         = 1000
	DefaultBonusCapRecent        = 3.0
	DefaultBonusCapTenure        = 3.0
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// Try MYCOSMETIC_PORT first, then PORT for platform compatibility
	port, portErr := getEnvIntOrDefaultMulti([]string{"MYCOSMETIC_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	samplingRate, rateErr := getEnvFloatOrDefault("TRACING_SAMPLING_RATE", k.Float64("tracing_sampling_rate"), DefaultTracingSamplingRate)
	if rateErr != nil {
		loadErrs = append(loadErrs, rateErr)
	}

	globalLimit, globalErr := getEnvIntOrDefault("GLOBAL_RATE_LIMIT_PER_MIN", k.Int("global_rate_limit_per_min"), DefaultGlobalRateLimitPerMin)
	if globalErr != nil {
		loadErrs = append(loadErrs, globalErr)
	}
	searchLimit, searchErr := getEnvIntOrDefault("SEARCH_RATE_LIMIT_PER_MIN", k.Int("search_rate_limit_per_min"), DefaultSearchRateLimitPerMin)
	if searchErr != nil {
		loadErrs = append(loadErrs, searchErr)
	}

	minQueryLen, minLenErr := getEnvIntOrDefault("MIN_QUERY_LENGTH", k.Int("min_query_length"), DefaultMinQueryLength)
	if minLenErr != nil {
		loadErrs = append(loadErrs, minLenErr)
	}
	suggestionLimit, suggestErr := getEnvIntOrDefault("SUGGESTION_LIMIT", k.Int("suggestion_limit"), DefaultSuggestionLimit)
	if suggestErr != nil {
		loadErrs = append(loadErrs, suggestErr)
	}
	alternativesLimit, altErr := getEnvIntOrDefault("ALTERNATIVES_LIMIT", k.Int("alternatives_limit"), DefaultAlternativesLimit)
	if altErr != nil {
		loadErrs = append(loadErrs, altErr)
	}
	cacheCapacity, cacheErr := getEnvIntOrDefault("CACHE_CAPACITY", k.Int("cache_capacity"), DefaultCacheCapacity)
	if cacheErr != nil {
		loadErrs = append(loadErrs, cacheErr)
	}

	bonusCapRecent, recentErr := getEnvFloatOrDefault("BONUS_CAP_RECENT_ACTIVITY", k.Float64("bonus_cap_recent_activity"), DefaultBonusCapRecent)
	if recentErr != nil {
		loadErrs = append(loadErrs, recentErr)
	}
	bonusCapTenure, tenureErr := getEnvFloatOrDefault("BONUS_CAP_BRAND_TENURE", k.Float64("bonus_cap_brand_tenure"), DefaultBonusCapTenure)
	if tenureErr != nil {
		loadErrs = append(loadErrs, tenureErr)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:                   port,
		Env:                    getEnvOrDefaultMulti([]string{"MYCOSMETIC_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:            getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisURL:               getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		CORSAllowedOrigins:     getEnvOrKoanf("CORS_ALLOWED_ORIGINS", k, "cors_allowed_origins"),
		TracingEnabled:         getEnvBoolOrKoanf("TRACING_ENABLED", k, "tracing_enabled"),
		TracingExporterType:    getEnvOrDefault("TRACING_EXPORTER_TYPE", k.String("tracing_exporter_type"), DefaultTracingExporterType),
		TracingOTLPEndpoint:    getEnvOrKoanf("TRACING_OTLP_ENDPOINT", k, "tracing_otlp_endpoint"),
		TracingSamplingRate:    samplingRate,
		TracingInsecure:        getEnvBoolOrKoanf("TRACING_INSECURE", k, "tracing_insecure"),
		GlobalRateLimitPerMin:  globalLimit,
		SearchRateLimitPerMin:  searchLimit,
		MinQueryLength:         minQueryLen,
		SuggestionLimit:        suggestionLimit,
		AlternativesLimit:      alternativesLimit,
		CacheCapacity:          cacheCapacity,
		BonusCapRecentActivity: bonusCapRecent,
		BonusCapBrandTenure:    bonusCapTenure,
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvBoolOrKoanf returns the environment variable as bool if set, otherwise the koanf value.
// Accepts true/1/yes/on and false/0/no/off in any case.
func getEnvBoolOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) bool {
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return k.Bool(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// Returns an error if any environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as a float.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present and sane.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.TracingSamplingRate < 0 || c.TracingSamplingRate > 1 {
		errs = append(errs, ErrInvalidSamplingRate)
	}
	if c.MinQueryLength < 1 {
		errs = append(errs, ErrInvalidMinQueryLength)
	}
	if c.CacheCapacity < 1 {
		errs = append(errs, ErrInvalidCacheCapacity)
	}
	if c.GlobalRateLimitPerMin < 1 || c.SearchRateLimitPerMin < 1 {
		errs = append(errs, ErrInvalidRateLimit)
	}

	return errs
}

// AllowedOrigins splits the configured CORS origin list. An empty
// configuration yields nil, which callers treat as allow-all in
// development.
func (c *Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                      fmt.Sprintf("%d", c.Port),
		"env":                       c.Env,
		"database_url":              maskDatabaseURL(c.DatabaseURL),
		"redis_url":                 maskDatabaseURL(c.RedisURL),
		"cors_allowed_origins":      c.CORSAllowedOrigins,
		"tracing_enabled":           fmt.Sprintf("%t", c.TracingEnabled),
		"tracing_exporter_type":     c.TracingExporterType,
		"tracing_otlp_endpoint":     c.TracingOTLPEndpoint,
		"tracing_sampling_rate":     fmt.Sprintf("%g", c.TracingSamplingRate),
		"global_rate_limit_per_min": fmt.Sprintf("%d", c.GlobalRateLimitPerMin),
		"search_rate_limit_per_min": fmt.Sprintf("%d", c.SearchRateLimitPerMin),
		"min_query_length":          fmt.Sprintf("%d", c.MinQueryLength),
		"suggestion_limit":          fmt.Sprintf("%d", c.SuggestionLimit),
		"alternatives_limit":        fmt.Sprintf("%d", c.AlternativesLimit),
		"cache_capacity":            fmt.Sprintf("%d", c.CacheCapacity),
		"bonus_cap_recent_activity": fmt.Sprintf("%g", c.BonusCapRecentActivity),
		"bonus_cap_brand_tenure":    fmt.Sprintf("%g", c.BonusCapBrandTenure),
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a connection URL.
// Supports postgres://, postgresql:// and redis:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
