// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port string

	// Model provider.
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	Model           string
	MaxTokens       int
	Temperature     float64
	UpstreamTimeout time.Duration

	// Access control.
	AuthSecret     string // empty disables the shared-token gate
	AllowedOrigins []string
	DefaultOrigin  string

	// Request shaping.
	HistoryLimit     int
	ChatRateCeiling  int
	VisitRateCeiling int
	RateWindow       time.Duration

	// Storage.
	ProfilePath string
	DBPath      string

	MetricsNamespace string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
		Model:            getEnv("OPENAI_MODEL", "gpt-4o"),
		MaxTokens:        getEnvInt("CHAT_MAX_TOKENS", 300),
		Temperature:      getEnvFloat("CHAT_TEMPERATURE", 0.3),
		UpstreamTimeout:  getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		AuthSecret:       getEnv("APP_AUTH_SECRET", ""),
		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "https://kasiacv.example,http://localhost:3000")),
		DefaultOrigin:    getEnv("DEFAULT_ORIGIN", ""),
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 3),
		ChatRateCeiling:  getEnvInt("CHAT_RATE_CEILING", 12),
		VisitRateCeiling: getEnvInt("VISIT_RATE_CEILING", 20),
		RateWindow:       getEnvDuration("RATE_WINDOW", time.Minute),
		ProfilePath:      getEnv("PROFILE_PATH", "./public/profile.json"),
		DBPath:           getEnv("DB_PATH", "./data/visits.db"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "cvchat"),
	}

	if cfg.DefaultOrigin == "" && len(cfg.AllowedOrigins) > 0 {
		cfg.DefaultOrigin = cfg.AllowedOrigins[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS cannot be empty")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("HISTORY_LIMIT cannot be negative")
	}
	if c.ChatRateCeiling <= 0 || c.VisitRateCeiling <= 0 {
		return fmt.Errorf("rate ceilings must be > 0")
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be > 0")
	}
	if c.ProfilePath == "" {
		return fmt.Errorf("PROFILE_PATH cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
