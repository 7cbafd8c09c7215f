package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"simpleinvoice/internal/format"
	"simpleinvoice/internal/logger"
	"simpleinvoice/internal/quota"
)

// Storage backends
const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

type Config struct {
	// Storage Configuration
	StorageBackend  string
	SupabaseURL     string
	SupabaseAnonKey string
	SQLitePath      string

	// Local client state (anonymous identity, quota counter, session)
	LocalStatePath string

	// Web Configuration
	AppBaseURL string
	HTTPAddr   string

	DefaultCurrency string

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		StorageBackend:       strings.ToLower(getEnv("STORAGE_BACKEND", BackendSupabase)),
		SupabaseURL:          getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:      getEnv("SUPABASE_ANON_KEY", ""),
		SQLitePath:           getEnv("SQLITE_PATH", "simpleinvoice.db"),
		LocalStatePath:       getEnv("LOCAL_STATE_PATH", quota.DefaultPath()),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:3000"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DefaultCurrency:      strings.ToUpper(getEnv("DEFAULT_CURRENCY", format.DefaultCurrency)),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Invoices"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the supabase backend")
		}
		if c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_ANON_KEY is required for the supabase backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendSupabase, BackendSQLite, c.StorageBackend)
	}

	if u, err := url.Parse(c.AppBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("APP_BASE_URL must be an absolute URL, got %q", c.AppBaseURL)
	}
	if !format.IsSupported(c.DefaultCurrency) {
		return fmt.Errorf("DEFAULT_CURRENCY %q is not supported", c.DefaultCurrency)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
