package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_BACKEND", "SUPABASE_URL", "SUPABASE_ANON_KEY", "SQLITE_PATH",
		"LOCAL_STATE_PATH", "APP_BASE_URL", "HTTP_ADDR", "DEFAULT_CURRENCY",
		"GOOGLE_SHEET_URL", "GOOGLE_SHEET_WORKSHEET",
	} {
		t.Setenv(key, values[key])
	}
}

func TestLoad_SupabaseDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"SUPABASE_URL":      "https://abc.supabase.co",
		"SUPABASE_ANON_KEY": "anon",
		"LOCAL_STATE_PATH":  "/tmp/state.json",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSupabase, cfg.StorageBackend)
	assert.Equal(t, "http://localhost:3000", cfg.AppBaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, "Invoices", cfg.GoogleSheetWorksheet)
	assert.Equal(t, "/tmp/state.json", cfg.LocalStatePath)
}

func TestLoad_SQLite(t *testing.T) {
	setEnv(t, map[string]string{
		"STORAGE_BACKEND":  "SQLite",
		"DEFAULT_CURRENCY": "kzt",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "simpleinvoice.db", cfg.SQLitePath)
	assert.Equal(t, "KZT", cfg.DefaultCurrency)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"supabase without url", map[string]string{"SUPABASE_ANON_KEY": "k"}, "SUPABASE_URL"},
		{"supabase without key", map[string]string{"SUPABASE_URL": "https://x.test"}, "SUPABASE_ANON_KEY"},
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "mongo"}, "STORAGE_BACKEND"},
		{"relative base url", map[string]string{"STORAGE_BACKEND": "sqlite", "APP_BASE_URL": "localhost"}, "APP_BASE_URL"},
		{"unsupported currency", map[string]string{"STORAGE_BACKEND": "sqlite", "DEFAULT_CURRENCY": "CHF"}, "DEFAULT_CURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetLoggerConfig(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json", LogTimeFormat: "x", LogOutput: "stdout"}

	lc := cfg.GetLoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "stdout", lc.Output)
}
