package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SUPABASE_URL", "VITE_SUPABASE_URL", "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY",
		"BADGERDB_PATH", "HTTP_ADDR", "PUBLIC_BASE_URL", "LOG_LEVEL", "REDIS_DB", "SCRAPER_ENABLED",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "./badger_data", cfg.BadgerDBPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ScraperEnabled)
	assert.False(t, cfg.SupabaseConfigured())
}

func TestLoadConfig_EnvAndAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("VITE_SUPABASE_ANON_KEY", "key")
	t.Setenv("PUBLIC_BASE_URL", "https://seulink.app/")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SCRAPER_ENABLED", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "key", cfg.SupabaseAnonKey)
	assert.Equal(t, "https://seulink.app", cfg.PublicBaseURL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.ScraperEnabled)
	assert.True(t, cfg.SupabaseConfigured())
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := "HTTP_ADDR: \":9090\"\nBADGERDB_PATH: /tmp/seulink\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "/tmp/seulink", cfg.BadgerDBPath)
}

func TestSupabaseConfigured(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"empty", Config{}, false},
		{"missing key", Config{SupabaseURL: "https://abc.supabase.co"}, false},
		{"missing url", Config{SupabaseAnonKey: "k"}, false},
		{"placeholder", Config{SupabaseURL: PlaceholderSupabaseURL, SupabaseAnonKey: "k"}, false},
		{"placeholder with slash", Config{SupabaseURL: PlaceholderSupabaseURL + "/", SupabaseAnonKey: "k"}, false},
		{"real", Config{SupabaseURL: "https://abc.supabase.co", SupabaseAnonKey: "k"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.SupabaseConfigured())
		})
	}
}
