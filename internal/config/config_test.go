package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http", cfg.CatalogSource)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.ChatTimeout)
	assert.False(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.ChatBaseURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":                  "9000",
		"LOG_LEVEL":             "DEBUG",
		"CATALOG_SOURCE":        "postgres",
		"DATABASE_URL":          "postgres://u:p@localhost/catalog",
		"CATALOG_FETCH_TIMEOUT": "500ms",
		"METRICS_ENABLED":       "true",
		"METRICS_TOKEN":         "m",
		"CHAT_BASE_URL":         "http://localhost:8080/api",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres", cfg.CatalogSource)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "http://localhost:8080/api", cfg.ChatBaseURL)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":          {"CATALOG_FETCH_TIMEOUT": "soon"},
		"zero duration":         {"CATALOG_FETCH_TIMEOUT": "0s"},
		"bad bool":              {"METRICS_ENABLED": "maybe"},
		"unknown source":        {"CATALOG_SOURCE": "ftp"},
		"postgres without dsn":  {"CATALOG_SOURCE": "postgres"},
		"metrics without token": {"METRICS_ENABLED": "true"},
		"bad port":              {"PORT": "http"},
		"bad level":             {"LOG_LEVEL": "verbose"},
		"bad chat url":          {"CHAT_BASE_URL": "not a url"},
	}

	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RELOAD_TOKEN=from-file\n"), 0o600))
	t.Setenv("RELOAD_TOKEN", "")
	require.NoError(t, os.Unsetenv("RELOAD_TOKEN"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.ReloadToken)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
