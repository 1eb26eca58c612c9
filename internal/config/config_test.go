package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	os.Unsetenv("STORAGE_DRIVER")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "data/inventory.json", cfg.Storage.FilePath)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 0, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "Asia/Tehran", cfg.Display.TimeZone)
}

func TestLoadReadsEnvFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"STORAGE_DRIVER=Redis\nSTORAGE_NAMESPACE=shop\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test ,\nRATE_LIMIT_REQUESTS=30\n",
	), 0o644))
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "10")

	// godotenv does not override variables that are already set; clean up what it sets
	t.Cleanup(func() {
		os.Unsetenv("STORAGE_DRIVER")
		os.Unsetenv("STORAGE_NAMESPACE")
		os.Unsetenv("CORS_ALLOWED_ORIGINS")
		os.Unsetenv("RATE_LIMIT_REQUESTS")
	})

	cfg := Load(path)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "shop", cfg.Storage.Namespace)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
}
