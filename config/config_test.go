package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("defaults without env file", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, StorageExcel, cfg.Storage.Driver)
		assert.Equal(t, "datos_albergue.xlsx", cfg.Storage.ExcelPath)
		assert.Equal(t, 10*time.Second, cfg.Lock.TTL)
		assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
		assert.Equal(t, 587, cfg.SMTP.Port)
		assert.False(t, cfg.Redis.Enabled)
		assert.Empty(t, cfg.App.CORSOrigins)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageMemory)
		t.Setenv("LOCK_TTL", "3s")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("SMTP_PORT", "2525")
		t.Setenv("APP_CORS_ORIGINS", "https://recepcion.albergue.org, ,http://localhost:5173")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, StorageMemory, cfg.Storage.Driver)
		assert.Equal(t, 3*time.Second, cfg.Lock.TTL)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 2525, cfg.SMTP.Port)
		assert.Equal(t, []string{"https://recepcion.albergue.org", "http://localhost:5173"}, cfg.App.CORSOrigins)
	})

	t.Run("env file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(".env", []byte("APP_PORT=9090\nEXCEL_PATH=/tmp/registro.xlsx\n"), 0o600))

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "/tmp/registro.xlsx", cfg.Storage.ExcelPath)
	})
}

func TestAppConfigLocation(t *testing.T) {
	cfg := AppConfig{Timezone: "UTC"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())
}
