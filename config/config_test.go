package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/association")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 10*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "association", cfg.Mongo.Database)
	assert.Equal(t, "certificates", cfg.Storage.Bucket)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.BacklogInterval)
	assert.Empty(t, cfg.Review.PointTiers)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "8080")
	t.Setenv("MONGO_DB_NAME", "skp")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://cdn.example.org")
	t.Setenv("REVIEW_POINT_TIERS", "bronze=10, silver=20,gold=30")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "skp", cfg.Mongo.Database)
	assert.Equal(t, "https://cdn.example.org", cfg.Storage.PublicBaseURL)
	assert.Equal(t, map[string]int{"bronze": 10, "silver": 20, "gold": 30}, cfg.Review.PointTiers)
}

func TestLoad_ConfigFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: "7000"
  request_timeout: 3s
log:
  level: debug
review:
  point_tiers:
    merit: 50
    honour: 120
scheduler:
  backlog_interval: 1m
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port, "environment overrides the file")
	assert.Equal(t, 3*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Minute, cfg.Scheduler.BacklogInterval)
	assert.Equal(t, map[string]int{"merit": 50, "honour": 120}, cfg.Review.PointTiers)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("missing required keys", func(t *testing.T) {
		t.Setenv("DB_DSN", "")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("MONGO_URI", "")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db.dsn is required")
		assert.Contains(t, err.Error(), "jwt.secret is required")
	})

	t.Run("duplicate tier points", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("REVIEW_POINT_TIERS", "a=10,b=10")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both award 10")
	})

	t.Run("malformed tier", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("REVIEW_POINT_TIERS", "gold")

		_, err := Load("")
		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", &buf)

	log.Info("hidden")
	log.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
