package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "127.0.0.1"
  allowed_origins:
    - "https://dashboard.example.com"

database:
  url: "postgres://localhost:5432/mailpulse?sslmode=disable"
  max_open_conns: 10

redis:
  addr: "localhost:6379"
  db: 2

cache:
  recent_ttl_seconds: 60
  historical_ttl_seconds: 3600

score:
  weights:
    deliverability: 0.40
    engagement: 0.20
    anti_spam: 0.20
    warmup: 0.10
    reputation: 0.10
  warmup_boost: 1.5

logging:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.GetHost())
	assert.Equal(t, []string{"https://dashboard.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://localhost:5432/mailpulse?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 60, cfg.Cache.RecentTTLSeconds)
	assert.Equal(t, 0.40, cfg.Score.Weights.Deliverability)
	assert.Equal(t, 1.5, cfg.Score.WarmupBoost)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched sections still get defaults
	assert.Equal(t, 85, cfg.Score.NeutralReputation.Spam)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.GetHost())
	assert.Equal(t, 300, cfg.Cache.RecentTTLSeconds)
	assert.Equal(t, 21600, cfg.Cache.HistoricalTTLSeconds)
	assert.Equal(t, 0.30, cfg.Score.Weights.Deliverability)
	assert.Equal(t, 1.2, cfg.Score.WarmupBoost)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DATABASE_URL", "postgres://prod-host:5432/metrics")
	t.Setenv("REDIS_ADDR", "prod-redis:6379")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "postgres://prod-host:5432/metrics", cfg.Database.URL)
	assert.Equal(t, "prod-redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMalformedYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [not: a: map"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestCacheTTLDurations(t *testing.T) {
	c := CacheConfig{RecentTTLSeconds: 90, HistoricalTTLSeconds: 7200}
	assert.Equal(t, "1m30s", c.RecentTTL().String())
	assert.Equal(t, "2h0m0s", c.HistoricalTTL().String())
}
