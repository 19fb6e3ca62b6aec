package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the analytics service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Score    ScoreConfig    `yaml:"score"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the configured host, defaulting to all interfaces.
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "0.0.0.0"
	}
	return s.Host
}

// DatabaseConfig holds the Postgres connection for the raw-record store.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig holds the cache store connection. An empty Addr disables
// Redis; the service falls back to an in-process cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig holds TTL tier durations in seconds.
type CacheConfig struct {
	RecentTTLSeconds     int `yaml:"recent_ttl_seconds"`
	HistoricalTTLSeconds int `yaml:"historical_ttl_seconds"`
}

// RecentTTL returns the recent-tier TTL as a duration.
func (c CacheConfig) RecentTTL() time.Duration {
	return time.Duration(c.RecentTTLSeconds) * time.Second
}

// HistoricalTTL returns the historical-tier TTL as a duration.
func (c CacheConfig) HistoricalTTL() time.Duration {
	return time.Duration(c.HistoricalTTLSeconds) * time.Second
}

// ScoreConfig holds the health score constants. The neutral reputation
// defaults are placeholders pending product sign-off; keep them here rather
// than in code so tuning them is a deploy, not a release.
type ScoreConfig struct {
	Weights struct {
		Deliverability float64 `yaml:"deliverability"`
		Engagement     float64 `yaml:"engagement"`
		AntiSpam       float64 `yaml:"anti_spam"`
		Warmup         float64 `yaml:"warmup"`
		Reputation     float64 `yaml:"reputation"`
	} `yaml:"weights"`
	NeutralReputation struct {
		Deliverability int `yaml:"deliverability"`
		Spam           int `yaml:"spam"`
		Bounce         int `yaml:"bounce"`
		Engagement     int `yaml:"engagement"`
		Warmup         int `yaml:"warmup"`
	} `yaml:"neutral_reputation"`
	WarmupBoost float64 `yaml:"warmup_boost"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Load reads configuration from a YAML file and applies defaults. A missing
// file is not an error; defaults plus env overrides must be enough to run.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromEnv loads the YAML config and applies environment overrides.
// A .env file in the working directory is honored if present.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30
	}
	if c.Cache.RecentTTLSeconds == 0 {
		c.Cache.RecentTTLSeconds = 300 // 5 minutes
	}
	if c.Cache.HistoricalTTLSeconds == 0 {
		c.Cache.HistoricalTTLSeconds = 21600 // 6 hours
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	w := &c.Score.Weights
	if w.Deliverability == 0 && w.Engagement == 0 && w.AntiSpam == 0 && w.Warmup == 0 && w.Reputation == 0 {
		w.Deliverability = 0.30
		w.Engagement = 0.25
		w.AntiSpam = 0.20
		w.Warmup = 0.15
		w.Reputation = 0.10
	}
	n := &c.Score.NeutralReputation
	if n.Deliverability == 0 && n.Spam == 0 && n.Bounce == 0 && n.Engagement == 0 && n.Warmup == 0 {
		n.Deliverability = 80
		n.Spam = 85
		n.Bounce = 85
		n.Engagement = 75
		n.Warmup = 75
	}
	if c.Score.WarmupBoost == 0 {
		c.Score.WarmupBoost = 1.2
	}
}
