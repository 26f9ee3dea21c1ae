package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache drivers accepted by CACHE_DRIVER.
const (
	CacheNone     = "none"
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

// Config contains runtime configuration required by the service.
type Config struct {
	ListenAddr string
	APIToken   string

	WeCom    WeComConfig
	TimeZone string

	CacheDriver string
	Redis       RedisConfig
	DBURL       string

	LogLevel  string
	LogFormat string
}

// WeComConfig holds the messaging-platform credentials.
// Empty credentials are not a load error; the notifier rejects them at send time.
type WeComConfig struct {
	CorpID  string
	Secret  string
	AgentID string
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheEnabled reports whether a dedup/archive backend is configured.
func (c Config) CacheEnabled() bool {
	return c.CacheDriver != CacheNone
}

// Load reads required values from environment variables.
func Load() (Config, error) {
	apiToken := strings.TrimSpace(os.Getenv("API_TOKEN"))
	if apiToken == "" {
		return Config{}, errors.New("API_TOKEN required")
	}

	cfg := Config{
		ListenAddr: envOr("LISTEN_ADDR", ":8080"),
		APIToken:   apiToken,
		WeCom: WeComConfig{
			CorpID:  strings.TrimSpace(os.Getenv("WECOM_CORPID")),
			Secret:  strings.TrimSpace(os.Getenv("WECOM_SECRET")),
			AgentID: strings.TrimSpace(os.Getenv("WECOM_AGENTID")),
			BaseURL: strings.TrimRight(envOr("WECOM_BASE_URL", "https://qyapi.weixin.qq.com"), "/"),
		},
		TimeZone:    envOr("TIME_ZONE", "Asia/Seoul"),
		CacheDriver: strings.ToLower(envOr("CACHE_DRIVER", CacheNone)),
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		DBURL:     strings.TrimSpace(os.Getenv("DB_URL")),
		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "json")),
	}

	if raw := strings.TrimSpace(os.Getenv("WECOM_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("WECOM_TIMEOUT must be a non-negative duration, got %q", raw)
		}
		cfg.WeCom.Timeout = d
	}

	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return Config{}, fmt.Errorf("REDIS_DB must be a non-negative integer, got %q", raw)
		}
		cfg.Redis.DB = db
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return Config{}, fmt.Errorf("TIME_ZONE %q: %w", cfg.TimeZone, err)
	}

	switch cfg.CacheDriver {
	case CacheNone, CacheMemory, CacheRedis:
	case CachePostgres:
		if cfg.DBURL == "" {
			return Config{}, errors.New("DB_URL required when CACHE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf(`CACHE_DRIVER must be one of "none", "memory", "redis", "postgres", got %q`, cfg.CacheDriver)
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf(`LOG_FORMAT must be "json" or "console", got %q`, cfg.LogFormat)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
