package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/nflreplay/go/internal/gateway"
	"github.com/mcdev12/nflreplay/go/internal/replay"
	"github.com/mcdev12/nflreplay/go/internal/storage"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Summary cache backends
const (
	CacheNone     = "none"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port                 string   `yaml:"port"`
		AllowedOrigins       []string `yaml:"allowed_origins"`
		OverviewPath         string   `yaml:"overview_path"`
		AccessRedirectStatus int      `yaml:"access_redirect_status"`
	} `yaml:"server"`

	NFLAPI struct {
		Key       string        `yaml:"key"`
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 for none
		Burst     int           `yaml:"burst"`
	} `yaml:"nfl_api"`

	Storage storage.Config `yaml:"storage"`

	Cache struct {
		Backend string `yaml:"backend"`
	} `yaml:"cache"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Replay struct {
		BaseInterval time.Duration `yaml:"base_interval"`
	} `yaml:"replay"`

	NATS struct {
		Enabled   bool                    `yaml:"enabled"`
		JetStream gateway.JetStreamConfig `yaml:"jetstream"`
	} `yaml:"nats"`
}

func defaultConfig() *Config {
	var c Config
	c.Server.Port = "8080"
	c.Server.AllowedOrigins = []string{"*"}
	c.Server.OverviewPath = "/overview"
	c.Server.AccessRedirectStatus = http.StatusFound
	c.NFLAPI.Timeout = 30 * time.Second
	c.NFLAPI.RateLimit = 5
	c.NFLAPI.Burst = 5
	c.Storage.Backend = storage.BackendMemory
	c.Cache.Backend = CacheNone
	c.Redis.Addr = "localhost:6379"
	c.Replay.BaseInterval = replay.DefaultBaseInterval
	c.NATS.JetStream = gateway.DefaultJetStreamConfig()
	return &c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring non-integer environment value")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring non-boolean environment value")
	}
	return defaultValue
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// applyEnv lets the environment override the file
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.AccessRedirectStatus = getEnvAsInt("ACCESS_REDIRECT_STATUS", c.Server.AccessRedirectStatus)
	c.NFLAPI.Key = getEnv("RAPIDAPI_KEY", c.NFLAPI.Key)
	c.NFLAPI.BaseURL = getEnv("NFL_API_BASE_URL", c.NFLAPI.BaseURL)
	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Cache.Backend = getEnv("CACHE_BACKEND", c.Cache.Backend)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.NATS.Enabled = getEnvAsBool("NATS_ENABLED", c.NATS.Enabled)
	c.NATS.JetStream.URL = getEnv("NATS_URL", c.NATS.JetStream.URL)
}

func (c *Config) validate() error {
	switch c.Server.AccessRedirectStatus {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		return fmt.Errorf("access_redirect_status %d is not a redirect", c.Server.AccessRedirectStatus)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheRedis, CachePostgres:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.Replay.BaseInterval <= 0 {
		return fmt.Errorf("replay base_interval must be positive, got %s", c.Replay.BaseInterval)
	}
	return nil
}

// needsRedis reports whether any component is configured to use Redis
func (c *Config) needsRedis() bool {
	return c.Storage.Backend == storage.BackendRedis || c.Cache.Backend == CacheRedis
}

// needsPostgres reports whether any component is configured to use Postgres
func (c *Config) needsPostgres() bool {
	return c.Storage.Backend == storage.BackendPostgres || c.Cache.Backend == CachePostgres
}
