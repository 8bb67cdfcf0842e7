package main

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mcdev12/nflreplay/go/internal/storage"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
storage:
  backend: redis
cache:
  backend: postgres
replay:
  base_interval: 500ms
nats:
  enabled: true
  jetstream:
    subject_prefix: test.replay
`)

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if config.Server.Port != "9090" {
		t.Errorf("port = %q", config.Server.Port)
	}
	if config.Storage.Backend != storage.BackendRedis || config.Cache.Backend != CachePostgres {
		t.Errorf("backends = %q / %q", config.Storage.Backend, config.Cache.Backend)
	}
	if config.Replay.BaseInterval != 500*time.Millisecond {
		t.Errorf("base interval = %s", config.Replay.BaseInterval)
	}
	if got := config.NATS.JetStream.Subject("401547417"); got != "test.replay.401547417" {
		t.Errorf("subject = %q", got)
	}
	// untouched keys keep their defaults
	if config.Server.AccessRedirectStatus != http.StatusFound || config.Server.OverviewPath != "/overview" {
		t.Errorf("defaults lost: %+v", config.Server)
	}
	if !config.needsRedis() || !config.needsPostgres() {
		t.Error("expected both redis and postgres to be needed")
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if err := config.validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if config.needsRedis() || config.needsPostgres() {
		t.Error("defaults should need no external services")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("ACCESS_REDIRECT_STATUS", "303")
	t.Setenv("RAPIDAPI_KEY", "k")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("REDIS_DB", "nope")

	config := defaultConfig()
	config.applyEnv()

	if config.Server.Port != "7070" || config.Server.AccessRedirectStatus != http.StatusSeeOther {
		t.Errorf("server = %+v", config.Server)
	}
	if config.NFLAPI.Key != "k" || !config.NATS.Enabled {
		t.Errorf("key %q nats %v", config.NFLAPI.Key, config.NATS.Enabled)
	}
	if config.Redis.DB != 0 {
		t.Errorf("redis db = %d, want default", config.Redis.DB)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"non redirect status", func(c *Config) { c.Server.AccessRedirectStatus = http.StatusOK }},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"zero interval", func(c *Config) { c.Replay.BaseInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig()
			tt.mutate(config)
			if err := config.validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
