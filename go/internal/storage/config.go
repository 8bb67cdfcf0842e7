package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Backend names accepted in Config.Backend
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

type Config struct {
	Backend string `yaml:"backend"`
	Table   string `yaml:"table"`
}

// Deps are the shared connections a backend may be built on
type Deps struct {
	Redis *redis.Client
	DB    *sql.DB
}

// New picks the backing store once at startup. A backend that cannot be
// reached degrades to NoopStore so access checks become advisory.
func New(ctx context.Context, cfg Config, deps Deps) Store {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore()
	case BackendRedis:
		if deps.Redis == nil {
			log.Warn().Msg("redis storage selected without a client, access gate disabled")
			return NoopStore{}
		}
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, access gate disabled")
			return NoopStore{}
		}
		return NewRedisStore(deps.Redis)
	case BackendPostgres:
		if deps.DB == nil {
			log.Warn().Msg("postgres storage selected without a database, access gate disabled")
			return NoopStore{}
		}
		s := NewPostgresStore(deps.DB, cfg.Table)
		if err := s.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("postgres storage unavailable, access gate disabled")
			return NoopStore{}
		}
		return s
	case BackendNone:
		return NoopStore{}
	default:
		log.Warn().Str("backend", cfg.Backend).Msg("unknown storage backend, access gate disabled")
		return NoopStore{}
	}
}
