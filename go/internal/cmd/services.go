package main

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/access"
	"github.com/mcdev12/nflreplay/go/internal/dbconfig"
	"github.com/mcdev12/nflreplay/go/internal/gateway"
	"github.com/mcdev12/nflreplay/go/internal/storage"
	"github.com/mcdev12/nflreplay/go/internal/summaries"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Store     storage.Store
	Clock     clockwork.Clock
	Summaries *summaries.App
	Gateway   *gateway.Service

	closers []func() error
}

func setupServices(ctx context.Context, config *Config) *Services {
	// Wire up dependency injection chain
	// Connections → Store / Cache → App layer → Gateway

	services := &Services{Clock: clockwork.NewRealClock()}

	var deps storage.Deps
	if config.needsRedis() {
		deps.Redis = setupRedis(config)
		services.closers = append(services.closers, deps.Redis.Close)
	}
	if config.needsPostgres() {
		db, err := setupDatabase(ctx, dbconfig.NewConfigFromEnv())
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, continuing without it")
		} else {
			deps.DB = db
			services.closers = append(services.closers, db.Close)
		}
	}

	services.Store = storage.New(ctx, config.Storage, deps)

	// NFL API
	baseURL := config.NFLAPI.BaseURL
	if baseURL == "" {
		baseURL = nfl_api_client.BaseURL
	}
	if config.NFLAPI.Key == "" {
		log.Warn().Msg("RAPIDAPI_KEY is not set, upstream requests will be rejected")
	}
	client := nfl_api_client.NewNFLApiClientWithBaseURL(config.NFLAPI.Key, baseURL)
	client.SetTimeout(config.NFLAPI.Timeout)
	client.SetRateLimit(config.NFLAPI.RateLimit, config.NFLAPI.Burst)

	// Summaries
	services.Summaries = summaries.NewApp(setupCache(ctx, config, deps), client)

	// Replay gateway
	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.BaseInterval = config.Replay.BaseInterval
	services.Gateway = gateway.NewService(gatewayConfig, services.Summaries, setupPublisher(ctx, config))

	return services
}

func setupCache(ctx context.Context, config *Config, deps storage.Deps) summaries.Cache {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch config.Cache.Backend {
	case CacheRedis:
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, summary cache disabled")
			return summaries.NoopCache{}
		}
		log.Info().Msg("summary cache: redis")
		return summaries.NewRedisCache(deps.Redis)
	case CachePostgres:
		if deps.DB == nil {
			log.Warn().Msg("postgres unavailable, summary cache disabled")
			return summaries.NoopCache{}
		}
		cache := summaries.NewPostgresCache(deps.DB)
		if err := cache.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("summary table unavailable, summary cache disabled")
			return summaries.NoopCache{}
		}
		log.Info().Msg("summary cache: postgres")
		return cache
	default:
		return summaries.NoopCache{}
	}
}

func setupPublisher(ctx context.Context, config *Config) gateway.Publisher {
	if !config.NATS.Enabled {
		return gateway.NoopPublisher{}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	publisher, err := gateway.NewJetStreamPublisher(ctx, config.NATS.JetStream)
	if err != nil {
		log.Warn().Err(err).Str("url", config.NATS.JetStream.URL).Msg("JetStream unavailable, replay events stay local")
		return gateway.NoopPublisher{}
	}
	log.Info().
		Str("url", config.NATS.JetStream.URL).
		Str("stream", config.NATS.JetStream.StreamName).
		Msg("publishing replay events to JetStream")
	return publisher
}

// gateFor scopes the access gate to one viewer's keys
func (s *Services) gateFor(viewerID string) *access.Gate {
	store := storage.NewAccessor(storage.NewNamespaced(s.Store, viewerID))
	return access.NewGate(store, s.Clock)
}

func (s *Services) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Msg("failed to close connection")
		}
	}
}
