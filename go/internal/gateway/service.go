package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/mcdev12/nflreplay/go/internal/replay"
	"github.com/rs/zerolog/log"
)

// Service serves replays over WebSocket and mirrors updates to a publisher
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	publisher         Publisher
}

// Config holds configuration for the replay gateway
type Config struct {
	ConnectionConfig ConnectionConfig
	// BaseInterval is the replay tick at 1x speed
	BaseInterval time.Duration
	ReplayOpts   []replay.Option
}

// DefaultConfig returns default configuration for the replay gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		BaseInterval:     replay.DefaultBaseInterval,
	}
}

// NewService creates a new replay gateway. A nil publisher keeps updates
// local to each WebSocket.
func NewService(config Config, summaries SummaryProvider, publisher Publisher) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}

	connectionManager := NewConnectionManager(config.ConnectionConfig)

	opts := append([]replay.Option{replay.WithBaseInterval(config.BaseInterval)}, config.ReplayOpts...)
	wsHandler := NewWebSocketHandler(connectionManager, summaries, publisher, opts...)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         wsHandler,
		publisher:         publisher,
	}
}

// Start runs the gateway until ctx is cancelled
func (s *Service) Start(ctx context.Context) {
	log.Info().Msg("starting replay gateway")

	s.connectionManager.Start(ctx)

	if err := s.publisher.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close replay publisher")
	}
	log.Info().Msg("replay gateway stopped")
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	s.wsHandler.RegisterRoutes(mux, guard)
	log.Info().Msg("replay gateway routes registered")
}

// GetStats returns statistics about the gateway
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
