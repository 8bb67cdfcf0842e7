package summaries

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/game"
	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrNotFound means the id does not name a game with two teams
var ErrNotFound = errors.New("game not found")

// Fetcher defines what the app needs from the upstream client
type Fetcher interface {
	GetGameSummary(ctx context.Context, gameID string) (*nfl_api_client.SummaryResult, error)
	GetSchedule(ctx context.Context, day time.Time) (models.Schedule, error)
}

// GameView is a summary with its derived scoreboard
type GameView struct {
	Summary    *models.GameSummary `json:"summary"`
	PlayTypes  []models.PlayType   `json:"playTypes"`
	Scoreboard game.Scoreboard     `json:"scoreboard"`
}

// App serves game summaries from the cache, falling back to the upstream feed
type App struct {
	cache  Cache
	client Fetcher
}

// NewApp creates a new summaries App. A nil cache disables caching.
func NewApp(cache Cache, client Fetcher) *App {
	if cache == nil {
		cache = NoopCache{}
	}
	return &App{
		cache:  cache,
		client: client,
	}
}

// Summary returns the sanitized summary of a game. Cache failures are logged
// and bypassed; upstream failures surface as nfl_api_client.ErrFetchFailed.
func (a *App) Summary(ctx context.Context, gameID string) (*nfl_api_client.SummaryResult, error) {
	if err := validateGameID(gameID); err != nil {
		return nil, err
	}

	cached, ok, err := a.cache.Get(ctx, gameID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("summary cache read failed")
	}
	if ok {
		return cached, nil
	}

	result, err := a.client.GetGameSummary(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if _, _, found := models.FindHomeAway(result.Summary.Teams); !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, gameID)
	}

	if err := a.cache.Put(ctx, gameID, result); err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("summary cache write failed")
	}
	return result, nil
}

// Game returns the summary of a game together with its scoreboard
func (a *App) Game(ctx context.Context, gameID string) (*GameView, error) {
	result, err := a.Summary(ctx, gameID)
	if err != nil {
		return nil, err
	}

	drives := result.Summary.Drives.Previous
	return &GameView{
		Summary:    result.Summary,
		PlayTypes:  result.PlayTypes,
		Scoreboard: game.BuildScoreboard(drives, result.Summary.Teams),
	}, nil
}

// Schedule returns the games played on day. Schedules are not cached.
func (a *App) Schedule(ctx context.Context, day time.Time) (models.Schedule, error) {
	schedule, err := a.client.GetSchedule(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return schedule, nil
}

func validateGameID(gameID string) error {
	if gameID == "" {
		return fmt.Errorf("%w: empty game id", ErrNotFound)
	}
	if _, err := strconv.ParseUint(gameID, 10, 64); err != nil {
		return fmt.Errorf("%w: invalid game id %q", ErrNotFound, gameID)
	}
	return nil
}
