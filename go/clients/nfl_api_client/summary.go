package nfl_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/rs/zerolog/log"
)

// SummaryResult is a sanitized game summary plus the distinct play types
// seen in it, sorted by id.
type SummaryResult struct {
	Summary   *models.GameSummary `json:"summary"`
	PlayTypes []models.PlayType   `json:"playTypes"`
}

// GetGameSummary fetches and sanitizes the summary of a finished game
func (c *NFLApiClient) GetGameSummary(ctx context.Context, gameID string) (*SummaryResult, error) {
	endpoint := SummaryEndpoint + "?id=" + url.QueryEscape(gameID)

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var summary models.GameSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("failed to unmarshal game summary")
		return nil, fmt.Errorf("%w: failed to unmarshal response: %w", ErrFetchFailed, err)
	}

	playTypes := SanitizeSummary(&summary)

	log.Debug().
		Str("game_id", gameID).
		Int("drives", len(summary.Drives.Previous)).
		Int("play_types", len(playTypes)).
		Msg("fetched game summary")

	return &SummaryResult{Summary: &summary, PlayTypes: playTypes}, nil
}

// SanitizeSummary drops plays without a usable type and official timeouts,
// marks every drive finished and returns the distinct play types sorted by id.
func SanitizeSummary(summary *models.GameSummary) []models.PlayType {
	seen := make(map[int]bool)
	playTypes := []models.PlayType{}

	for i := range summary.Drives.Previous {
		drive := &summary.Drives.Previous[i]

		plays := make([]models.Play, 0, len(drive.Plays))
		for _, play := range drive.Plays {
			id := play.TypeID()
			if id == 0 || id == models.PlayTypeOfficialTimeout {
				continue
			}
			plays = append(plays, play)

			if !seen[id] {
				seen[id] = true
				playTypes = append(playTypes, *play.Type)
			}
		}

		drive.Plays = plays
		drive.Finished = true
	}

	sort.Slice(playTypes, func(i, j int) bool {
		return playTypes[i].ID < playTypes[j].ID
	})

	return playTypes
}
