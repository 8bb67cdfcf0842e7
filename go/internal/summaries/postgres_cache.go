package summaries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/mcdev12/nflreplay/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Schema is the DDL for the summary table. tools/seed_summaries applies it too.
const Schema = `
CREATE TABLE IF NOT EXISTS game_summaries (
	game_id    TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	play_types JSONB,
	fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresCache keeps summaries in the game_summaries table. Finished games
// do not change, so rows never expire.
type PostgresCache struct {
	db *sql.DB
}

func NewPostgresCache(db *sql.DB) *PostgresCache {
	return &PostgresCache{db: db}
}

// EnsureSchema creates the summary table if it does not exist
func (c *PostgresCache) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create game_summaries: %w", err)
	}
	return nil
}

func (c *PostgresCache) Get(ctx context.Context, gameID string) (*nfl_api_client.SummaryResult, bool, error) {
	var payload, playTypes pqtype.NullRawMessage
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, play_types FROM game_summaries WHERE game_id = $1`, gameID,
	).Scan(&payload, &playTypes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get summary %s: %w", gameID, err)
	}

	var summary models.GameSummary
	if err := json.Unmarshal(sqlutil.FromNullRawMessage(payload), &summary); err != nil {
		return nil, false, fmt.Errorf("failed to decode summary %s: %w", gameID, err)
	}

	result := &nfl_api_client.SummaryResult{Summary: &summary, PlayTypes: []models.PlayType{}}
	if raw := sqlutil.FromNullRawMessage(playTypes); raw != nil {
		if err := json.Unmarshal(raw, &result.PlayTypes); err != nil {
			return nil, false, fmt.Errorf("failed to decode play types %s: %w", gameID, err)
		}
	}
	return result, true, nil
}

func (c *PostgresCache) Put(ctx context.Context, gameID string, result *nfl_api_client.SummaryResult) error {
	payload, err := sqlutil.MarshalNullRawMessage(result.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary %s: %w", gameID, err)
	}
	playTypes, err := sqlutil.MarshalNullRawMessage(result.PlayTypes)
	if err != nil {
		return fmt.Errorf("failed to encode play types %s: %w", gameID, err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO game_summaries (game_id, payload, play_types, fetched_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (game_id) DO UPDATE
		SET payload = EXCLUDED.payload, play_types = EXCLUDED.play_types, fetched_at = now()`,
		gameID, payload, playTypes)
	if err != nil {
		return fmt.Errorf("failed to put summary %s: %w", gameID, err)
	}
	return nil
}
