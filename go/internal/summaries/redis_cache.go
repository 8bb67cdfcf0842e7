package summaries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/redis/go-redis/v9"
)

// SummaryTTL is how long a finished game's summary stays cached
const SummaryTTL = 6 * time.Hour

// RedisCache keeps summaries as JSON strings under game:<id>:summary
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    SummaryTTL,
	}
}

func summaryKey(gameID string) string {
	return fmt.Sprintf("game:%s:summary", gameID)
}

func (c *RedisCache) Get(ctx context.Context, gameID string) (*nfl_api_client.SummaryResult, bool, error) {
	data, err := c.client.Get(ctx, summaryKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading summary %s: %w", gameID, err)
	}

	var result nfl_api_client.SummaryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("unmarshaling summary %s: %w", gameID, err)
	}
	return &result, true, nil
}

func (c *RedisCache) Put(ctx context.Context, gameID string, result *nfl_api_client.SummaryResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling summary %s: %w", gameID, err)
	}
	return c.client.Set(ctx, summaryKey(gameID), data, c.ttl).Err()
}
