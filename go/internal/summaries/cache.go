package summaries

import (
	"context"

	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
)

// Cache stores sanitized summaries of finished games. A miss is not an error.
type Cache interface {
	Get(ctx context.Context, gameID string) (*nfl_api_client.SummaryResult, bool, error)
	Put(ctx context.Context, gameID string, result *nfl_api_client.SummaryResult) error
}

// NoopCache never hits
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*nfl_api_client.SummaryResult, bool, error) {
	return nil, false, nil
}

func (NoopCache) Put(context.Context, string, *nfl_api_client.SummaryResult) error {
	return nil
}
