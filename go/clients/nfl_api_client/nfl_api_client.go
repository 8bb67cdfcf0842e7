package nfl_api_client

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/nflreplay/go/clients"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrFetchFailed is the single error callers see for any upstream failure
var ErrFetchFailed = errors.New("fetch game failed")

type NFLApiClient struct {
	*clients.BaseClient
	group singleflight.Group
}

func NewNFLApiClient(apiKey string) *NFLApiClient {
	return NewNFLApiClientWithBaseURL(apiKey, BaseURL)
}

// NewNFLApiClientWithBaseURL points the client somewhere other than RapidAPI,
// e.g. a local mirror or a test server.
func NewNFLApiClientWithBaseURL(apiKey, baseURL string) *NFLApiClient {
	client := &NFLApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(RapidAPIKeyHeader, apiKey)
	client.SetHeader(RapidAPIHostHeader, RapidAPIHost)

	return client
}

// fetch runs one GET per endpoint at a time. Concurrent callers asking for
// the same endpoint share the result. The shared request is detached from
// any one caller's cancellation and is bounded by the HTTP client timeout;
// a cancelled caller stops waiting without failing the others.
func (c *NFLApiClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(endpoint, func() (interface{}, error) {
		return c.Get(detached, endpoint)
	})

	select {
	case <-ctx.Done():
		log.Warn().Err(ctx.Err()).Str("endpoint", endpoint).Msg("NFL API request abandoned")
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			log.Error().Err(res.Err).Str("endpoint", endpoint).Bool("shared", res.Shared).Msg("NFL API request failed")
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, res.Err)
		}
		return res.Val.([]byte), nil
	}
}
