package summaries_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/mcdev12/nflreplay/go/internal/summaries"
)

type fakeFetcher struct {
	result *nfl_api_client.SummaryResult
	err    error
	calls  int
}

func (f *fakeFetcher) GetGameSummary(_ context.Context, _ string) (*nfl_api_client.SummaryResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeFetcher) GetSchedule(_ context.Context, _ time.Time) (models.Schedule, error) {
	f.calls++
	return models.Schedule{}, f.err
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*nfl_api_client.SummaryResult
	getErr  error
	putErr  error
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*nfl_api_client.SummaryResult{}}
}

func (c *fakeCache) Get(_ context.Context, gameID string) (*nfl_api_client.SummaryResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	r, ok := c.entries[gameID]
	return r, ok, nil
}

func (c *fakeCache) Put(_ context.Context, gameID string, r *nfl_api_client.SummaryResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[gameID] = r
	return nil
}

func sampleResult() *nfl_api_client.SummaryResult {
	return &nfl_api_client.SummaryResult{
		Summary: &models.GameSummary{
			ID: 401547417,
			Teams: []models.TeamSummary{
				{HomeAway: models.Home, Team: models.Team{Abbreviation: "LV"}},
				{HomeAway: models.Away, Team: models.Team{Abbreviation: "SF"}},
			},
			Drives: models.Drives{Previous: []models.Drive{{
				ID:       "1",
				Finished: true,
				Plays: []models.Play{
					{SequenceNumber: "1", HomeScore: 7, Period: &models.Period{Number: 1}, Type: &models.PlayType{ID: 68}},
				},
			}}},
		},
		PlayTypes: []models.PlayType{{ID: 68, Text: "Touchdown"}},
	}
}

func TestApp_SummaryCachesFetched(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{result: sampleResult()}
	cache := newFakeCache()
	app := summaries.NewApp(cache, fetcher)

	for i := 0; i < 3; i++ {
		if _, err := app.Summary(ctx, "401547417"); err != nil {
			t.Fatalf("Summary: %v", err)
		}
	}

	if fetcher.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", fetcher.calls)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
}

func TestApp_SummaryBypassesBrokenCache(t *testing.T) {
	fetcher := &fakeFetcher{result: sampleResult()}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.putErr = errors.New("connection refused")
	app := summaries.NewApp(cache, fetcher)

	result, err := app.Summary(context.Background(), "401547417")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if result.Summary.ID != 401547417 {
		t.Errorf("ID = %d", result.Summary.ID)
	}
}

func TestApp_SummaryErrors(t *testing.T) {
	noTeams := sampleResult()
	noTeams.Summary.Teams = nil

	tests := []struct {
		name    string
		gameID  string
		fetcher *fakeFetcher
		want    error
	}{
		{"empty id", "", &fakeFetcher{}, summaries.ErrNotFound},
		{"non numeric id", "../admin", &fakeFetcher{}, summaries.ErrNotFound},
		{"upstream failure", "1", &fakeFetcher{err: nfl_api_client.ErrFetchFailed}, nfl_api_client.ErrFetchFailed},
		{"no teams", "1", &fakeFetcher{result: noTeams}, summaries.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newFakeCache()
			app := summaries.NewApp(cache, tt.fetcher)

			_, err := app.Summary(context.Background(), tt.gameID)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if cache.puts != 0 {
				t.Errorf("failed lookup was cached")
			}
		})
	}
}

func TestApp_Game(t *testing.T) {
	app := summaries.NewApp(nil, &fakeFetcher{result: sampleResult()})

	view, err := app.Game(context.Background(), "401547417")
	if err != nil {
		t.Fatalf("Game: %v", err)
	}

	if view.Scoreboard.Home.Total != 7 || view.Scoreboard.Away.Total != 0 {
		t.Errorf("totals = %d-%d, want 7-0", view.Scoreboard.Home.Total, view.Scoreboard.Away.Total)
	}
	if view.Scoreboard.Home.Abbreviation != "LV" {
		t.Errorf("home = %q", view.Scoreboard.Home.Abbreviation)
	}
	if len(view.PlayTypes) != 1 {
		t.Errorf("play types = %v", view.PlayTypes)
	}
}

func TestApp_ScheduleWrapsErrors(t *testing.T) {
	app := summaries.NewApp(nil, &fakeFetcher{err: nfl_api_client.ErrFetchFailed})

	_, err := app.Schedule(context.Background(), time.Now())
	if !errors.Is(err, nfl_api_client.ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}
}
