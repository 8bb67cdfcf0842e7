package nfl_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/rs/zerolog/log"
)

// GetSchedule fetches the games scheduled on the given day
func (c *NFLApiClient) GetSchedule(ctx context.Context, day time.Time) (models.Schedule, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(day.Year()))
	q.Set("month", fmt.Sprintf("%02d", int(day.Month())))
	q.Set("day", fmt.Sprintf("%02d", day.Day()))
	endpoint := ScheduleEndpoint + "?" + q.Encode()

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var schedule models.Schedule
	if err := json.Unmarshal(body, &schedule); err != nil {
		log.Error().Err(err).Str("date", day.Format(time.DateOnly)).Msg("failed to unmarshal schedule")
		return nil, fmt.Errorf("%w: failed to unmarshal response: %w", ErrFetchFailed, err)
	}

	return schedule, nil
}
