package game_test

import (
	"fmt"

	"github.com/mcdev12/nflreplay/go/internal/models"
)

func teams(homeAbbr, awayAbbr string) []models.TeamSummary {
	return []models.TeamSummary{
		{HomeAway: models.Home, Team: models.Team{Abbreviation: homeAbbr, DisplayName: homeAbbr + " Home"}},
		{HomeAway: models.Away, Team: models.Team{Abbreviation: awayAbbr, DisplayName: awayAbbr + " Away"}},
	}
}

func play(quarter, home, away int) models.Play {
	return models.Play{
		Period:    &models.Period{Number: quarter},
		HomeScore: home,
		AwayScore: away,
		Type:      &models.PlayType{ID: 5, Text: "Rush"},
	}
}

func timeout(quarter int, abbr string) models.Play {
	return models.Play{
		Period: &models.Period{Number: quarter},
		Type:   &models.PlayType{ID: models.PlayTypeTimeout, Text: "Timeout"},
		Text:   fmt.Sprintf("Timeout #1 by %s at 02:36.", abbr),
	}
}

// drive builds a finished drive from plays given oldest first, storing them
// newest first the way the feed does.
func drive(chronological ...models.Play) models.Drive {
	plays := make([]models.Play, len(chronological))
	for i, p := range chronological {
		plays[len(chronological)-1-i] = p
	}
	return models.Drive{Plays: plays, Finished: true}
}

// newestFirst reverses drives given oldest first
func newestFirst(chronological ...models.Drive) []models.Drive {
	out := make([]models.Drive, len(chronological))
	for i, d := range chronological {
		out[len(chronological)-1-i] = d
	}
	return out
}
