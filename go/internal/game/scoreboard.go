package game

import "github.com/mcdev12/nflreplay/go/internal/models"

// TeamLine is one row of the rendered scoreboard
type TeamLine struct {
	Abbreviation      string   `json:"abbreviation"`
	DisplayName       string   `json:"displayName"`
	Quarters          Displays `json:"quarters"`
	Overtime          int      `json:"overtime"`
	Total             int      `json:"total"`
	TimeoutsRemaining int      `json:"timeoutsRemaining"`
}

// Scoreboard is everything a client needs to draw the score header
type Scoreboard struct {
	Home     TeamLine             `json:"home"`
	Away     TeamLine             `json:"away"`
	Quarters models.QuarterScores `json:"quarterScores"`
	Timeouts models.TimeoutInfo   `json:"timeouts"`
}

// BuildScoreboard runs both calculators over drives and formats the result.
func BuildScoreboard(drives []models.Drive, teams []models.TeamSummary) Scoreboard {
	qs := CalculateQuarterScores(drives, teams)
	to := CalculateTimeoutInfo(drives, teams)

	sb := Scoreboard{
		Quarters: qs,
		Timeouts: to,
		Home: TeamLine{
			Quarters:          QuarterDisplays(qs.Home, qs.QuartersStarted),
			Overtime:          qs.HomeOT,
			Total:             CalculateTotal(qs.Home, qs.HomeOT),
			TimeoutsRemaining: to.HomeRemaining,
		},
		Away: TeamLine{
			Quarters:          QuarterDisplays(qs.Away, qs.QuartersStarted),
			Overtime:          qs.AwayOT,
			Total:             CalculateTotal(qs.Away, qs.AwayOT),
			TimeoutsRemaining: to.AwayRemaining,
		},
	}

	if home, away, ok := models.FindHomeAway(teams); ok {
		sb.Home.Abbreviation = home.Team.Abbreviation
		sb.Home.DisplayName = home.Team.DisplayName
		sb.Away.Abbreviation = away.Team.Abbreviation
		sb.Away.DisplayName = away.Team.DisplayName
	}

	return sb
}
