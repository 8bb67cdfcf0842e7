package game

import (
	"regexp"
	"strings"

	"github.com/mcdev12/nflreplay/go/internal/models"
)

// Timeout play text looks like "Timeout #1 by DEN at 02:36."
var timeoutTeamPattern = regexp.MustCompile(`(?i)by\s+([A-Z]{2,3})\s+at`)

func phaseForQuarter(highest int) models.Phase {
	switch {
	case highest >= 5:
		return models.PhaseOvertime
	case highest >= 3:
		return models.PhaseSecondHalf
	default:
		return models.PhaseFirstHalf
	}
}

// TimeoutsPerPhase returns the allotment for a phase. Allotments never carry over.
func TimeoutsPerPhase(phase models.Phase) int {
	if phase == models.PhaseOvertime {
		return 2
	}
	return 3
}

func inPhase(quarter int, phase models.Phase) bool {
	switch phase {
	case models.PhaseFirstHalf:
		return quarter >= 1 && quarter <= 2
	case models.PhaseSecondHalf:
		return quarter >= 3 && quarter <= 4
	default:
		return quarter >= 5
	}
}

// TimeoutTeam extracts the calling team's abbreviation from timeout play text.
func TimeoutTeam(text string) (string, bool) {
	m := timeoutTeamPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

func countTimeoutsUsed(drives []models.Drive, abbr string, phase models.Phase) int {
	abbr = strings.ToUpper(abbr)
	used := 0
	for _, drive := range drives {
		for _, play := range drive.Plays {
			if play.TypeID() != models.PlayTypeTimeout {
				continue
			}
			q := QuarterNumber(play)
			if q == 0 || !inPhase(q, phase) {
				continue
			}
			if team, ok := TimeoutTeam(play.Text); ok && team == abbr {
				used++
			}
		}
	}
	return used
}

// CalculateTimeoutInfo counts timeouts in the current phase across all drives,
// finished or not, so counts move while a drive is still being replayed.
func CalculateTimeoutInfo(drives []models.Drive, teams []models.TeamSummary) models.TimeoutInfo {
	info := models.TimeoutInfo{
		HomeRemaining:  3,
		AwayRemaining:  3,
		TotalAvailable: 3,
		Phase:          models.PhaseFirstHalf,
	}

	home, away, ok := models.FindHomeAway(teams)
	if !ok || home.Team.Abbreviation == "" || away.Team.Abbreviation == "" {
		return info
	}

	phase := phaseForQuarter(HighestQuarter(drives))
	total := TimeoutsPerPhase(phase)

	homeUsed := countTimeoutsUsed(drives, home.Team.Abbreviation, phase)
	awayUsed := countTimeoutsUsed(drives, away.Team.Abbreviation, phase)

	return models.TimeoutInfo{
		HomeRemaining:  max(0, total-homeUsed),
		AwayRemaining:  max(0, total-awayUsed),
		TotalAvailable: total,
		Phase:          phase,
	}
}
