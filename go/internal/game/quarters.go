package game

import "github.com/mcdev12/nflreplay/go/internal/models"

type scoreSnapshot struct {
	home int
	away int
}

func snapshotOf(p models.Play) scoreSnapshot {
	return scoreSnapshot{home: p.HomeScore, away: p.AwayScore}
}

// CalculateQuarterScores rebuilds points per quarter from the cumulative score
// carried on every play. Only finished drives contribute.
//
// The first play of a quarter is diffed against the score at the end of the
// previous quarter; later plays against the previous play of the same quarter.
// Negative deltas (a score taken off the board) are kept as-is so the quarter
// totals always add up to the final score.
func CalculateQuarterScores(drives []models.Drive, teams []models.TeamSummary) models.QuarterScores {
	result := models.NewQuarterScores()

	if _, _, ok := models.FindHomeAway(teams); !ok {
		return result
	}

	finished := finishedDrives(drives)
	if len(finished) == 0 {
		return result
	}

	endOfQuarter := make(map[int]scoreSnapshot)

	for _, play := range chronologicalPlays(finished) {
		quarter := QuarterNumber(play)
		if quarter == 0 {
			continue
		}

		base, seen := endOfQuarter[quarter]
		if !seen {
			base = quarterStartScore(endOfQuarter, quarter)
		}

		homeDelta := play.HomeScore - base.home
		awayDelta := play.AwayScore - base.away

		if quarter <= 4 {
			result.Home[quarter-1] += homeDelta
			result.Away[quarter-1] += awayDelta
		} else {
			result.HomeOT += homeDelta
			result.AwayOT += awayDelta
		}

		endOfQuarter[quarter] = snapshotOf(play)
	}

	result.CurrentQuarter = HighestQuarter(finished)
	result.HasOvertime = result.CurrentQuarter >= 5

	for q := 1; q <= 4; q++ {
		if HasQuarterStarted(q, finished) {
			result.QuartersStarted = append(result.QuartersStarted, q)
		}
	}

	return result
}

// quarterStartScore is the score at the end of the closest earlier quarter
// that had plays, or 0-0 when there is none.
func quarterStartScore(endOfQuarter map[int]scoreSnapshot, quarter int) scoreSnapshot {
	for q := quarter - 1; q >= 1; q-- {
		if s, ok := endOfQuarter[q]; ok {
			return s
		}
	}
	return scoreSnapshot{}
}
