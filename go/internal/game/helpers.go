package game

import "github.com/mcdev12/nflreplay/go/internal/models"

// QuarterNumber returns the quarter a play belongs to (1-4 regulation, 5+ overtime).
// Plays without a usable period return 0.
func QuarterNumber(play models.Play) int {
	if play.Period == nil || play.Period.Number < 1 {
		return 0
	}
	return play.Period.Number
}

// HighestQuarter returns the highest quarter seen across all plays, minimum 1.
func HighestQuarter(drives []models.Drive) int {
	highest := 1
	for _, drive := range drives {
		for _, play := range drive.Plays {
			if q := QuarterNumber(play); q > highest {
				highest = q
			}
		}
	}
	return highest
}

// HasQuarterStarted reports whether any play in drives falls in the given
// regulation quarter. Quarters outside 1-4 never count as started.
func HasQuarterStarted(quarter int, drives []models.Drive) bool {
	if quarter < 1 || quarter > 4 {
		return false
	}
	for _, drive := range drives {
		for _, play := range drive.Plays {
			if QuarterNumber(play) == quarter {
				return true
			}
		}
	}
	return false
}

// finishedDrives keeps only drives that will receive no further plays
func finishedDrives(drives []models.Drive) []models.Drive {
	var out []models.Drive
	for _, d := range drives {
		if d.Finished {
			out = append(out, d)
		}
	}
	return out
}

// chronologicalPlays flattens a newest-first drive list into a single
// oldest-first play sequence.
func chronologicalPlays(drives []models.Drive) []models.Play {
	var plays []models.Play
	for i := len(drives) - 1; i >= 0; i-- {
		dp := drives[i].Plays
		for j := len(dp) - 1; j >= 0; j-- {
			plays = append(plays, dp[j])
		}
	}
	return plays
}
