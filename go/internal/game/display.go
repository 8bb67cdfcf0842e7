package game

import (
	"slices"
	"strconv"
)

// QuarterDisplay returns the text shown for one quarter of a team's line.
// Before a quarter starts Q1 shows "0" and Q2-Q4 show nothing.
func QuarterDisplay(quarter int, scores [4]int, quartersStarted []int) string {
	if quarter < 1 || quarter > 4 {
		return ""
	}
	if slices.Contains(quartersStarted, quarter) {
		return strconv.Itoa(scores[quarter-1])
	}
	if quarter == 1 {
		return "0"
	}
	return ""
}

// Displays is the rendered Q1-Q4 line for one team
type Displays struct {
	Q1 string `json:"q1"`
	Q2 string `json:"q2"`
	Q3 string `json:"q3"`
	Q4 string `json:"q4"`
}

func QuarterDisplays(scores [4]int, quartersStarted []int) Displays {
	return Displays{
		Q1: QuarterDisplay(1, scores, quartersStarted),
		Q2: QuarterDisplay(2, scores, quartersStarted),
		Q3: QuarterDisplay(3, scores, quartersStarted),
		Q4: QuarterDisplay(4, scores, quartersStarted),
	}
}

// CalculateTotal sums the four quarters plus overtime
func CalculateTotal(scores [4]int, overtime int) int {
	total := overtime
	for _, s := range scores {
		total += s
	}
	return total
}
