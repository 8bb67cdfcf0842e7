package models

// QuarterScores holds points scored per quarter, not cumulative totals
type QuarterScores struct {
	// Home and Away are indexed Q1..Q4
	Home            [4]int `json:"home"`
	Away            [4]int `json:"away"`
	HomeOT          int    `json:"homeOT"`
	AwayOT          int    `json:"awayOT"`
	QuartersStarted []int  `json:"quartersStarted"`
	CurrentQuarter  int    `json:"currentQuarter"`
	HasOvertime     bool   `json:"hasOvertime"`
}

// NewQuarterScores returns the zero result: nothing started, first quarter
func NewQuarterScores() QuarterScores {
	return QuarterScores{
		QuartersStarted: []int{},
		CurrentQuarter:  1,
	}
}
