package models

// Phase is a span of the game that carries its own timeout allotment
type Phase string

const (
	PhaseFirstHalf  Phase = "first-half"
	PhaseSecondHalf Phase = "second-half"
	PhaseOvertime   Phase = "overtime"
)

// TimeoutInfo tracks remaining timeouts for both teams in the current phase only
type TimeoutInfo struct {
	HomeRemaining  int   `json:"homeRemaining"`
	AwayRemaining  int   `json:"awayRemaining"`
	TotalAvailable int   `json:"totalAvailable"`
	Phase          Phase `json:"phase"`
}
