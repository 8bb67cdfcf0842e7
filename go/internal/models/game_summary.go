package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GameSummary is the play-by-play summary of a single game as served by the NFL API
type GameSummary struct {
	ID     FlexInt       `json:"id"`
	Teams  []TeamSummary `json:"teams"`
	Drives Drives        `json:"drives"`
}

// Drives wraps the drive list the way the upstream feed nests it
type Drives struct {
	Previous []Drive `json:"previous"`
}

// TeamSummary identifies a team in a game and which side it plays on
type TeamSummary struct {
	HomeAway   HomeAway     `json:"homeAway"`
	Score      FlexInt      `json:"score"`
	Team       Team         `json:"team"`
	Record     []TeamRecord `json:"record,omitempty"`
	Linescores []Linescore  `json:"linescores,omitempty"`
}

// HomeAway tags a team as the home or the away side
type HomeAway string

const (
	Home HomeAway = "home"
	Away HomeAway = "away"
)

type Team struct {
	ID               string `json:"id,omitempty"`
	Abbreviation     string `json:"abbreviation"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName,omitempty"`
	Name             string `json:"name"`
	Nickname         string `json:"nickname,omitempty"`
	Logo             string `json:"logo,omitempty"`
}

type TeamRecord struct {
	DisplayValue string `json:"displayValue"`
	Type         string `json:"type"`
}

type Linescore struct {
	DisplayValue FlexInt `json:"displayValue"`
}

// Drive is one possession. Plays are stored newest first.
type Drive struct {
	ID                 string    `json:"id,omitempty"`
	Description        string    `json:"description"`
	DisplayResult      string    `json:"displayResult"`
	ShortDisplayResult string    `json:"shortDisplayResult"`
	IsScore            bool      `json:"isScore"`
	Team               Team      `json:"team"`
	Start              PlayStart `json:"start"`
	Plays              []Play    `json:"plays"`
	Finished           bool      `json:"finished"`
}

// Play is a single game event. HomeScore and AwayScore are cumulative.
type Play struct {
	ID             string    `json:"id,omitempty"`
	SequenceNumber string    `json:"sequenceNumber"`
	Type           *PlayType `json:"type,omitempty"`
	Text           string    `json:"text"`
	HomeScore      int       `json:"homeScore"`
	AwayScore      int       `json:"awayScore"`
	Period         *Period   `json:"period,omitempty"`
	Clock          Clock     `json:"clock"`
	ScoringPlay    bool      `json:"scoringPlay"`
	Priority       bool      `json:"priority"`
	StatYardage    int       `json:"statYardage"`
	Start          PlayStart `json:"start"`
}

type PlayType struct {
	ID           FlexInt `json:"id"`
	Text         string  `json:"text"`
	Abbreviation string  `json:"abbreviation,omitempty"`
}

type Period struct {
	Number int    `json:"number"`
	Type   string `json:"type,omitempty"`
}

type Clock struct {
	DisplayValue string `json:"displayValue"`
}

type PlayStart struct {
	Period           *Period `json:"period,omitempty"`
	Down             int     `json:"down,omitempty"`
	Distance         int     `json:"distance,omitempty"`
	YardLine         int     `json:"yardLine"`
	Text             string  `json:"text,omitempty"`
	DownDistanceText string  `json:"downDistanceText,omitempty"`
	Clock            *Clock  `json:"clock,omitempty"`
}

// FlexInt decodes integers the feed sometimes sends as quoted strings.
// Unparseable strings decode to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flex int: %w", err)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// HomeAndAway returns the home and away team summaries, if both are present
func (g *GameSummary) HomeAndAway() (home, away *TeamSummary, ok bool) {
	return FindHomeAway(g.Teams)
}

// FindHomeAway picks the first home and first away team out of teams.
func FindHomeAway(teams []TeamSummary) (home, away *TeamSummary, ok bool) {
	if len(teams) < 2 {
		return nil, nil, false
	}
	for i := range teams {
		switch teams[i].HomeAway {
		case Home:
			if home == nil {
				home = &teams[i]
			}
		case Away:
			if away == nil {
				away = &teams[i]
			}
		}
	}
	return home, away, home != nil && away != nil
}

// TypeID returns the play-type code, or 0 when the play carries no type
func (p Play) TypeID() int {
	if p.Type == nil {
		return 0
	}
	return int(p.Type.ID)
}

// Clone returns a copy of the drive that shares no play slice with d
func (d Drive) Clone() Drive {
	out := d
	if d.Plays != nil {
		out.Plays = make([]Play, len(d.Plays))
		copy(out.Plays, d.Plays)
	}
	return out
}

// CloneDrives deep-copies a drive list down to the play slices
func CloneDrives(drives []Drive) []Drive {
	if drives == nil {
		return nil
	}
	out := make([]Drive, len(drives))
	for i, d := range drives {
		out[i] = d.Clone()
	}
	return out
}
