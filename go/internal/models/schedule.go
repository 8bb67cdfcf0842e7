package models

// Schedule maps a date key to the games played that day
type Schedule map[string]ScheduleDay

type ScheduleDay struct {
	Games []GameSchedule `json:"games"`
}

type GameSchedule struct {
	ID           FlexInt       `json:"id"`
	Date         string        `json:"date"`
	Week         Week          `json:"week"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Season       Season        `json:"season"`
	Competitions []Competition `json:"competitions"`
}

type Week struct {
	Number int `json:"number"`
}

type Season struct {
	Year FlexInt `json:"year"`
	Type int     `json:"type"`
	Slug string  `json:"slug"` // e.g. "preseason"
}

type Competition struct {
	Competitors []Competitor `json:"competitors"`
}

type Competitor struct {
	HomeAway HomeAway `json:"homeAway"`
	Team     Team     `json:"team"`
}
