package models

// Play-type codes from the upstream feed that the app reasons about.
const (
	PlayTypeTimeout         = 21
	PlayTypeOfficialTimeout = 74
)
