package nfl_api_client

const (
	// Base URL
	BaseURL = "https://nfl-api1.p.rapidapi.com"

	// API Endpoints
	SummaryEndpoint  = "/nflsummary"
	ScheduleEndpoint = "/nflschedule"

	// Headers
	RapidAPIKeyHeader  = "X-RapidAPI-Key"
	RapidAPIHostHeader = "X-RapidAPI-Host"
	RapidAPIHost       = "nfl-api1.p.rapidapi.com"
)
