package model

import "time"

// LeagueSettings is the singleton holding league-wide defaults. Its rules
// are used only when a new session does not supply its own.
type LeagueSettings struct {
	Name        string
	Description string
	Rules       Rules
	UpdatedAt   time.Time
}
