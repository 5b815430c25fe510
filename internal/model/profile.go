package model

import "time"

// PlayerProfile holds per-user league state. It is created lazily the
// first time a user appears in a game; at most one exists per user.
//
// CurrentHandicap is the size of the player's Nerts draw pile — smaller
// means a stronger track record. The cumulative counters are legacy state
// kept for the leaderboard; the stats service recomputes richer figures
// from game history on demand.
type PlayerProfile struct {
	UserID          UserID
	CurrentHandicap int
	GamesPlayed     int
	TotalPoints     int
	Wins            int
	UpdatedAt       time.Time
}
