package model

// IncrementPolicy selects which player's handicap grows after a ranked game
type IncrementPolicy string

const (
	// IncrementNertsPlayer increments the handicap of the player who reached Nerts
	IncrementNertsPlayer IncrementPolicy = "nertsPlayer"
	// IncrementHighestScore increments the handicap of the game's winner
	IncrementHighestScore IncrementPolicy = "highestScore"
)

// Rules holds the league rule configuration applied to a session's games.
// A session snapshots its rules at creation; the snapshot never changes
// even if the league defaults are edited later.
//
// The JSON encoding is the interchange format used in CSV export, so the
// field names are fixed.
type Rules struct {
	StartingHandicap       int             `json:"startingHandicap"`
	HandicapDecrementLimit int             `json:"handicapDecrementLimit"`
	MinimumHandicap        int             `json:"minimumHandicap"`
	WhoIncrementsHandicap  IncrementPolicy `json:"whoIncrementsHandicap"`
	NertsBonus             int             `json:"nertsBonus"`
}

// DefaultLeagueRules returns the hard-coded fallback rule configuration
func DefaultLeagueRules() Rules {
	return Rules{
		StartingHandicap:       13,
		HandicapDecrementLimit: 0,
		MinimumHandicap:        3,
		WhoIncrementsHandicap:  IncrementNertsPlayer,
		NertsBonus:             5,
	}
}
