package model

import "time"

// GameID uniquely identifies a game
type GameID string

// ScoreEntry is one player's result within a game. Score is the adjusted
// (Nerts-bonus-included) score; Handicap is the player's handicap captured
// when the game was recorded and is never rewritten, even by corrections.
type ScoreEntry struct {
	PlayerID UserID `json:"playerId"`
	Score    int    `json:"score"`
	Handicap int    `json:"handicap"`
}

// Winner is the outcome of a game: either a winning player, or an explicit
// "no winner" marker. The zero value means the outcome was never set, which
// only occurs on legacy data.
type Winner struct {
	PlayerID UserID `json:"playerId,omitempty"`
	NoWinner bool   `json:"noWinner,omitempty"`
}

// WinnerOf returns a Winner naming the given player
func WinnerOf(id UserID) Winner {
	return Winner{PlayerID: id}
}

// NoWinner returns the explicit no-winner outcome
func NoWinner() Winner {
	return Winner{NoWinner: true}
}

// None reports whether the game has no winning player
func (w Winner) None() bool {
	return w.NoWinner || w.PlayerID == ""
}

// Is reports whether the given player won
func (w Winner) Is(id UserID) bool {
	return !w.NoWinner && w.PlayerID == id && id != ""
}

// Game is one scored round. Games normally belong to a session; legacy
// games recorded before sessions existed have an empty SessionID.
type Game struct {
	ID            GameID
	SessionID     SessionID // empty for legacy standalone games
	GameNumber    int       // 1-based position within the session, assigned at creation
	PlayedAt      time.Time
	Scores        []ScoreEntry
	NertsPlayerID UserID // player who reached Nerts; empty if nobody did
	Winner        Winner
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Entry returns this game's score entry for the given player, or nil
func (g *Game) Entry(playerID UserID) *ScoreEntry {
	for i := range g.Scores {
		if g.Scores[i].PlayerID == playerID {
			return &g.Scores[i]
		}
	}
	return nil
}
