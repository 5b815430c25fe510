package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case []User:
		for _, u := range v {
			o.printUser(u)
		}
	case AuthResult:
		o.printAuthResult(v)
	case Settings:
		o.printSettings(v)
	case Session:
		o.printSession(v)
	case []Session:
		for _, s := range v {
			o.printSession(s)
			fmt.Println()
		}
	case SessionDetails:
		o.printSessionDetails(v)
	case Game:
		o.printGame(v)
	case []Game:
		for _, g := range v {
			o.printGame(g)
			fmt.Println()
		}
	case []PlayerStats:
		o.printStatsTable(v)
	case PlayerStats:
		o.printStatsRow(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case ImportResult:
		o.printImportResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Gamertag string `json:"gamertag,omitempty"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"sessionToken"`
}

// Rules response type
type Rules struct {
	StartingHandicap       int    `json:"startingHandicap"`
	HandicapDecrementLimit int    `json:"handicapDecrementLimit"`
	MinimumHandicap        int    `json:"minimumHandicap"`
	WhoIncrementsHandicap  string `json:"whoIncrementsHandicap"`
	NertsBonus             int    `json:"nertsBonus"`
}

// Settings response type
type Settings struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rules       Rules  `json:"rules"`
}

// Session response type
type Session struct {
	ID             string    `json:"id"`
	Name           string    `json:"name,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	StartedAt      time.Time `json:"startedAt"`
	IsRanked       bool      `json:"isRanked"`
	IsPublic       bool      `json:"isPublic"`
	IsActive       bool      `json:"isActive"`
	ParticipantIDs []string  `json:"participantIds"`
	Rules          Rules     `json:"rules"`
}

// ScoreEntry response type
type ScoreEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Handicap int    `json:"handicap"`
}

// Winner response type
type Winner struct {
	PlayerID string `json:"playerId,omitempty"`
	NoWinner bool   `json:"noWinner,omitempty"`
}

// Game response type
type Game struct {
	ID            string       `json:"id"`
	SessionID     string       `json:"sessionId,omitempty"`
	GameNumber    int          `json:"gameNumber,omitempty"`
	PlayedAt      time.Time    `json:"playedAt"`
	Scores        []ScoreEntry `json:"scores"`
	NertsPlayerID string       `json:"nertsPlayerId,omitempty"`
	Winner        Winner       `json:"winner"`
}

// Participant response type
type Participant struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Gamertag        string `json:"gamertag,omitempty"`
	CurrentHandicap int    `json:"currentHandicap"`
}

// SessionDetails response type
type SessionDetails struct {
	Session      Session       `json:"session"`
	Games        []Game        `json:"games"`
	Participants []Participant `json:"participants"`
}

// PlayerStats response type
type PlayerStats struct {
	UserID            string  `json:"userId"`
	Name              string  `json:"name"`
	Gamertag          string  `json:"gamertag,omitempty"`
	Rank              *int    `json:"rank"`
	MatchesPlayed     int     `json:"matchesPlayed"`
	Wins              int     `json:"wins"`
	TimesReachedNerts int     `json:"timesReachedNerts"`
	AverageScore      float64 `json:"averageScore"`
	ScoreMedian       float64 `json:"scoreMedian"`
	AverageHandicap   float64 `json:"averageHandicap"`
	TimesRandomRate   float64 `json:"timesRandomRate"`
	SessionsPlayed    int     `json:"sessionsPlayed,omitempty"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Gamertag    string `json:"gamertag,omitempty"`
	GamesPlayed int    `json:"gamesPlayed"`
	TotalPoints int    `json:"totalPoints"`
	Wins        int    `json:"wins"`
}

// ImportResult response type
type ImportResult struct {
	UsersCreated     int `json:"usersCreated"`
	SessionsCreated  int `json:"sessionsCreated"`
	SessionsSkipped  int `json:"sessionsSkipped"`
	SessionsReplaced int `json:"sessionsReplaced"`
	GamesImported    int `json:"gamesImported"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	if u.Gamertag != "" {
		fmt.Printf("User: %s [%s] (%s)\n", u.Name, u.Gamertag, u.ID)
	} else {
		fmt.Printf("User: %s (%s)\n", u.Name, u.ID)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printSettings(s Settings) {
	fmt.Printf("League: %s\n", s.Name)
	if s.Description != "" {
		fmt.Printf("Description: %s\n", s.Description)
	}
	o.printRules(s.Rules)
}

func (o *Output) printRules(r Rules) {
	fmt.Printf("Rules:\n")
	fmt.Printf("  Starting Handicap: %d\n", r.StartingHandicap)
	fmt.Printf("  Decrement Limit: %d\n", r.HandicapDecrementLimit)
	fmt.Printf("  Minimum Handicap: %d\n", r.MinimumHandicap)
	fmt.Printf("  Increment Goes To: %s\n", r.WhoIncrementsHandicap)
	fmt.Printf("  Nerts Bonus: %d\n", r.NertsBonus)
}

func (o *Output) printSession(s Session) {
	name := s.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("Session: %s (%s)\n", name, s.ID)
	fmt.Printf("Started: %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Printf("Ranked: %t  Public: %t  Active: %t\n", s.IsRanked, s.IsPublic, s.IsActive)
	if s.Notes != "" {
		fmt.Printf("Notes: %s\n", s.Notes)
	}
	fmt.Printf("Participants: %d\n", len(s.ParticipantIDs))
}

func (o *Output) printSessionDetails(d SessionDetails) {
	o.printSession(d.Session)

	if len(d.Participants) > 0 {
		fmt.Println("\nPlayers:")
		for _, p := range d.Participants {
			tag := ""
			if p.Gamertag != "" {
				tag = " [" + p.Gamertag + "]"
			}
			fmt.Printf("  - %s%s (handicap %d)\n", p.Name, tag, p.CurrentHandicap)
		}
	}

	if len(d.Games) > 0 {
		fmt.Println("\nGames:")
		for _, g := range d.Games {
			o.printGame(g)
			fmt.Println()
		}
	}
}

func (o *Output) printGame(g Game) {
	if g.GameNumber > 0 {
		fmt.Printf("Game %d (%s)\n", g.GameNumber, g.ID)
	} else {
		fmt.Printf("Game (%s)\n", g.ID)
	}
	fmt.Printf("Played: %s\n", g.PlayedAt.Format(time.RFC3339))
	for _, s := range g.Scores {
		marker := ""
		if g.Winner.PlayerID == s.PlayerID {
			marker += " [winner]"
		}
		if g.NertsPlayerID == s.PlayerID {
			marker += " [nerts]"
		}
		fmt.Printf("  %s: %d (handicap %d)%s\n", s.PlayerID, s.Score, s.Handicap, marker)
	}
	if g.Winner.NoWinner {
		fmt.Println("  No winner")
	}
}

func (o *Output) printStatsTable(rows []PlayerStats) {
	for _, row := range rows {
		o.printStatsRow(row)
		fmt.Println()
	}
}

func (o *Output) printStatsRow(s PlayerStats) {
	rank := "-"
	if s.Rank != nil {
		rank = fmt.Sprintf("%d", *s.Rank)
	}
	fmt.Printf("#%s %s", rank, s.Name)
	if s.Gamertag != "" {
		fmt.Printf(" [%s]", s.Gamertag)
	}
	fmt.Println()
	fmt.Printf("  Matches: %d  Wins: %d  Nerts: %d\n", s.MatchesPlayed, s.Wins, s.TimesReachedNerts)
	fmt.Printf("  Avg Score: %.2f  Median: %.1f  Avg Handicap: %.2f\n", s.AverageScore, s.ScoreMedian, s.AverageHandicap)
	if s.MatchesPlayed > 0 {
		fmt.Printf("  Times-Random Rate: %.2f\n", s.TimesRandomRate)
	}
	if s.SessionsPlayed > 0 {
		fmt.Printf("  Sessions: %d\n", s.SessionsPlayed)
	}
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	for i, e := range entries {
		tag := ""
		if e.Gamertag != "" {
			tag = " [" + e.Gamertag + "]"
		}
		fmt.Printf("%d. %s%s - %d points (%d games, %d wins)\n",
			i+1, e.Name, tag, e.TotalPoints, e.GamesPlayed, e.Wins)
	}
}

func (o *Output) printImportResult(r ImportResult) {
	fmt.Printf("Users created: %d\n", r.UsersCreated)
	fmt.Printf("Sessions created: %d\n", r.SessionsCreated)
	fmt.Printf("Sessions skipped: %d\n", r.SessionsSkipped)
	fmt.Printf("Sessions replaced: %d\n", r.SessionsReplaced)
	fmt.Printf("Games imported: %d\n", r.GamesImported)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
