package response

import (
	"time"

	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/auth"
	"github.com/mcoot/nertsleague-go/internal/services/session"
)

// User represents a league user in API responses
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Gamertag string `json:"gamertag,omitempty"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:       string(u.ID),
		Name:     u.Name,
		Gamertag: u.Gamertag,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"sessionToken"`
}

// AuthResponseFromSession creates an AuthResponse from an auth session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Settings represents the league settings in API responses
type Settings struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Rules       model.Rules `json:"rules"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// SettingsFromModel converts model.LeagueSettings
func SettingsFromModel(s *model.LeagueSettings) Settings {
	return Settings{
		Name:        s.Name,
		Description: s.Description,
		Rules:       s.Rules,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Session represents a play session in API responses
type Session struct {
	ID             string      `json:"id"`
	Name           string      `json:"name,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	StartedAt      time.Time   `json:"startedAt"`
	IsRanked       bool        `json:"isRanked"`
	IsPublic       bool        `json:"isPublic"`
	IsActive       bool        `json:"isActive"`
	ParticipantIDs []string    `json:"participantIds"`
	CreatedBy      string      `json:"createdBy"`
	Rules          model.Rules `json:"rules"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	participants := make([]string, len(s.ParticipantIDs))
	for i, id := range s.ParticipantIDs {
		participants[i] = string(id)
	}
	return Session{
		ID:             string(s.ID),
		Name:           s.Name,
		Notes:          s.Notes,
		StartedAt:      s.StartedAt,
		IsRanked:       s.IsRanked,
		IsPublic:       s.IsPublic,
		IsActive:       s.IsActive,
		ParticipantIDs: participants,
		CreatedBy:      string(s.CreatedBy),
		Rules:          s.Rules,
	}
}

// ScoreEntry is one player's result within a game response
type ScoreEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Handicap int    `json:"handicap"`
}

// Game represents a recorded game in API responses
type Game struct {
	ID            string       `json:"id"`
	SessionID     string       `json:"sessionId,omitempty"`
	GameNumber    int          `json:"gameNumber,omitempty"`
	PlayedAt      time.Time    `json:"playedAt"`
	Scores        []ScoreEntry `json:"scores"`
	NertsPlayerID string       `json:"nertsPlayerId,omitempty"`
	Winner        model.Winner `json:"winner"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	scores := make([]ScoreEntry, len(g.Scores))
	for i, sc := range g.Scores {
		scores[i] = ScoreEntry{
			PlayerID: string(sc.PlayerID),
			Score:    sc.Score,
			Handicap: sc.Handicap,
		}
	}
	return Game{
		ID:            string(g.ID),
		SessionID:     string(g.SessionID),
		GameNumber:    g.GameNumber,
		PlayedAt:      g.PlayedAt,
		Scores:        scores,
		NertsPlayerID: string(g.NertsPlayerID),
		Winner:        g.Winner,
	}
}

// Participant is an enriched session participant
type Participant struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Gamertag        string `json:"gamertag,omitempty"`
	CurrentHandicap int    `json:"currentHandicap"`
}

// SessionDetails is the enriched session view
type SessionDetails struct {
	Session      Session       `json:"session"`
	Games        []Game        `json:"games"`
	Participants []Participant `json:"participants"`
}

// SessionDetailsFromModel converts session.Details
func SessionDetailsFromModel(d *session.Details) SessionDetails {
	games := make([]Game, len(d.Games))
	for i, g := range d.Games {
		games[i] = GameFromModel(g)
	}
	participants := make([]Participant, len(d.Participants))
	for i, p := range d.Participants {
		participants[i] = Participant{
			UserID:          string(p.UserID),
			Name:            p.Name,
			Gamertag:        p.Gamertag,
			CurrentHandicap: p.CurrentHandicap,
		}
	}
	return SessionDetails{
		Session:      SessionFromModel(d.Session),
		Games:        games,
		Participants: participants,
	}
}
