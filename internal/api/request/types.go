package request

import "github.com/mcoot/nertsleague-go/internal/model"

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Gamertag string `json:"gamertag,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest is the request body for creating a league user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Gamertag string `json:"gamertag,omitempty"`
}

// UpdateUserRequest is the request body for editing a user.
// Empty fields are left unchanged.
type UpdateUserRequest struct {
	Name     string `json:"name,omitempty"`
	Gamertag string `json:"gamertag,omitempty"`
}

// UpdateSettingsRequest is the request body for updating league settings
type UpdateSettingsRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Rules       model.Rules `json:"rules"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name           string       `json:"name,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	IsRanked       bool         `json:"isRanked"`
	IsPublic       bool         `json:"isPublic"`
	ParticipantIDs []string     `json:"participantIds"`
	Rules          *model.Rules `json:"rules,omitempty"`
}

// AddPlayerRequest is the request body for adding a session participant
type AddPlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// PlayerScore is one player's raw score in a game submission
type PlayerScore struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// RecordGameRequest is the request body for recording a game's results
type RecordGameRequest struct {
	Scores        []PlayerScore `json:"scores"`
	NertsPlayerID string        `json:"nertsPlayerId,omitempty"`
	NoWinner      bool          `json:"noWinner,omitempty"`
}

// ImportRequest is the request body for a bulk import
type ImportRequest struct {
	Data string `json:"data"`
	Mode string `json:"mode"`
}
