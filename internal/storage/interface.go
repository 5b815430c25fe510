package storage

import (
	"context"

	"github.com/mcoot/nertsleague-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByGamertag(ctx context.Context, gamertag string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Registered user operations
	SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error
	GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error)
	GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error)

	// Player profile operations
	SaveProfile(ctx context.Context, profile *model.PlayerProfile) error
	GetProfile(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error)
	ListProfiles(ctx context.Context) ([]*model.PlayerProfile, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	ListSessions(ctx context.Context) ([]*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGamesForSession(ctx context.Context, sessionID model.SessionID) ([]*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	DeleteGamesForSession(ctx context.Context, sessionID model.SessionID) error

	// League settings operations (singleton)
	GetLeagueSettings(ctx context.Context) (*model.LeagueSettings, error)
	SaveLeagueSettings(ctx context.Context, settings *model.LeagueSettings) error
}
