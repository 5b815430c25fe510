package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]*model.User
	gamertagIndex   map[string]model.UserID
	registeredUsers map[model.UserID]*model.RegisteredUser
	usernameIndex   map[string]model.UserID
	profiles        map[model.UserID]*model.PlayerProfile
	sessions        map[model.SessionID]*model.Session
	games           map[model.GameID]*model.Game
	settings        *model.LeagueSettings
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:           make(map[model.UserID]*model.User),
		gamertagIndex:   make(map[string]model.UserID),
		registeredUsers: make(map[model.UserID]*model.RegisteredUser),
		usernameIndex:   make(map[string]model.UserID),
		profiles:        make(map[model.UserID]*model.PlayerProfile),
		sessions:        make(map[model.SessionID]*model.Session),
		games:           make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.ID]; ok && existing.Gamertag != user.Gamertag {
		delete(s.gamertagIndex, existing.Gamertag)
	}
	s.users[user.ID] = user
	if user.Gamertag != "" {
		s.gamertagIndex[user.Gamertag] = user.ID
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByGamertag(ctx context.Context, gamertag string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.gamertagIndex[gamertag]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredUsers[ru.UserID] = ru
	s.usernameIndex[ru.Username] = ru.UserID
	return nil
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ru, ok := s.registeredUsers[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return ru, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	ru, ok := s.registeredUsers[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return ru, nil
}

// Player profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]*model.PlayerProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})
	return profiles, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	// Most recent first
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.After(sessions[j].StartedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) GetGamesForSession(ctx context.Context, sessionID model.SessionID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, g := range s.games {
		if g.SessionID == sessionID {
			games = append(games, g)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].GameNumber < games[j].GameNumber
	})
	return games, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	// Most recent first
	sort.Slice(games, func(i, j int) bool {
		if !games[i].PlayedAt.Equal(games[j].PlayedAt) {
			return games[i].PlayedAt.After(games[j].PlayedAt)
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) DeleteGamesForSession(ctx context.Context, sessionID model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, g := range s.games {
		if g.SessionID == sessionID {
			delete(s.games, id)
		}
	}
	return nil
}

// League settings operations

func (s *Storage) GetLeagueSettings(ctx context.Context) (*model.LeagueSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, model.ErrSettingsNotFound
	}
	return s.settings, nil
}

func (s *Storage) SaveLeagueSettings(ctx context.Context, settings *model.LeagueSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}
