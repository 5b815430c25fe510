package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// If the gamertag changed, the old index entry must go
	var staleGamertag string
	if existing, err := s.GetUser(ctx, user.ID); err == nil {
		if existing.Gamertag != "" && existing.Gamertag != user.Gamertag {
			staleGamertag = existing.Gamertag
		}
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.SAdd(ctx, usersIndexKey(), string(user.ID))
	if staleGamertag != "" {
		pipe.Del(ctx, gamertagIndexKey(staleGamertag))
	}
	if user.Gamertag != "" {
		pipe.Set(ctx, gamertagIndexKey(user.Gamertag), string(user.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByGamertag(ctx context.Context, gamertag string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, gamertagIndexKey(gamertag)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(idStr))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUser(ctx, model.UserID(id))
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				continue // stale index entry
			}
			return nil, err
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	data, err := json.Marshal(ru)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredUserKey(ru.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(ru.Username), string(ru.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	data, err := s.client.Get(ctx, registeredUserKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var ru model.RegisteredUser
	if err := json.Unmarshal(data, &ru); err != nil {
		return nil, err
	}
	return &ru, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetRegisteredUser(ctx, model.UserID(idStr))
}

// Player profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.PlayerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(profile.UserID), data, 0)
	pipe.SAdd(ctx, profilesIndexKey(), string(profile.UserID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error) {
	data, err := s.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.PlayerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.PlayerProfile, error) {
	ids, err := s.client.SMembers(ctx, profilesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*model.PlayerProfile, 0, len(ids))
	for _, id := range ids {
		profile, err := s.GetProfile(ctx, model.UserID(id))
		if err != nil {
			if errors.Is(err, model.ErrProfileNotFound) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})
	return profiles, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, 0)
	pipe.SAdd(ctx, sessionsIndexKey(), string(session.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	ids, err := s.client.SMembers(ctx, sessionsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*model.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, model.SessionID(id))
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
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
	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, sessionsIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))
	if game.SessionID != "" {
		pipe.SAdd(ctx, gamesForSessionIndexKey(game.SessionID), string(game.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) GetGamesForSession(ctx context.Context, sessionID model.SessionID) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesForSessionIndexKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	var games []*model.Game
	for _, id := range ids {
		game, err := s.GetGame(ctx, model.GameID(id))
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				continue
			}
			return nil, err
		}
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].GameNumber < games[j].GameNumber
	})
	return games, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		game, err := s.GetGame(ctx, model.GameID(id))
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				continue
			}
			return nil, err
		}
		games = append(games, game)
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
	game, err := s.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesIndexKey(), string(id))
	if game.SessionID != "" {
		pipe.SRem(ctx, gamesForSessionIndexKey(game.SessionID), string(id))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteGamesForSession(ctx context.Context, sessionID model.SessionID) error {
	ids, err := s.client.SMembers(ctx, gamesForSessionIndexKey(sessionID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, gameKey(model.GameID(id)))
		pipe.SRem(ctx, gamesIndexKey(), id)
	}
	pipe.Del(ctx, gamesForSessionIndexKey(sessionID))
	_, err = pipe.Exec(ctx)
	return err
}

// League settings operations

func (s *Storage) GetLeagueSettings(ctx context.Context) (*model.LeagueSettings, error) {
	data, err := s.client.Get(ctx, settingsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSettingsNotFound
		}
		return nil, err
	}

	var settings model.LeagueSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Storage) SaveLeagueSettings(ctx context.Context, settings *model.LeagueSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, settingsKey(), data, 0).Err()
}
