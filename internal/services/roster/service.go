package roster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/nertsleague-go/internal/dependencies/clock"
	"github.com/mcoot/nertsleague-go/internal/dependencies/random"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

const (
	// IDLength is the length of generated user ids
	IDLength = 12
	// IDAlphabet is the characters used in generated ids
	IDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service manages league members and their player profiles
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new roster service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateUser adds a league member by hand. Such users have no credentials;
// they exist so their games can be recorded.
func (s *Service) CreateUser(ctx context.Context, name, gamertag string) (*model.User, error) {
	if gamertag != "" {
		if err := s.checkGamertagFree(ctx, gamertag, ""); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	user := &model.User{
		ID:        model.UserID("u_" + s.random.String(IDLength, IDAlphabet)),
		Name:      name,
		Gamertag:  gamertag,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", string(user.ID)),
		slog.String("gamertag", gamertag),
	)
	return user, nil
}

// GetUser retrieves a user by id
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// ListUsers returns all league members
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.storage.ListUsers(ctx)
}

// UpdateUser edits a user's name and/or gamertag. The id is immutable.
// Empty arguments leave the corresponding field unchanged.
func (s *Service) UpdateUser(ctx context.Context, id model.UserID, name, gamertag string) (*model.User, error) {
	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if gamertag != "" && gamertag != user.Gamertag {
		if err := s.checkGamertagFree(ctx, gamertag, id); err != nil {
			return nil, err
		}
		user.Gamertag = gamertag
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns the user's player profile, or ErrProfileNotFound if the
// user has never appeared in a game.
func (s *Service) Profile(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error) {
	return s.storage.GetProfile(ctx, userID)
}

// EnsureProfile returns the user's player profile, creating one at the
// given starting handicap if none exists yet.
func (s *Service) EnsureProfile(ctx context.Context, userID model.UserID, startingHandicap int) (*model.PlayerProfile, error) {
	profile, err := s.storage.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, model.ErrProfileNotFound) {
		return nil, err
	}

	profile = &model.PlayerProfile{
		UserID:          userID,
		CurrentHandicap: startingHandicap,
		UpdatedAt:       s.clock.Now(),
	}
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("player profile created",
		slog.String("user_id", string(userID)),
		slog.Int("starting_handicap", startingHandicap),
	)
	return profile, nil
}

// CurrentHandicap returns the user's current handicap, falling back to the
// given starting handicap when no profile exists.
func (s *Service) CurrentHandicap(ctx context.Context, userID model.UserID, startingHandicap int) (int, error) {
	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return startingHandicap, nil
		}
		return 0, err
	}
	return profile.CurrentHandicap, nil
}

func (s *Service) checkGamertagFree(ctx context.Context, gamertag string, self model.UserID) error {
	existing, err := s.storage.GetUserByGamertag(ctx, gamertag)
	if err == nil {
		if existing.ID == self {
			return nil
		}
		return model.ErrGamertagTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}
	return nil
}
