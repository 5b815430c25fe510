package session

import (
	"context"
	"log/slog"

	"github.com/mcoot/nertsleague-go/internal/dependencies/clock"
	"github.com/mcoot/nertsleague-go/internal/dependencies/random"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/league"
	"github.com/mcoot/nertsleague-go/internal/services/roster"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

const (
	// IDLength is the length of generated session ids
	IDLength = 12
	// IDAlphabet is the characters used in generated ids
	IDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller manages session lifecycle and membership
type Controller struct {
	storage       storage.Storage
	leagueService *league.Service
	rosterService *roster.Service
	clock         clock.Clock
	random        random.Random
	logger        *slog.Logger
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	leagueService *league.Service,
	rosterService *roster.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:       storage,
		leagueService: leagueService,
		rosterService: rosterService,
		clock:         clock,
		random:        random,
		logger:        logger,
	}
}

// CreateParams holds the inputs for creating a session
type CreateParams struct {
	Name           string
	Notes          string
	IsRanked       bool
	IsPublic       bool
	ParticipantIDs []model.UserID
	Rules          *model.Rules // nil to use league defaults
}

// CreateSession creates an active session with a resolved rules snapshot.
// Ranked sessions are always public.
func (c *Controller) CreateSession(ctx context.Context, creator model.UserID, params CreateParams) (*model.Session, error) {
	rules, err := c.leagueService.ResolveRules(ctx, params.Rules)
	if err != nil {
		return nil, err
	}

	isPublic := params.IsPublic
	if params.IsRanked {
		isPublic = true
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:             model.SessionID("s_" + c.random.String(IDLength, IDAlphabet)),
		Name:           params.Name,
		Notes:          params.Notes,
		StartedAt:      now,
		IsRanked:       params.IsRanked,
		IsPublic:       isPublic,
		IsActive:       true,
		ParticipantIDs: append([]model.UserID{}, params.ParticipantIDs...),
		CreatedBy:      creator,
		Rules:          rules,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.Bool("ranked", session.IsRanked),
		slog.Int("participant_count", len(session.ParticipantIDs)),
	)

	return session, nil
}

// GetSession retrieves a session by id
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// ListSessions returns sessions, most recent first. Ended sessions are
// included only when requested.
func (c *Controller) ListSessions(ctx context.Context, includeEnded bool) ([]*model.Session, error) {
	sessions, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if includeEnded {
		return sessions, nil
	}

	active := sessions[:0]
	for _, s := range sessions {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

// AddPlayer adds a participant to an active session. Adding an existing
// participant is a no-op. Participants are never removed.
func (c *Controller) AddPlayer(ctx context.Context, sessionID model.SessionID, userID model.UserID) error {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if !session.IsActive {
		return model.ErrSessionEnded
	}

	if session.HasParticipant(userID) {
		return nil
	}

	if _, err := c.storage.GetUser(ctx, userID); err != nil {
		return err
	}

	session.ParticipantIDs = append(session.ParticipantIDs, userID)
	session.UpdatedAt = c.clock.Now()

	return c.storage.SaveSession(ctx, session)
}

// EndSession marks a session inactive. This is permanent: no further games
// may be recorded against it.
func (c *Controller) EndSession(ctx context.Context, sessionID model.SessionID) error {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if !session.IsActive {
		return nil
	}

	session.IsActive = false
	session.UpdatedAt = c.clock.Now()

	c.logger.Info("session ended", slog.String("session_id", string(sessionID)))

	return c.storage.SaveSession(ctx, session)
}

// Participant is a session member enriched with identity and handicap
type Participant struct {
	UserID          model.UserID
	Name            string
	Gamertag        string
	CurrentHandicap int
}

// Details is a session together with its games and enriched participants
type Details struct {
	Session      *model.Session
	Games        []*model.Game
	Participants []Participant
}

// GetDetails returns a session with its games (in game-number order) and
// participant roster. Non-public sessions are visible to participants only.
func (c *Controller) GetDetails(ctx context.Context, caller model.UserID, sessionID model.SessionID) (*Details, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.CheckVisibility(session, caller); err != nil {
		return nil, err
	}

	games, err := c.storage.GetGamesForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	participants := make([]Participant, 0, len(session.ParticipantIDs))
	for _, userID := range session.ParticipantIDs {
		user, err := c.storage.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		handicap, err := c.rosterService.CurrentHandicap(ctx, userID, session.Rules.StartingHandicap)
		if err != nil {
			return nil, err
		}
		participants = append(participants, Participant{
			UserID:          userID,
			Name:            user.Name,
			Gamertag:        user.Gamertag,
			CurrentHandicap: handicap,
		})
	}

	return &Details{
		Session:      session,
		Games:        games,
		Participants: participants,
	}, nil
}

// CheckVisibility enforces the privacy rule: a non-public session may only
// be seen by its participants.
func (c *Controller) CheckVisibility(session *model.Session, caller model.UserID) error {
	if session.IsPublic {
		return nil
	}
	if caller != "" && session.HasParticipant(caller) {
		return nil
	}
	return model.ErrSessionPrivate
}
