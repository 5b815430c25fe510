package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/nertsleague-go/internal/dependencies/clock"
	"github.com/mcoot/nertsleague-go/internal/dependencies/random"
	"github.com/mcoot/nertsleague-go/internal/model"
	gamesvc "github.com/mcoot/nertsleague-go/internal/services/game"
	"github.com/mcoot/nertsleague-go/internal/services/roster"
	sessionsvc "github.com/mcoot/nertsleague-go/internal/services/session"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

// ErrUnknownGamertag means an import referenced a gamertag that neither
// the file's PLAYERS section nor the existing league roster can resolve.
// The whole import is rejected before any write.
type ErrUnknownGamertag struct {
	Gamertag string
}

func (e ErrUnknownGamertag) Error() string {
	return fmt.Sprintf("unknown gamertag: %s", e.Gamertag)
}

// ImportMode selects how an import treats sessions that already exist
type ImportMode string

const (
	// ModeAppend skips sessions that already exist in the league
	ModeAppend ImportMode = "append"
	// ModeOverwrite deletes a matching existing session and its games
	// before re-importing it
	ModeOverwrite ImportMode = "overwrite"
)

// ImportResult summarizes what an import changed
type ImportResult struct {
	UsersCreated     int `json:"usersCreated"`
	SessionsCreated  int `json:"sessionsCreated"`
	SessionsSkipped  int `json:"sessionsSkipped"`
	SessionsReplaced int `json:"sessionsReplaced"`
	GamesImported    int `json:"gamesImported"`
}

// Service handles bulk export and import of league history
type Service struct {
	storage storage.Storage
	roster  *roster.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new transfer service
func New(
	storage storage.Storage,
	roster *roster.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		roster:  roster,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Export renders the whole league (all users, all sessions, all session
// games) into the flat archive format. Standalone games are not exported.
func (s *Service) Export(ctx context.Context) (string, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return "", err
	}
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return "", err
	}

	gamertags := make(map[model.UserID]string, len(users))
	archive := &Archive{}

	for _, u := range users {
		gamertags[u.ID] = u.Gamertag
		archive.Players = append(archive.Players, PlayerRow{
			Name:     u.Name,
			Gamertag: u.Gamertag,
		})
	}

	for _, sess := range sessions {
		rulesJSON, err := json.Marshal(sess.Rules)
		if err != nil {
			return "", err
		}
		archive.Sessions = append(archive.Sessions, SessionRow{
			SessionID: string(sess.ID),
			Name:      sess.Name,
			Date:      sess.StartedAt,
			IsRanked:  sess.IsRanked,
			IsPublic:  sess.IsPublic,
			Notes:     sess.Notes,
			RulesJSON: string(rulesJSON),
		})
	}

	// Games are exported per session in game-number order; standalone
	// games have no place in the archive format.
	for _, sess := range sessions {
		games, err := s.storage.GetGamesForSession(ctx, sess.ID)
		if err != nil {
			return "", err
		}
		for _, g := range games {
			scores := make([]GameScoreRow, len(g.Scores))
			for i, sc := range g.Scores {
				tag, ok := gamertags[sc.PlayerID]
				if !ok {
					tag = "unknown"
				}
				scores[i] = GameScoreRow{
					Gamertag: tag,
					Score:    sc.Score,
					Handicap: sc.Handicap,
				}
			}

			row := GameRow{
				SessionID:  string(sess.ID),
				GameNumber: g.GameNumber,
				Date:       g.PlayedAt,
				Scores:     scores,
			}
			if g.NertsPlayerID != "" {
				row.NertsGamertag = gamertags[g.NertsPlayerID]
			}
			if !g.Winner.None() {
				row.WinnerGamertag = gamertags[g.Winner.PlayerID]
			}
			archive.Games = append(archive.Games, row)
		}
	}

	return Generate(archive), nil
}

// Import parses an archive and loads it into the league. Every gamertag
// referenced by a game must resolve, via the file's PLAYERS section or the
// existing roster, before anything is written; one unresolvable tag fails
// the whole import. Imported sessions arrive already ended.
func (s *Service) Import(ctx context.Context, content string, mode ImportMode) (*ImportResult, error) {
	archive, err := Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}

	// Resolve every gamertag before the first write
	resolvable := make(map[string]bool, len(archive.Players))
	for _, p := range archive.Players {
		resolvable[p.Gamertag] = true
	}
	existing, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range existing {
		if u.Gamertag != "" {
			resolvable[u.Gamertag] = true
		}
	}
	for _, g := range archive.Games {
		for _, sc := range g.Scores {
			if !resolvable[sc.Gamertag] {
				return nil, ErrUnknownGamertag{Gamertag: sc.Gamertag}
			}
		}
		if g.NertsGamertag != "" && !resolvable[g.NertsGamertag] {
			return nil, ErrUnknownGamertag{Gamertag: g.NertsGamertag}
		}
		if g.WinnerGamertag != "" && !resolvable[g.WinnerGamertag] {
			return nil, ErrUnknownGamertag{Gamertag: g.WinnerGamertag}
		}
	}

	// Ensure every player from the file exists
	userIDs := make(map[string]model.UserID)
	for _, u := range existing {
		if u.Gamertag != "" {
			userIDs[u.Gamertag] = u.ID
		}
	}
	for _, p := range archive.Players {
		if _, ok := userIDs[p.Gamertag]; ok {
			continue
		}
		user, err := s.roster.CreateUser(ctx, p.Name, p.Gamertag)
		if err != nil {
			return nil, err
		}
		userIDs[p.Gamertag] = user.ID
		result.UsersCreated++
	}

	existingSessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	// Map file-local session ids to stored sessions; append-skipped
	// sessions get no mapping, so their games are dropped too.
	sessionIDs := make(map[string]model.SessionID)

	for _, row := range archive.Sessions {
		match := findMatchingSession(existingSessions, row)

		if match != nil {
			if mode == ModeAppend {
				result.SessionsSkipped++
				continue
			}
			if err := s.storage.DeleteGamesForSession(ctx, match.ID); err != nil {
				return nil, err
			}
			if err := s.storage.DeleteSession(ctx, match.ID); err != nil {
				return nil, err
			}
			result.SessionsReplaced++
		}

		var rules model.Rules
		if err := json.Unmarshal([]byte(row.RulesJSON), &rules); err != nil {
			return nil, fmt.Errorf("bad rules for session %q: %w", row.Name, err)
		}

		// Participants are whoever appears in the session's games
		var participants []model.UserID
		seen := make(map[model.UserID]bool)
		for _, g := range archive.Games {
			if g.SessionID != row.SessionID {
				continue
			}
			for _, sc := range g.Scores {
				id := userIDs[sc.Gamertag]
				if !seen[id] {
					seen[id] = true
					participants = append(participants, id)
				}
			}
		}

		var createdBy model.UserID
		if len(participants) > 0 {
			createdBy = participants[0]
		} else {
			for _, id := range userIDs {
				createdBy = id
				break
			}
		}
		if createdBy == "" {
			return nil, fmt.Errorf("no users available to own imported session %q", row.Name)
		}

		now := s.clock.Now()
		sess := &model.Session{
			ID:             model.SessionID("s_" + s.random.String(sessionsvc.IDLength, sessionsvc.IDAlphabet)),
			Name:           row.Name,
			Notes:          row.Notes,
			StartedAt:      row.Date,
			IsRanked:       row.IsRanked,
			IsPublic:       row.IsPublic,
			IsActive:       false,
			ParticipantIDs: participants,
			CreatedBy:      createdBy,
			Rules:          rules,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.storage.SaveSession(ctx, sess); err != nil {
			return nil, err
		}
		sessionIDs[row.SessionID] = sess.ID
		result.SessionsCreated++
	}

	for _, row := range archive.Games {
		sessionID, ok := sessionIDs[row.SessionID]
		if !ok {
			continue
		}

		scores := make([]model.ScoreEntry, len(row.Scores))
		for i, sc := range row.Scores {
			scores[i] = model.ScoreEntry{
				PlayerID: userIDs[sc.Gamertag],
				Score:    sc.Score,
				Handicap: sc.Handicap,
			}
		}

		winner := model.NoWinner()
		if row.WinnerGamertag != "" {
			winner = model.WinnerOf(userIDs[row.WinnerGamertag])
		}

		var nertsPlayerID model.UserID
		if row.NertsGamertag != "" {
			nertsPlayerID = userIDs[row.NertsGamertag]
		}

		now := s.clock.Now()
		game := &model.Game{
			ID:            model.GameID("g_" + s.random.String(gamesvc.IDLength, gamesvc.IDAlphabet)),
			SessionID:     sessionID,
			GameNumber:    row.GameNumber,
			PlayedAt:      row.Date,
			Scores:        scores,
			NertsPlayerID: nertsPlayerID,
			Winner:        winner,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.storage.SaveGame(ctx, game); err != nil {
			return nil, err
		}
		result.GamesImported++
	}

	s.logger.Info("import finished",
		slog.String("mode", string(mode)),
		slog.Int("users_created", result.UsersCreated),
		slog.Int("sessions_created", result.SessionsCreated),
		slog.Int("sessions_skipped", result.SessionsSkipped),
		slog.Int("sessions_replaced", result.SessionsReplaced),
		slog.Int("games_imported", result.GamesImported),
	)

	return result, nil
}

// findMatchingSession locates an existing session with the same name
// starting within a day of the imported row.
func findMatchingSession(sessions []*model.Session, row SessionRow) *model.Session {
	for _, s := range sessions {
		if s.Name != row.Name {
			continue
		}
		delta := s.StartedAt.Sub(row.Date)
		if delta < 0 {
			delta = -delta
		}
		if delta < 24*time.Hour {
			return s
		}
	}
	return nil
}
