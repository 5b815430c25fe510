package game

import (
	"context"
	"log/slog"

	"github.com/mcoot/nertsleague-go/internal/dependencies/clock"
	"github.com/mcoot/nertsleague-go/internal/dependencies/random"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/roster"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

const (
	// IDLength is the length of generated game ids
	IDLength = 12
	// IDAlphabet is the characters used in generated ids
	IDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ScoreInput is one player's raw result for a game being recorded
type ScoreInput struct {
	PlayerID model.UserID
	Score    int
}

// Controller records games and applies handicap adjustments
type Controller struct {
	storage       storage.Storage
	rosterService *roster.Service
	clock         clock.Clock
	random        random.Random
	logger        *slog.Logger
}

// NewController creates a new game controller
func NewController(
	storage storage.Storage,
	rosterService *roster.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:       storage,
		rosterService: rosterService,
		clock:         clock,
		random:        random,
		logger:        logger,
	}
}

// adjustedEntry pairs a player's adjusted (bonus-included) score with the
// original raw score and the handicap captured for this game.
type adjustedEntry struct {
	playerID      model.UserID
	score         int
	originalScore int
	handicap      int
}

// RecordSessionGame records one game within an active session.
//
// The Nerts bonus is added to the designated player's score before winner
// determination; the winner is the first entry with the maximum adjusted
// score. If no Nerts player was named, the winner is assumed to have
// reached Nerts. Handicaps are adjusted only for ranked sessions.
func (c *Controller) RecordSessionGame(
	ctx context.Context,
	sessionID model.SessionID,
	scores []ScoreInput,
	nertsPlayerID model.UserID,
	noWinner bool,
) (*model.Game, error) {
	if len(scores) == 0 {
		return nil, model.ErrNoScores
	}

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, model.ErrSessionEnded
	}

	rules := session.Rules

	// Resolve current handicaps, creating profiles for first-time players
	entries := make([]adjustedEntry, len(scores))
	for i, in := range scores {
		profile, err := c.rosterService.EnsureProfile(ctx, in.PlayerID, rules.StartingHandicap)
		if err != nil {
			return nil, err
		}

		adjusted := in.Score
		if nertsPlayerID != "" && in.PlayerID == nertsPlayerID {
			adjusted += rules.NertsBonus
		}

		entries[i] = adjustedEntry{
			playerID:      in.PlayerID,
			score:         adjusted,
			originalScore: in.Score,
			handicap:      profile.CurrentHandicap,
		}
	}

	winner := pickWinner(entries, noWinner)

	// Default the Nerts player to the winner when none was named
	if nertsPlayerID == "" && !winner.None() {
		nertsPlayerID = winner.PlayerID
	}

	existing, err := c.storage.GetGamesForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:            model.GameID("g_" + c.random.String(IDLength, IDAlphabet)),
		SessionID:     sessionID,
		GameNumber:    len(existing) + 1,
		PlayedAt:      now,
		Scores:        toScoreEntries(entries),
		NertsPlayerID: nertsPlayerID,
		Winner:        winner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if session.IsRanked {
		if err := c.adjustHandicaps(ctx, entries, nertsPlayerID, winner, rules); err != nil {
			return nil, err
		}
	}

	if err := c.updateCounters(ctx, entries, winner, rules.StartingHandicap); err != nil {
		return nil, err
	}

	c.logger.Info("game recorded",
		slog.String("game_id", string(game.ID)),
		slog.String("session_id", string(sessionID)),
		slog.Int("game_number", game.GameNumber),
		slog.Int("player_count", len(entries)),
		slog.Bool("ranked", session.IsRanked),
	)

	return game, nil
}

// adjustHandicaps applies the post-game handicap rules to every entry.
//
// The decrement test uses the original pre-bonus score even though the
// adjusted score determined the winner. Decrement and increment may both
// apply to the same player, netting to zero.
func (c *Controller) adjustHandicaps(
	ctx context.Context,
	entries []adjustedEntry,
	nertsPlayerID model.UserID,
	winner model.Winner,
	rules model.Rules,
) error {
	for _, e := range entries {
		profile, err := c.rosterService.EnsureProfile(ctx, e.playerID, rules.StartingHandicap)
		if err != nil {
			return err
		}

		handicap := profile.CurrentHandicap

		if e.originalScore <= rules.HandicapDecrementLimit {
			handicap--
			if handicap < rules.MinimumHandicap {
				handicap = rules.MinimumHandicap
			}
		}

		designee := nertsPlayerID
		if rules.WhoIncrementsHandicap == model.IncrementHighestScore {
			designee = winner.PlayerID
		}
		if designee != "" && e.playerID == designee {
			handicap++
		}

		if handicap != profile.CurrentHandicap {
			c.logger.Info("handicap adjusted",
				slog.String("user_id", string(e.playerID)),
				slog.Int("from", profile.CurrentHandicap),
				slog.Int("to", handicap),
			)
		}

		profile.CurrentHandicap = handicap
		profile.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}

// updateCounters maintains the legacy cumulative counters on every
// participant's profile, ranked or not.
func (c *Controller) updateCounters(ctx context.Context, entries []adjustedEntry, winner model.Winner, startingHandicap int) error {
	for _, e := range entries {
		profile, err := c.rosterService.EnsureProfile(ctx, e.playerID, startingHandicap)
		if err != nil {
			return err
		}

		profile.GamesPlayed++
		profile.TotalPoints += e.score
		if winner.Is(e.playerID) {
			profile.Wins++
		}
		profile.UpdatedAt = c.clock.Now()

		if err := c.storage.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}

// UpdateGameScores overwrites an existing session game's scores and outcome.
//
// The handicaps stored on the game are preserved: they record what each
// player's handicap was when the game happened, and a correction must not
// rewrite history. Handicap changes that the original recording applied to
// this or later games are NOT recalculated; see the design notes.
func (c *Controller) UpdateGameScores(
	ctx context.Context,
	gameID model.GameID,
	scores []ScoreInput,
	nertsPlayerID model.UserID,
	noWinner bool,
) (*model.Game, error) {
	if len(scores) == 0 {
		return nil, model.ErrNoScores
	}

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.SessionID == "" {
		return nil, model.ErrNotSessionGame
	}

	session, err := c.storage.GetSession(ctx, game.SessionID)
	if err != nil {
		return nil, err
	}
	rules := session.Rules

	// Carry each player's recorded handicap over unchanged
	recorded := make(map[model.UserID]int, len(game.Scores))
	for _, se := range game.Scores {
		recorded[se.PlayerID] = se.Handicap
	}

	entries := make([]adjustedEntry, len(scores))
	for i, in := range scores {
		adjusted := in.Score
		if nertsPlayerID != "" && in.PlayerID == nertsPlayerID {
			adjusted += rules.NertsBonus
		}

		handicap, ok := recorded[in.PlayerID]
		if !ok {
			handicap = rules.StartingHandicap
		}

		entries[i] = adjustedEntry{
			playerID:      in.PlayerID,
			score:         adjusted,
			originalScore: in.Score,
			handicap:      handicap,
		}
	}

	winner := pickWinner(entries, noWinner)
	if nertsPlayerID == "" && !winner.None() {
		nertsPlayerID = winner.PlayerID
	}

	game.Scores = toScoreEntries(entries)
	game.NertsPlayerID = nertsPlayerID
	game.Winner = winner
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game scores updated",
		slog.String("game_id", string(gameID)),
		slog.String("session_id", string(game.SessionID)),
	)

	return game, nil
}

// RecordGame records a standalone game outside any session. This is the
// legacy recording path: no handicap tracking, no Nerts bonus, winner by
// highest raw score. Kept for pre-session data entry.
func (c *Controller) RecordGame(ctx context.Context, scores []ScoreInput) (*model.Game, error) {
	if len(scores) == 0 {
		return nil, model.ErrNoScores
	}

	entries := make([]adjustedEntry, len(scores))
	for i, in := range scores {
		entries[i] = adjustedEntry{
			playerID:      in.PlayerID,
			score:         in.Score,
			originalScore: in.Score,
		}
	}

	winner := pickWinner(entries, false)

	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID("g_" + c.random.String(IDLength, IDAlphabet)),
		PlayedAt:  now,
		Scores:    toScoreEntries(entries),
		Winner:    winner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	if err := c.updateCounters(ctx, entries, winner, model.DefaultLeagueRules().StartingHandicap); err != nil {
		return nil, err
	}

	return game, nil
}

// GetGame retrieves a game by id
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// ListGames returns all games, most recent first
func (c *Controller) ListGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListGames(ctx)
}

// GamesForPlayer returns the games a player took part in, most recent first
func (c *Controller) GamesForPlayer(ctx context.Context, playerID model.UserID) ([]*model.Game, error) {
	games, err := c.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	var result []*model.Game
	for _, g := range games {
		if g.Entry(playerID) != nil {
			result = append(result, g)
		}
	}
	return result, nil
}

// pickWinner returns the outcome for a set of adjusted entries: the first
// entry holding the maximum adjusted score, or the explicit no-winner
// marker when requested.
func pickWinner(entries []adjustedEntry, noWinner bool) model.Winner {
	if noWinner || len(entries) == 0 {
		return model.NoWinner()
	}

	best := entries[0]
	for _, e := range entries[1:] {
		if e.score > best.score {
			best = e
		}
	}
	return model.WinnerOf(best.playerID)
}

func toScoreEntries(entries []adjustedEntry) []model.ScoreEntry {
	result := make([]model.ScoreEntry, len(entries))
	for i, e := range entries {
		result[i] = model.ScoreEntry{
			PlayerID: e.playerID,
			Score:    e.score,
			Handicap: e.handicap,
		}
	}
	return result
}
