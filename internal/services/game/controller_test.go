package game

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/nertsleague-go/internal/dependencies/mocks"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/roster"
	"github.com/mcoot/nertsleague-go/internal/storage/memory"
	"github.com/mcoot/nertsleague-go/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ControllerSuite struct {
	suite.Suite
	storage       *memory.Storage
	rosterService *roster.Service
	clock         *mocks.MockClock
	random        *mocks.MockRandom
	controller    *Controller
	ctx           context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	s.rosterService = roster.New(s.storage, s.clock, s.random, logger)
	s.controller = NewController(s.storage, s.rosterService, s.clock, s.random, logger)
	s.ctx = context.Background()
}

// makeSession stores a session directly so each test controls the rules
func (s *ControllerSuite) makeSession(id model.SessionID, ranked bool, rules model.Rules) *model.Session {
	session := &model.Session{
		ID:             id,
		Name:           "Test Session",
		StartedAt:      s.clock.Now(),
		IsRanked:       ranked,
		IsPublic:       true,
		IsActive:       true,
		ParticipantIDs: []model.UserID{"alice", "bob"},
		CreatedBy:      "alice",
		Rules:          rules,
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	return session
}

func (s *ControllerSuite) handicapOf(userID model.UserID) int {
	profile, err := s.storage.GetProfile(s.ctx, userID)
	s.Require().NoError(err)
	return profile.CurrentHandicap
}

// RecordSessionGame tests

func (s *ControllerSuite) TestRecordSessionGameAppliesNertsBonus() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	s.Equal(model.GameID("g_game00000001"), game.ID)
	s.Equal(1, game.GameNumber)
	// Alice's raw 0 plus the Nerts bonus of 5 beats Bob's 3
	s.Equal(5, game.Entry("alice").Score)
	s.Equal(3, game.Entry("bob").Score)
	s.True(game.Winner.Is("alice"))
	s.Equal(model.UserID("alice"), game.NertsPlayerID)
}

func (s *ControllerSuite) TestRecordSessionGameCapturesHandicapsAtRecording() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 10},
		{PlayerID: "bob", Score: 3},
	}, "", false)
	s.Require().NoError(err)

	// First-time players start at the session's starting handicap
	s.Equal(13, game.Entry("alice").Handicap)
	s.Equal(13, game.Entry("bob").Handicap)
}

func (s *ControllerSuite) TestRecordSessionGameNertsDefaultsToWinner() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 4},
		{PlayerID: "bob", Score: 9},
	}, "", false)
	s.Require().NoError(err)

	s.True(game.Winner.Is("bob"))
	s.Equal(model.UserID("bob"), game.NertsPlayerID)
	// Defaulting happens after winner determination, so no bonus applies
	s.Equal(9, game.Entry("bob").Score)
}

func (s *ControllerSuite) TestRecordSessionGameTieGoesToFirstEntry() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "bob", Score: 7},
		{PlayerID: "alice", Score: 7},
	}, "", false)
	s.Require().NoError(err)

	s.True(game.Winner.Is("bob"))
}

func (s *ControllerSuite) TestRecordSessionGameNoWinner() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 4},
		{PlayerID: "bob", Score: 9},
	}, "", true)
	s.Require().NoError(err)

	s.True(game.Winner.None())
	s.Empty(game.NertsPlayerID)
}

func (s *ControllerSuite) TestRecordSessionGameNumbersSequentially() {
	s.makeSession("sess-1", false, model.DefaultLeagueRules())
	s.random.QueueString("game00000001", "game00000002", "game00000003")

	for i := 1; i <= 3; i++ {
		game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
			{PlayerID: "alice", Score: i},
			{PlayerID: "bob", Score: 0},
		}, "alice", false)
		s.Require().NoError(err)
		s.Equal(i, game.GameNumber)
	}
}

func (s *ControllerSuite) TestRecordSessionGameFailsWithNoScores() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", nil, "", false)
	s.ErrorIs(err, model.ErrNoScores)
}

func (s *ControllerSuite) TestRecordSessionGameFailsWhenSessionEnded() {
	session := s.makeSession("sess-1", true, model.DefaultLeagueRules())
	session.IsActive = false
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 5},
	}, "", false)
	s.ErrorIs(err, model.ErrSessionEnded)
}

func (s *ControllerSuite) TestRecordSessionGameFailsWhenSessionMissing() {
	_, err := s.controller.RecordSessionGame(s.ctx, "nonexistent", []ScoreInput{
		{PlayerID: "alice", Score: 5},
	}, "", false)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Handicap adjustment tests

func (s *ControllerSuite) TestHandicapNetZeroForNertsReacher() {
	// Alice scores 0 and reaches Nerts: the decrement for scoring at or
	// below the limit and the increment for reaching Nerts cancel out.
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	s.Equal(13, s.handicapOf("alice"))
	s.Equal(13, s.handicapOf("bob"))
}

func (s *ControllerSuite) TestHandicapDecrementRequiresOriginalScoreAtLimit() {
	// Alice's raw score is above the limit; the bonus-adjusted score is
	// irrelevant to the decrement test. She reaches Nerts so she increments.
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 2},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	s.Equal(14, s.handicapOf("alice"))
	s.Equal(13, s.handicapOf("bob"))
}

func (s *ControllerSuite) TestHandicapDecrementOnly() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: -2},
		{PlayerID: "bob", Score: 8},
	}, "bob", false)
	s.Require().NoError(err)

	s.Equal(12, s.handicapOf("alice"))
	s.Equal(14, s.handicapOf("bob"))
}

func (s *ControllerSuite) TestHandicapClampsAtMinimum() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.Require().NoError(s.storage.SaveProfile(s.ctx, &model.PlayerProfile{
		UserID:          "alice",
		CurrentHandicap: 3,
	}))
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 6},
	}, "bob", false)
	s.Require().NoError(err)

	s.Equal(3, s.handicapOf("alice"))
}

func (s *ControllerSuite) TestHandicapIncrementHighestScorePolicy() {
	rules := model.DefaultLeagueRules()
	rules.WhoIncrementsHandicap = model.IncrementHighestScore
	s.makeSession("sess-1", true, rules)
	s.random.QueueString("game00000001")

	// Bob wins on raw score; Alice reached Nerts but under this policy the
	// winner's handicap grows, not the reacher's.
	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 2},
		{PlayerID: "bob", Score: 10},
	}, "alice", false)
	s.Require().NoError(err)

	s.Equal(13, s.handicapOf("alice"))
	s.Equal(14, s.handicapOf("bob"))
}

func (s *ControllerSuite) TestUnrankedSessionLeavesHandicapsAlone() {
	s.makeSession("sess-1", false, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	s.Equal(13, s.handicapOf("alice"))
	s.Equal(13, s.handicapOf("bob"))
}

func (s *ControllerSuite) TestNoWinnerStillDecrements() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "", true)
	s.Require().NoError(err)

	// Nobody reached Nerts, so no increment anywhere
	s.Equal(12, s.handicapOf("alice"))
	s.Equal(13, s.handicapOf("bob"))
}

// Counter tests

func (s *ControllerSuite) TestCountersUpdatedForRankedGame() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	aliceProfile, err := s.storage.GetProfile(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, aliceProfile.GamesPlayed)
	s.Equal(5, aliceProfile.TotalPoints) // adjusted score, bonus included
	s.Equal(1, aliceProfile.Wins)

	bobProfile, err := s.storage.GetProfile(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(1, bobProfile.GamesPlayed)
	s.Equal(3, bobProfile.TotalPoints)
	s.Equal(0, bobProfile.Wins)
}

func (s *ControllerSuite) TestCountersUpdatedForUnrankedGame() {
	s.makeSession("sess-1", false, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 7},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	profile, err := s.storage.GetProfile(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, profile.GamesPlayed)
	s.Equal(1, profile.Wins)
}

// UpdateGameScores tests

func (s *ControllerSuite) TestUpdateGameScoresRecomputesWinner() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)
	s.True(game.Winner.Is("alice"))

	updated, err := s.controller.UpdateGameScores(s.ctx, game.ID, []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 12},
	}, "bob", false)
	s.Require().NoError(err)

	s.True(updated.Winner.Is("bob"))
	s.Equal(17, updated.Entry("bob").Score)
	s.Equal(model.UserID("bob"), updated.NertsPlayerID)
}

func (s *ControllerSuite) TestUpdateGameScoresPreservesRecordedHandicaps() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	// Move Alice's live handicap after the game was recorded
	profile, err := s.storage.GetProfile(s.ctx, "alice")
	s.Require().NoError(err)
	profile.CurrentHandicap = 9
	s.Require().NoError(s.storage.SaveProfile(s.ctx, profile))

	updated, err := s.controller.UpdateGameScores(s.ctx, game.ID, []ScoreInput{
		{PlayerID: "alice", Score: 1},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	// The game still shows the handicap captured at recording time
	s.Equal(13, updated.Entry("alice").Handicap)
	s.Equal(13, updated.Entry("bob").Handicap)
}

func (s *ControllerSuite) TestUpdateGameScoresDoesNotTouchLiveHandicaps() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 2},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)
	s.Equal(14, s.handicapOf("alice"))

	// The corrected score would have decremented at recording time, but a
	// correction never re-runs handicap adjustment.
	_, err = s.controller.UpdateGameScores(s.ctx, game.ID, []ScoreInput{
		{PlayerID: "alice", Score: 0},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	s.Equal(14, s.handicapOf("alice"))
}

func (s *ControllerSuite) TestUpdateGameScoresNewPlayerGetsStartingHandicap() {
	s.makeSession("sess-1", true, model.DefaultLeagueRules())
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 4},
	}, "alice", false)
	s.Require().NoError(err)

	updated, err := s.controller.UpdateGameScores(s.ctx, game.ID, []ScoreInput{
		{PlayerID: "alice", Score: 4},
		{PlayerID: "carol", Score: 2},
	}, "alice", false)
	s.Require().NoError(err)

	s.Equal(13, updated.Entry("carol").Handicap)
}

func (s *ControllerSuite) TestUpdateGameScoresRejectsStandaloneGame() {
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordGame(s.ctx, []ScoreInput{
		{PlayerID: "alice", Score: 5},
	})
	s.Require().NoError(err)

	_, err = s.controller.UpdateGameScores(s.ctx, game.ID, []ScoreInput{
		{PlayerID: "alice", Score: 6},
	}, "", false)
	s.ErrorIs(err, model.ErrNotSessionGame)
}

func (s *ControllerSuite) TestUpdateGameScoresFailsForMissingGame() {
	_, err := s.controller.UpdateGameScores(s.ctx, "nonexistent", []ScoreInput{
		{PlayerID: "alice", Score: 5},
	}, "", false)
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Standalone game tests

func (s *ControllerSuite) TestRecordStandaloneGame() {
	s.random.QueueString("game00000001")

	game, err := s.controller.RecordGame(s.ctx, []ScoreInput{
		{PlayerID: "alice", Score: 5},
		{PlayerID: "bob", Score: 8},
	})
	s.Require().NoError(err)

	s.Empty(game.SessionID)
	s.Zero(game.GameNumber)
	s.True(game.Winner.Is("bob"))
	// No bonus, no handicap tracking on the legacy path
	s.Equal(5, game.Entry("alice").Score)
	s.Empty(game.NertsPlayerID)
}

func (s *ControllerSuite) TestRecordStandaloneGameUpdatesCounters() {
	s.random.QueueString("game00000001")

	_, err := s.controller.RecordGame(s.ctx, []ScoreInput{
		{PlayerID: "alice", Score: 5},
		{PlayerID: "bob", Score: 8},
	})
	s.Require().NoError(err)

	profile, err := s.storage.GetProfile(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(1, profile.GamesPlayed)
	s.Equal(8, profile.TotalPoints)
	s.Equal(1, profile.Wins)
}

// Query tests

func (s *ControllerSuite) TestGamesForPlayer() {
	s.makeSession("sess-1", false, model.DefaultLeagueRules())
	s.random.QueueString("game00000001", "game00000002")

	_, err := s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "alice", Score: 5},
		{PlayerID: "bob", Score: 3},
	}, "alice", false)
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	_, err = s.controller.RecordSessionGame(s.ctx, "sess-1", []ScoreInput{
		{PlayerID: "bob", Score: 4},
		{PlayerID: "carol", Score: 2},
	}, "bob", false)
	s.Require().NoError(err)

	aliceGames, err := s.controller.GamesForPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(aliceGames, 1)

	bobGames, err := s.controller.GamesForPlayer(s.ctx, "bob")
	s.Require().NoError(err)
	s.Len(bobGames, 2)
}
