package transfer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/nertsleague-go/internal/dependencies/mocks"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/roster"
	"github.com/mcoot/nertsleague-go/internal/storage/memory"
	"github.com/mcoot/nertsleague-go/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	rosterService := roster.New(s.storage, s.clock, s.random, logger)
	s.service = New(s.storage, rosterService, s.clock, s.random, logger)
	s.ctx = context.Background()
}

const sampleImport = `PLAYERS
name,gamertag
"Alice","ali"
"Bob","bobby"

SESSIONS
sessionId,name,date,isRanked,isPublic,notes,rules
"file-sess-1","Friday Night",1704481200000,true,true,"week one","{""startingHandicap"":13,""handicapDecrementLimit"":0,""minimumHandicap"":3,""whoIncrementsHandicap"":""nertsPlayer"",""nertsBonus"":5}"

GAMES
sessionId,gameNumber,date,playerScores,nertsPlayerGamertag,winnerGamertag
"file-sess-1",1,1704483000000,"ali:5:13;bobby:3:13","ali","ali"
"file-sess-1",2,1704484800000,"ali:2:13;bobby:8:13","bobby","bobby"
`

// Import tests

func (s *ServiceSuite) TestImportIntoEmptyLeague() {
	s.random.QueueString("user0000000a", "user0000000b", "sess00000001", "game00000001", "game00000002")

	result, err := s.service.Import(s.ctx, sampleImport, ModeAppend)
	s.Require().NoError(err)

	s.Equal(2, result.UsersCreated)
	s.Equal(1, result.SessionsCreated)
	s.Equal(2, result.GamesImported)
	s.Zero(result.SessionsSkipped)
	s.Zero(result.SessionsReplaced)

	alice, err := s.storage.GetUserByGamertag(s.ctx, "ali")
	s.Require().NoError(err)
	s.Equal("Alice", alice.Name)

	session, err := s.storage.GetSession(s.ctx, "s_sess00000001")
	s.Require().NoError(err)
	s.Equal("Friday Night", session.Name)
	s.True(session.IsRanked)
	// Imported sessions arrive already ended
	s.False(session.IsActive)
	s.Equal(13, session.Rules.StartingHandicap)
	// Participants in order of first appearance; creator is the first
	bob, err := s.storage.GetUserByGamertag(s.ctx, "bobby")
	s.Require().NoError(err)
	s.Equal([]model.UserID{alice.ID, bob.ID}, session.ParticipantIDs)
	s.Equal(alice.ID, session.CreatedBy)

	games, err := s.storage.GetGamesForSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(1, games[0].GameNumber)
	s.True(games[0].Winner.Is(alice.ID))
	s.Equal(alice.ID, games[0].NertsPlayerID)
	s.Equal(5, games[0].Entry(alice.ID).Score)
	s.Equal(13, games[0].Entry(alice.ID).Handicap)
	s.True(games[1].Winner.Is(bob.ID))
}

func (s *ServiceSuite) TestImportUnknownGamertagFailsWholeBatch() {
	content := strings.Replace(sampleImport, "bobby:8:13", "ghost:8:13", 1)

	_, err := s.service.Import(s.ctx, content, ModeAppend)

	var unknownErr ErrUnknownGamertag
	s.Require().ErrorAs(err, &unknownErr)
	s.Equal("ghost", unknownErr.Gamertag)

	// Nothing was written: not even the users from the PLAYERS section
	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Empty(sessions)
}

func (s *ServiceSuite) TestImportUnknownNertsGamertagFails() {
	content := strings.Replace(sampleImport, `,"ali","ali"`, `,"ghost","ali"`, 1)

	_, err := s.service.Import(s.ctx, content, ModeAppend)

	var unknownErr ErrUnknownGamertag
	s.Require().ErrorAs(err, &unknownErr)
	s.Equal("ghost", unknownErr.Gamertag)
}

func (s *ServiceSuite) TestImportResolvesAgainstExistingRoster() {
	// "extra" is not in the PLAYERS section but exists in the league
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{ID: "existing-1", Name: "Eve", Gamertag: "extra"}))

	content := strings.Replace(sampleImport, "bobby:8:13", "extra:8:13", 1)
	content = strings.Replace(content, `,"bobby","bobby"`, `,"extra","extra"`, 1)

	s.random.QueueString("user0000000a", "user0000000b", "sess00000001", "game00000001", "game00000002")
	result, err := s.service.Import(s.ctx, content, ModeAppend)
	s.Require().NoError(err)
	s.Equal(2, result.GamesImported)
}

func (s *ServiceSuite) TestImportAppendSkipsMatchingSession() {
	// Same name, started within a day of the imported row
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:        "existing-sess",
		Name:      "Friday Night",
		StartedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		Rules:     model.DefaultLeagueRules(),
	}))

	s.random.QueueString("user0000000a", "user0000000b")
	result, err := s.service.Import(s.ctx, sampleImport, ModeAppend)
	s.Require().NoError(err)

	s.Equal(1, result.SessionsSkipped)
	s.Zero(result.SessionsCreated)
	// Games belonging to the skipped session are dropped too
	s.Zero(result.GamesImported)

	sessions, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Len(sessions, 1)
}

func (s *ServiceSuite) TestImportOverwriteReplacesMatchingSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:        "existing-sess",
		Name:      "Friday Night",
		StartedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		Rules:     model.DefaultLeagueRules(),
	}))
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:         "old-game",
		SessionID:  "existing-sess",
		GameNumber: 1,
	}))

	s.random.QueueString("user0000000a", "user0000000b", "sess00000001", "game00000001", "game00000002")
	result, err := s.service.Import(s.ctx, sampleImport, ModeOverwrite)
	s.Require().NoError(err)

	s.Equal(1, result.SessionsReplaced)
	s.Equal(1, result.SessionsCreated)
	s.Equal(2, result.GamesImported)

	_, err = s.storage.GetSession(s.ctx, "existing-sess")
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.storage.GetGame(s.ctx, "old-game")
	s.ErrorIs(err, model.ErrGameNotFound)

	replacement, err := s.storage.GetSession(s.ctx, "s_sess00000001")
	s.Require().NoError(err)
	games, err := s.storage.GetGamesForSession(s.ctx, replacement.ID)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *ServiceSuite) TestImportDistantSessionWithSameNameIsNew() {
	// Same name but started weeks earlier: no match
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:        "existing-sess",
		Name:      "Friday Night",
		StartedAt: time.Date(2023, 12, 1, 19, 0, 0, 0, time.UTC),
		Rules:     model.DefaultLeagueRules(),
	}))

	s.random.QueueString("user0000000a", "user0000000b", "sess00000001", "game00000001", "game00000002")
	result, err := s.service.Import(s.ctx, sampleImport, ModeAppend)
	s.Require().NoError(err)

	s.Equal(1, result.SessionsCreated)
	s.Zero(result.SessionsSkipped)
}

func (s *ServiceSuite) TestImportIsIdempotentInAppendMode() {
	s.random.QueueString(
		"user0000000a", "user0000000b", "sess00000001", "game00000001", "game00000002",
		"sess00000002", "game00000003", "game00000004",
	)

	_, err := s.service.Import(s.ctx, sampleImport, ModeAppend)
	s.Require().NoError(err)

	result, err := s.service.Import(s.ctx, sampleImport, ModeAppend)
	s.Require().NoError(err)

	s.Zero(result.UsersCreated)
	s.Zero(result.SessionsCreated)
	s.Equal(1, result.SessionsSkipped)
	s.Zero(result.GamesImported)
}

// Export tests

func (s *ServiceSuite) TestExportRoundTrip() {
	s.random.QueueString("user0000000a", "user0000000b", "sess00000001", "game00000001", "game00000002")
	_, err := s.service.Import(s.ctx, sampleImport, ModeAppend)
	s.Require().NoError(err)

	exported, err := s.service.Export(s.ctx)
	s.Require().NoError(err)

	archive, err := Parse(exported)
	s.Require().NoError(err)

	s.Require().Len(archive.Players, 2)
	s.Require().Len(archive.Sessions, 1)
	s.Require().Len(archive.Games, 2)

	s.Equal("Friday Night", archive.Sessions[0].Name)
	s.True(archive.Sessions[0].IsRanked)
	s.Contains(archive.Sessions[0].RulesJSON, `"startingHandicap":13`)

	game := archive.Games[0]
	s.Equal(1, game.GameNumber)
	s.Equal("ali", game.NertsGamertag)
	s.Equal("ali", game.WinnerGamertag)
	s.Equal([]GameScoreRow{
		{Gamertag: "ali", Score: 5, Handicap: 13},
		{Gamertag: "bobby", Score: 3, Handicap: 13},
	}, game.Scores)
}

func (s *ServiceSuite) TestExportSkipsStandaloneGames() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{ID: "user-1", Name: "Alice", Gamertag: "ali"}))
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:     "standalone",
		Scores: []model.ScoreEntry{{PlayerID: "user-1", Score: 5}},
	}))

	exported, err := s.service.Export(s.ctx)
	s.Require().NoError(err)

	archive, err := Parse(exported)
	s.Require().NoError(err)
	s.Empty(archive.Games)
}
