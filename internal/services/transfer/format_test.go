package transfer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type FormatSuite struct {
	suite.Suite
}

func TestFormatSuite(t *testing.T) {
	suite.Run(t, new(FormatSuite))
}

func (s *FormatSuite) sampleArchive() *Archive {
	return &Archive{
		Players: []PlayerRow{
			{Name: "Alice", Gamertag: "ali"},
			{Name: "Bob", Gamertag: "bobby"},
		},
		Sessions: []SessionRow{
			{
				SessionID: "sess-1",
				Name:      "Friday Night",
				Date:      time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC),
				IsRanked:  true,
				IsPublic:  true,
				Notes:     "first week",
				RulesJSON: `{"startingHandicap":13,"handicapDecrementLimit":0,"minimumHandicap":3,"whoIncrementsHandicap":"nertsPlayer","nertsBonus":5}`,
			},
		},
		Games: []GameRow{
			{
				SessionID:  "sess-1",
				GameNumber: 1,
				Date:       time.Date(2024, 1, 5, 19, 30, 0, 0, time.UTC),
				Scores: []GameScoreRow{
					{Gamertag: "ali", Score: 5, Handicap: 13},
					{Gamertag: "bobby", Score: 3, Handicap: 13},
				},
				NertsGamertag:  "ali",
				WinnerGamertag: "ali",
			},
		},
	}
}

func (s *FormatSuite) TestGenerateSections() {
	content := Generate(s.sampleArchive())

	s.Contains(content, "PLAYERS\nname,gamertag\n")
	s.Contains(content, "SESSIONS\nsessionId,name,date,isRanked,isPublic,notes,rules\n")
	s.Contains(content, "GAMES\nsessionId,gameNumber,date,playerScores,nertsPlayerGamertag,winnerGamertag\n")
	s.Contains(content, `"Alice","ali"`)
	s.Contains(content, `"ali:5:13;bobby:3:13"`)
	// Dates are unix milliseconds
	s.Contains(content, "1704481200000")
}

func (s *FormatSuite) TestRoundTrip() {
	original := s.sampleArchive()

	parsed, err := Parse(Generate(original))
	s.Require().NoError(err)

	s.Equal(original.Players, parsed.Players)
	s.Equal(original.Sessions, parsed.Sessions)
	s.Equal(original.Games, parsed.Games)
}

func (s *FormatSuite) TestQuoteEscapingRoundTrip() {
	archive := &Archive{
		Players: []PlayerRow{
			{Name: `Alice "Ace", the first`, Gamertag: "ali"},
		},
	}

	parsed, err := Parse(Generate(archive))
	s.Require().NoError(err)
	s.Require().Len(parsed.Players, 1)
	s.Equal(`Alice "Ace", the first`, parsed.Players[0].Name)
}

func (s *FormatSuite) TestParseSkipsShortRows() {
	content := strings.Join([]string{
		"PLAYERS",
		"name,gamertag",
		`"lonely"`,
		`"Alice","ali"`,
	}, "\n")

	parsed, err := Parse(content)
	s.Require().NoError(err)
	s.Require().Len(parsed.Players, 1)
	s.Equal("Alice", parsed.Players[0].Name)
}

func (s *FormatSuite) TestParseBadGameNumber() {
	content := strings.Join([]string{
		"GAMES",
		"sessionId,gameNumber,date,playerScores,nertsPlayerGamertag,winnerGamertag",
		`"sess-1",notanumber,1704481200000,"ali:5:13","ali","ali"`,
	}, "\n")

	_, err := Parse(content)
	s.Error(err)
}

func (s *FormatSuite) TestParseBadScoreTriple() {
	content := strings.Join([]string{
		"GAMES",
		"sessionId,gameNumber,date,playerScores,nertsPlayerGamertag,winnerGamertag",
		`"sess-1",1,1704481200000,"ali:5","ali","ali"`,
	}, "\n")

	_, err := Parse(content)
	s.Error(err)
}

func (s *FormatSuite) TestParseEmptyContent() {
	parsed, err := Parse("")
	s.Require().NoError(err)
	s.Empty(parsed.Players)
	s.Empty(parsed.Sessions)
	s.Empty(parsed.Games)
}
