package roster

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/nertsleague-go/internal/dependencies/mocks"
	"github.com/mcoot/nertsleague-go/internal/model"
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
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// User tests

func (s *ServiceSuite) TestCreateUser() {
	s.random.QueueString("abc123def456")

	user, err := s.service.CreateUser(s.ctx, "Alice", "ali")
	s.Require().NoError(err)

	s.Equal(model.UserID("u_abc123def456"), user.ID)
	s.Equal("Alice", user.Name)
	s.Equal("ali", user.Gamertag)

	stored, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("ali", stored.Gamertag)
}

func (s *ServiceSuite) TestCreateUserWithoutGamertag() {
	s.random.QueueString("abc123def456")

	user, err := s.service.CreateUser(s.ctx, "Alice", "")
	s.Require().NoError(err)
	s.Empty(user.Gamertag)
}

func (s *ServiceSuite) TestCreateUserRejectsTakenGamertag() {
	s.random.QueueString("abc123def456", "ghi789jkl012")

	_, err := s.service.CreateUser(s.ctx, "Alice", "ali")
	s.Require().NoError(err)

	_, err = s.service.CreateUser(s.ctx, "Imposter", "ali")
	s.ErrorIs(err, model.ErrGamertagTaken)
}

func (s *ServiceSuite) TestUpdateUser() {
	s.random.QueueString("abc123def456")
	user, err := s.service.CreateUser(s.ctx, "Alice", "ali")
	s.Require().NoError(err)

	updated, err := s.service.UpdateUser(s.ctx, user.ID, "Alice B", "alice99")
	s.Require().NoError(err)
	s.Equal("Alice B", updated.Name)
	s.Equal("alice99", updated.Gamertag)

	// Old gamertag is freed
	_, err = s.storage.GetUserByGamertag(s.ctx, "ali")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestUpdateUserEmptyFieldsUnchanged() {
	s.random.QueueString("abc123def456")
	user, err := s.service.CreateUser(s.ctx, "Alice", "ali")
	s.Require().NoError(err)

	updated, err := s.service.UpdateUser(s.ctx, user.ID, "", "")
	s.Require().NoError(err)
	s.Equal("Alice", updated.Name)
	s.Equal("ali", updated.Gamertag)
}

func (s *ServiceSuite) TestUpdateUserRejectsTakenGamertag() {
	s.random.QueueString("abc123def456", "ghi789jkl012")
	_, err := s.service.CreateUser(s.ctx, "Alice", "ali")
	s.Require().NoError(err)
	bob, err := s.service.CreateUser(s.ctx, "Bob", "bobby")
	s.Require().NoError(err)

	_, err = s.service.UpdateUser(s.ctx, bob.ID, "", "ali")
	s.ErrorIs(err, model.ErrGamertagTaken)
}

func (s *ServiceSuite) TestUpdateUserKeepOwnGamertag() {
	s.random.QueueString("abc123def456")
	user, err := s.service.CreateUser(s.ctx, "Alice", "ali")
	s.Require().NoError(err)

	// Re-submitting your own gamertag is not a conflict
	_, err = s.service.UpdateUser(s.ctx, user.ID, "Alice B", "ali")
	s.NoError(err)
}

func (s *ServiceSuite) TestUpdateUserNotFound() {
	_, err := s.service.UpdateUser(s.ctx, "nonexistent", "Name", "")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Profile tests

func (s *ServiceSuite) TestEnsureProfileCreatesAtStartingHandicap() {
	profile, err := s.service.EnsureProfile(s.ctx, "user-1", 13)
	s.Require().NoError(err)
	s.Equal(13, profile.CurrentHandicap)
	s.Zero(profile.GamesPlayed)
}

func (s *ServiceSuite) TestEnsureProfileReturnsExisting() {
	_, err := s.service.EnsureProfile(s.ctx, "user-1", 13)
	s.Require().NoError(err)

	// A later call with a different starting handicap must not reset it
	profile, err := s.service.EnsureProfile(s.ctx, "user-1", 5)
	s.Require().NoError(err)
	s.Equal(13, profile.CurrentHandicap)
}

func (s *ServiceSuite) TestProfileNotFound() {
	_, err := s.service.Profile(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestCurrentHandicapFallsBackToStarting() {
	handicap, err := s.service.CurrentHandicap(s.ctx, "nonexistent", 13)
	s.Require().NoError(err)
	s.Equal(13, handicap)

	_, err = s.service.EnsureProfile(s.ctx, "user-1", 13)
	s.Require().NoError(err)

	handicap, err = s.service.CurrentHandicap(s.ctx, "user-1", 99)
	s.Require().NoError(err)
	s.Equal(13, handicap)
}
