package league

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
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSettingsDefaultWhenUnset() {
	settings, err := s.service.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal("Nerts League", settings.Name)
	s.Equal(model.DefaultLeagueRules(), settings.Rules)
}

func (s *ServiceSuite) TestUpdateAndGetSettings() {
	rules := model.Rules{
		StartingHandicap:       10,
		HandicapDecrementLimit: 1,
		MinimumHandicap:        2,
		WhoIncrementsHandicap:  model.IncrementHighestScore,
		NertsBonus:             7,
	}

	updated, err := s.service.UpdateSettings(s.ctx, "Office League", "Lunchtime games", rules)
	s.Require().NoError(err)
	s.Equal("Office League", updated.Name)
	s.Equal(s.clock.CurrentTime, updated.UpdatedAt)

	settings, err := s.service.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal("Office League", settings.Name)
	s.Equal("Lunchtime games", settings.Description)
	s.Equal(rules, settings.Rules)
}

func (s *ServiceSuite) TestResolveRulesExplicit() {
	explicit := model.Rules{StartingHandicap: 8, MinimumHandicap: 1, NertsBonus: 3}

	rules, err := s.service.ResolveRules(s.ctx, &explicit)
	s.Require().NoError(err)
	s.Equal(explicit, rules)
}

func (s *ServiceSuite) TestResolveRulesFromSettings() {
	custom := model.DefaultLeagueRules()
	custom.NertsBonus = 10
	_, err := s.service.UpdateSettings(s.ctx, "Office League", "", custom)
	s.Require().NoError(err)

	rules, err := s.service.ResolveRules(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(10, rules.NertsBonus)
}

func (s *ServiceSuite) TestResolveRulesFallsBackToDefaults() {
	rules, err := s.service.ResolveRules(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(model.DefaultLeagueRules(), rules)
}
