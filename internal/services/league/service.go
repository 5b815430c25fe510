package league

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/nertsleague-go/internal/dependencies/clock"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

// Service manages the league settings singleton and resolves the rule
// configuration applied to new sessions.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new league service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Settings returns the stored league settings, or a default settings record
// if none has ever been saved.
func (s *Service) Settings(ctx context.Context) (*model.LeagueSettings, error) {
	settings, err := s.storage.GetLeagueSettings(ctx)
	if err != nil {
		if errors.Is(err, model.ErrSettingsNotFound) {
			return &model.LeagueSettings{
				Name:  "Nerts League",
				Rules: model.DefaultLeagueRules(),
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings replaces the league settings singleton. Existing sessions
// keep their snapshotted rules; only future sessions see the change.
func (s *Service) UpdateSettings(ctx context.Context, name, description string, rules model.Rules) (*model.LeagueSettings, error) {
	settings := &model.LeagueSettings{
		Name:        name,
		Description: description,
		Rules:       rules,
		UpdatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveLeagueSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("league settings updated", slog.String("name", name))
	return settings, nil
}

// ResolveRules decides which rule configuration a new session gets:
// explicit rules if supplied, otherwise the stored league defaults,
// otherwise the hard-coded defaults.
func (s *Service) ResolveRules(ctx context.Context, explicit *model.Rules) (model.Rules, error) {
	if explicit != nil {
		return *explicit, nil
	}

	settings, err := s.storage.GetLeagueSettings(ctx)
	if err != nil {
		if errors.Is(err, model.ErrSettingsNotFound) {
			return model.DefaultLeagueRules(), nil
		}
		return model.Rules{}, err
	}
	return settings.Rules, nil
}
