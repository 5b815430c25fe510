package stats

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/session"
	"github.com/mcoot/nertsleague-go/internal/storage"
)

// PlayerStats is one player's row in an aggregation result. Derived values
// are zero when the player has no games; Rank is nil in that case too.
type PlayerStats struct {
	UserID            model.UserID `json:"userId"`
	Name              string       `json:"name"`
	Gamertag          string       `json:"gamertag,omitempty"`
	Rank              *int         `json:"rank"`
	MatchesPlayed     int          `json:"matchesPlayed"`
	Wins              int          `json:"wins"`
	TimesReachedNerts int          `json:"timesReachedNerts"`

	AverageScore float64 `json:"averageScore"`
	ScoreP25     float64 `json:"scoreP25"`
	ScoreMedian  float64 `json:"scoreMedian"`
	ScoreP75     float64 `json:"scoreP75"`
	ScoreStdDev  float64 `json:"scoreStdDev"`

	AverageHandicap    float64 `json:"averageHandicap"`
	AvgPlayersPerMatch float64 `json:"avgPlayersPerMatch"`
	ExpectedNerts      float64 `json:"expectedNerts"`
	TimesRandomRate    float64 `json:"timesRandomRate"`

	// Career-only fields
	SessionsPlayed          int     `json:"sessionsPlayed,omitempty"`
	AverageOpponentHandicap float64 `json:"averageOpponentHandicap,omitempty"`
	HandicapDifferential    float64 `json:"handicapDifferential,omitempty"`
}

// LeaderboardEntry is one row of the legacy cumulative leaderboard,
// built from the denormalized profile counters rather than game history.
type LeaderboardEntry struct {
	UserID      model.UserID `json:"userId"`
	Name        string       `json:"name"`
	Gamertag    string       `json:"gamertag,omitempty"`
	GamesPlayed int          `json:"gamesPlayed"`
	TotalPoints int          `json:"totalPoints"`
	Wins        int          `json:"wins"`
}

// Service computes aggregated statistics over recorded games
type Service struct {
	storage           storage.Storage
	sessionController *session.Controller
	logger            *slog.Logger
}

// New creates a new stats service
func New(storage storage.Storage, sessionController *session.Controller, logger *slog.Logger) *Service {
	return &Service{
		storage:           storage,
		sessionController: sessionController,
		logger:            logger,
	}
}

// accumulator collects raw per-player observations during a walk of game
// history. Scores and handicaps are kept as full lists so percentiles and
// deviation can be derived afterwards.
type accumulator struct {
	userID            model.UserID
	scores            []int
	handicaps         []int
	wins              int
	timesReachedNerts int
	totalGamePlayers  int
	sessions          map[model.SessionID]struct{}
	oppHandicapAvgs   []float64
}

func newAccumulator(userID model.UserID) *accumulator {
	return &accumulator{
		userID:   userID,
		sessions: make(map[model.SessionID]struct{}),
	}
}

// observe folds one game's entry for this player into the accumulator.
// career toggles the opponent-handicap tracking, which only the
// career-wide variant reports.
func (a *accumulator) observe(game *model.Game, entry model.ScoreEntry, career bool) {
	a.scores = append(a.scores, entry.Score)
	a.handicaps = append(a.handicaps, entry.Handicap)
	a.totalGamePlayers += len(game.Scores)

	if game.SessionID != "" {
		a.sessions[game.SessionID] = struct{}{}
	}
	if game.NertsPlayerID == entry.PlayerID {
		a.timesReachedNerts++
	}
	if game.Winner.Is(entry.PlayerID) {
		a.wins++
	}

	if career && len(game.Scores) > 1 {
		oppTotal := 0
		for _, other := range game.Scores {
			if other.PlayerID != entry.PlayerID {
				oppTotal += other.Handicap
			}
		}
		a.oppHandicapAvgs = append(a.oppHandicapAvgs, float64(oppTotal)/float64(len(game.Scores)-1))
	}
}

// derive turns the raw accumulator into a stats row. All derived values
// stay zero for a player with no observed games.
func (a *accumulator) derive(career bool) PlayerStats {
	ps := PlayerStats{
		UserID:            a.userID,
		MatchesPlayed:     len(a.scores),
		Wins:              a.wins,
		TimesReachedNerts: a.timesReachedNerts,
	}

	n := len(a.scores)
	if n == 0 {
		return ps
	}

	sorted := make([]int, n)
	copy(sorted, a.scores)
	sort.Ints(sorted)

	ps.AverageScore = meanInt(a.scores)
	ps.ScoreP25 = float64(sorted[int(math.Floor(float64(n)*0.25))])
	ps.ScoreMedian = float64(sorted[int(math.Floor(float64(n)*0.5))])
	ps.ScoreP75 = float64(sorted[int(math.Floor(float64(n)*0.75))])
	ps.ScoreStdDev = populationStdDev(a.scores, ps.AverageScore)
	ps.AverageHandicap = meanInt(a.handicaps)

	ps.AvgPlayersPerMatch = float64(a.totalGamePlayers) / float64(n)
	if ps.AvgPlayersPerMatch > 0 {
		ps.ExpectedNerts = float64(n) / ps.AvgPlayersPerMatch
	}
	if ps.ExpectedNerts > 0 {
		ps.TimesRandomRate = float64(a.timesReachedNerts) / ps.ExpectedNerts
	}

	if career {
		ps.SessionsPlayed = len(a.sessions)
		if len(a.oppHandicapAvgs) > 0 {
			total := 0.0
			for _, v := range a.oppHandicapAvgs {
				total += v
			}
			ps.AverageOpponentHandicap = total / float64(len(a.oppHandicapAvgs))
			ps.HandicapDifferential = ps.AverageHandicap - ps.AverageOpponentHandicap
		}
	}

	return ps
}

// SessionStats computes per-player stats for one session's games. The
// session's visibility rules apply: non-public sessions are only visible
// to participants.
func (s *Service) SessionStats(ctx context.Context, caller model.UserID, sessionID model.SessionID) ([]PlayerStats, error) {
	sess, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessionController.CheckVisibility(sess, caller); err != nil {
		return nil, err
	}

	games, err := s.storage.GetGamesForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Every participant gets a row, even with zero games
	accs := make(map[model.UserID]*accumulator, len(sess.ParticipantIDs))
	order := make([]model.UserID, 0, len(sess.ParticipantIDs))
	for _, id := range sess.ParticipantIDs {
		accs[id] = newAccumulator(id)
		order = append(order, id)
	}

	for _, g := range games {
		for _, entry := range g.Scores {
			acc, ok := accs[entry.PlayerID]
			if !ok {
				continue
			}
			acc.observe(g, entry, false)
		}
	}

	return s.rankAndEnrich(ctx, accs, order, false)
}

// CareerStats computes per-player stats across all games in ranked
// sessions. The roster comes from player profiles, but players who only
// appear in game history still get a row.
func (s *Service) CareerStats(ctx context.Context) ([]PlayerStats, error) {
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	accs := make(map[model.UserID]*accumulator, len(profiles))
	var order []model.UserID
	for _, p := range profiles {
		accs[p.UserID] = newAccumulator(p.UserID)
		order = append(order, p.UserID)
	}

	for _, sess := range sessions {
		if !sess.IsRanked {
			continue
		}
		games, err := s.storage.GetGamesForSession(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		for _, g := range games {
			for _, entry := range g.Scores {
				acc, ok := accs[entry.PlayerID]
				if !ok {
					acc = newAccumulator(entry.PlayerID)
					accs[entry.PlayerID] = acc
					order = append(order, entry.PlayerID)
				}
				acc.observe(g, entry, true)
			}
		}
	}

	return s.rankAndEnrich(ctx, accs, order, true)
}

// CareerStatsFor returns just the caller's own career row
func (s *Service) CareerStatsFor(ctx context.Context, caller model.UserID) (*PlayerStats, error) {
	all, err := s.CareerStats(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].UserID == caller {
			return &all[i], nil
		}
	}
	return nil, model.ErrProfileNotFound
}

// Leaderboard returns the legacy cumulative leaderboard from profile
// counters, sorted by total points descending.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entry := LeaderboardEntry{
			UserID:      p.UserID,
			GamesPlayed: p.GamesPlayed,
			TotalPoints: p.TotalPoints,
			Wins:        p.Wins,
		}
		if user, err := s.storage.GetUser(ctx, p.UserID); err == nil {
			entry.Name = user.Name
			entry.Gamertag = user.Gamertag
		} else {
			entry.Name = "Unknown"
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})

	return entries, nil
}

// rankAndEnrich derives each accumulator, attaches user names, sorts by
// average score descending with zero-game players last, and assigns ranks.
func (s *Service) rankAndEnrich(
	ctx context.Context,
	accs map[model.UserID]*accumulator,
	order []model.UserID,
	career bool,
) ([]PlayerStats, error) {
	rows := make([]PlayerStats, 0, len(order))
	for _, id := range order {
		row := accs[id].derive(career)
		if user, err := s.storage.GetUser(ctx, id); err == nil {
			row.Name = user.Name
			row.Gamertag = user.Gamertag
		} else {
			row.Name = "Unknown"
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MatchesPlayed == 0 || rows[j].MatchesPlayed == 0 {
			return rows[i].MatchesPlayed > 0 && rows[j].MatchesPlayed == 0
		}
		return rows[i].AverageScore > rows[j].AverageScore
	})

	for i := range rows {
		if rows[i].MatchesPlayed > 0 {
			rank := i + 1
			rows[i].Rank = &rank
		}
	}

	return rows, nil
}

func meanInt(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}

// populationStdDev divides by n, not n-1
func populationStdDev(values []int, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := float64(v) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
