package handler

import (
	"net/http"

	"github.com/mcoot/nertsleague-go/internal/api/middleware"
	"github.com/mcoot/nertsleague-go/internal/api/response"
	"github.com/mcoot/nertsleague-go/internal/services/stats"
)

// StatsHandler handles aggregated statistics endpoints
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Career handles GET /api/v1/stats/career
func (h *StatsHandler) Career(w http.ResponseWriter, r *http.Request) {
	result, err := h.statsService.CareerStats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// CareerMe handles GET /api/v1/stats/career/me
func (h *StatsHandler) CareerMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	result, err := h.statsService.CareerStatsFor(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.statsService.Leaderboard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
