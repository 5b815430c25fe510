package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/nertsleague-go/internal/api/request"
	"github.com/mcoot/nertsleague-go/internal/api/response"
	"github.com/mcoot/nertsleague-go/internal/services/league"
)

// LeagueHandler handles league settings endpoints
type LeagueHandler struct {
	leagueService *league.Service
}

// NewLeagueHandler creates a new league handler
func NewLeagueHandler(leagueService *league.Service) *LeagueHandler {
	return &LeagueHandler{
		leagueService: leagueService,
	}
}

// GetSettings handles GET /api/v1/settings
func (h *LeagueHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.leagueService.Settings(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SettingsFromModel(settings))
}

// UpdateSettings handles PUT /api/v1/settings
func (h *LeagueHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	settings, err := h.leagueService.UpdateSettings(r.Context(), req.Name, req.Description, req.Rules)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SettingsFromModel(settings))
}
