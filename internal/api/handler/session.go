package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nertsleague-go/internal/api/middleware"
	"github.com/mcoot/nertsleague-go/internal/api/request"
	"github.com/mcoot/nertsleague-go/internal/api/response"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/game"
	"github.com/mcoot/nertsleague-go/internal/services/session"
	"github.com/mcoot/nertsleague-go/internal/services/stats"
)

// SessionHandler handles play session endpoints
type SessionHandler struct {
	sessionController *session.Controller
	gameController    *game.Controller
	statsService      *stats.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	sessionController *session.Controller,
	gameController *game.Controller,
	statsService *stats.Service,
) *SessionHandler {
	return &SessionHandler{
		sessionController: sessionController,
		gameController:    gameController,
		statsService:      statsService,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	participants := make([]model.UserID, len(req.ParticipantIDs))
	for i, id := range req.ParticipantIDs {
		participants[i] = model.UserID(id)
	}

	sess, err := h.sessionController.CreateSession(r.Context(), user.ID, session.CreateParams{
		Name:           req.Name,
		Notes:          req.Notes,
		IsRanked:       req.IsRanked,
		IsPublic:       req.IsPublic,
		ParticipantIDs: participants,
		Rules:          req.Rules,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	includeEnded := r.URL.Query().Get("include_ended") == "true"

	sessions, err := h.sessionController.ListSessions(r.Context(), includeEnded)
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]response.Session, len(sessions))
	for i, s := range sessions {
		result[i] = response.SessionFromModel(s)
	}
	response.JSON(w, http.StatusOK, result)
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	details, err := h.sessionController.GetDetails(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionDetailsFromModel(details))
}

// AddPlayer handles POST /api/v1/sessions/{id}/players
func (h *SessionHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.AddPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return
	}

	if err := h.sessionController.AddPlayer(r.Context(), id, model.UserID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// End handles POST /api/v1/sessions/{id}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.sessionController.EndSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// RecordGame handles POST /api/v1/sessions/{id}/games
func (h *SessionHandler) RecordGame(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.RecordGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	scores := make([]game.ScoreInput, len(req.Scores))
	for i, s := range req.Scores {
		scores[i] = game.ScoreInput{
			PlayerID: model.UserID(s.PlayerID),
			Score:    s.Score,
		}
	}

	recorded, err := h.gameController.RecordSessionGame(
		r.Context(), id, scores, model.UserID(req.NertsPlayerID), req.NoWinner)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(recorded))
}

// Stats handles GET /api/v1/sessions/{id}/stats
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	result, err := h.statsService.SessionStats(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
