package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nertsleague-go/internal/api/request"
	"github.com/mcoot/nertsleague-go/internal/api/response"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/game"
)

// GameHandler handles game history endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Record handles POST /api/v1/games (standalone games outside sessions)
func (h *GameHandler) Record(w http.ResponseWriter, r *http.Request) {
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

	recorded, err := h.gameController.RecordGame(r.Context(), scores)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(recorded))
}

// Update handles PATCH /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

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

	updated, err := h.gameController.UpdateGameScores(
		r.Context(), id, scores, model.UserID(req.NertsPlayerID), req.NoWinner)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(updated))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		games []*model.Game
		err   error
	)

	if playerID := r.URL.Query().Get("player_id"); playerID != "" {
		games, err = h.gameController.GamesForPlayer(r.Context(), model.UserID(playerID))
	} else {
		games, err = h.gameController.ListGames(r.Context())
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]response.Game, len(games))
	for i, g := range games {
		result[i] = response.GameFromModel(g)
	}
	response.JSON(w, http.StatusOK, result)
}
