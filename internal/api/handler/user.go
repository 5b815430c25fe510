package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nertsleague-go/internal/api/request"
	"github.com/mcoot/nertsleague-go/internal/api/response"
	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/roster"
)

// UserHandler handles league roster endpoints
type UserHandler struct {
	rosterService *roster.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(rosterService *roster.Service) *UserHandler {
	return &UserHandler{
		rosterService: rosterService,
	}
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	user, err := h.rosterService.CreateUser(r.Context(), req.Name, req.Gamertag)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(user))
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.rosterService.ListUsers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]response.User, len(users))
	for i, u := range users {
		result[i] = response.UserFromModel(u)
	}
	response.JSON(w, http.StatusOK, result)
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	user, err := h.rosterService.GetUser(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Update handles PATCH /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.rosterService.UpdateUser(r.Context(), id, req.Name, req.Gamertag)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
