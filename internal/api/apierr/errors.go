package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/nertsleague-go/internal/model"
	"github.com/mcoot/nertsleague-go/internal/services/auth"
	"github.com/mcoot/nertsleague-go/internal/services/transfer"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeGamertagTaken      = "GAMERTAG_TAKEN"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionEnded       = "SESSION_ENDED"
	CodeSessionPrivate     = "SESSION_PRIVATE"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeNoScores           = "NO_SCORES"
	CodeNotSessionGame     = "NOT_SESSION_GAME"
	CodeSettingsNotFound   = "SETTINGS_NOT_FOUND"
	CodeUnknownGamertag    = "UNKNOWN_GAMERTAG"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var unknownTag transfer.ErrUnknownGamertag
	if errors.As(err, &unknownTag) {
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownGamertag, unknownTag.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrGamertagTaken):
		return &httpError{http.StatusConflict, APIError{CodeGamertagTaken, "Gamertag is already taken"}}
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Player profile not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionEnded):
		return &httpError{http.StatusConflict, APIError{CodeSessionEnded, "Session has already ended"}}
	case errors.Is(err, model.ErrSessionPrivate):
		return &httpError{http.StatusForbidden, APIError{CodeSessionPrivate, "You do not have access to this session"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrNoScores):
		return &httpError{http.StatusBadRequest, APIError{CodeNoScores, "At least one player score is required"}}
	case errors.Is(err, model.ErrNotSessionGame):
		return &httpError{http.StatusConflict, APIError{CodeNotSessionGame, "Only session games can be corrected"}}
	case errors.Is(err, model.ErrSettingsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSettingsNotFound, "League settings not found"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
