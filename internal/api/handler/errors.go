package handler

import (
	"net/http"

	"github.com/mcoot/nertsleague-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeUserNotFound       = apierr.CodeUserNotFound
	CodeGamertagTaken      = apierr.CodeGamertagTaken
	CodeProfileNotFound    = apierr.CodeProfileNotFound
	CodeSessionNotFound    = apierr.CodeSessionNotFound
	CodeSessionEnded       = apierr.CodeSessionEnded
	CodeSessionPrivate     = apierr.CodeSessionPrivate
	CodeGameNotFound       = apierr.CodeGameNotFound
	CodeNoScores           = apierr.CodeNoScores
	CodeNotSessionGame     = apierr.CodeNotSessionGame
	CodeSettingsNotFound   = apierr.CodeSettingsNotFound
	CodeUnknownGamertag    = apierr.CodeUnknownGamertag
	CodeUsernameExists     = apierr.CodeUsernameExists
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
