package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrGamertagTaken = errors.New("gamertag already taken")

	// Profile errors
	ErrProfileNotFound = errors.New("player profile not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionEnded    = errors.New("session has ended")
	ErrSessionPrivate  = errors.New("session is not visible to this user")

	// Game errors
	ErrGameNotFound   = errors.New("game not found")
	ErrNoScores       = errors.New("at least one player score is required")
	ErrNotSessionGame = errors.New("game does not belong to a session")

	// Settings errors
	ErrSettingsNotFound = errors.New("league settings not found")
)
