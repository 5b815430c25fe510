package model

import "time"

// SessionID uniquely identifies a session
type SessionID string

// Session is a bounded sequence of games played together.
//
// Invariants: IsRanked implies IsPublic; participants are append-only;
// once IsActive goes false no further games may be recorded.
type Session struct {
	ID             SessionID
	Name           string
	Notes          string
	StartedAt      time.Time
	IsRanked       bool // ranked sessions affect handicaps and career stats
	IsPublic       bool // non-public sessions are visible to participants only
	IsActive       bool
	ParticipantIDs []UserID
	CreatedBy      UserID
	Rules          Rules // snapshot resolved at creation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasParticipant reports whether the given user belongs to this session
func (s *Session) HasParticipant(userID UserID) bool {
	for _, id := range s.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
