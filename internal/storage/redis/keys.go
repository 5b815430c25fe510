package redis

import (
	"fmt"

	"github.com/mcoot/nertsleague-go/internal/model"
)

// Key prefix for all league data
const keyPrefix = "nertsleague"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usersIndexKey returns the Redis key for the SET of all user ids
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// gamertagIndexKey returns the Redis key for the gamertag -> user_id index
func gamertagIndexKey(gamertag string) string {
	return fmt.Sprintf("%s:idx:gamertag:%s", keyPrefix, gamertag)
}

// registeredUserKey returns the Redis key for a RegisteredUser
func registeredUserKey(userID model.UserID) string {
	return fmt.Sprintf("%s:registered_user:%s", keyPrefix, userID)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// profileKey returns the Redis key for a PlayerProfile
func profileKey(userID model.UserID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, userID)
}

// profilesIndexKey returns the Redis key for the SET of all profile user ids
func profilesIndexKey() string {
	return fmt.Sprintf("%s:idx:profiles", keyPrefix)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionsIndexKey returns the Redis key for the SET of all session ids
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// gamesForSessionIndexKey returns the Redis key for the SET of game ids in a session
func gamesForSessionIndexKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:idx:games_for_session:%s", keyPrefix, sessionID)
}

// settingsKey returns the Redis key for the league settings singleton
func settingsKey() string {
	return fmt.Sprintf("%s:settings", keyPrefix)
}
