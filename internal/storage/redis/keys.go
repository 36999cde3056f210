package redis

import (
	"fmt"

	"github.com/nisim1010/Bingo-Game/internal/model"
)

// Key prefix for all bingo data
const keyPrefix = "bingo"

// gameKey returns the Redis key for a Game document
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a Player document
func playerKey(gameID model.GameID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s:%s", keyPrefix, gameID, playerID)
}

// playersIndexKey returns the Redis key for the SET of player keys in a game
func playersIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:players_for_game:%s", keyPrefix, gameID)
}

// recentGamesKey returns the Redis key for the ZSET of games by creation time
func recentGamesKey() string {
	return fmt.Sprintf("%s:idx:recent_games", keyPrefix)
}

// leaderboardEntryKey returns the Redis key for a LeaderboardEntry document
func leaderboardEntryKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:leaderboard:%s", keyPrefix, id)
}

// leaderboardIndexKey returns the Redis key for the ZSET of identities by wins
func leaderboardIndexKey() string {
	return fmt.Sprintf("%s:idx:leaderboard_wins", keyPrefix)
}

// userKey returns the Redis key for a User document
func userKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// Pub/sub channels carrying change-stream kicks. Messages are only
// wake-ups; subscribers re-read the document for the current value.

func gameChannel(id model.GameID) string {
	return fmt.Sprintf("%s:events:game:%s", keyPrefix, id)
}

func playersChannel(gameID model.GameID) string {
	return fmt.Sprintf("%s:events:players:%s", keyPrefix, gameID)
}

func leaderboardChannel() string {
	return fmt.Sprintf("%s:events:leaderboard", keyPrefix)
}
