package model

import "time"

// EventType identifies the type of state-change event
type EventType string

const (
	EventGameUpdated        EventType = "game_updated"
	EventPlayersUpdated     EventType = "players_updated"
	EventWinnerDeclared     EventType = "winner_declared"
	EventLeaderboardUpdated EventType = "leaderboard_updated"
)

// Event is a typed state-change notification emitted by sessions and
// the live projector. Rendering is a pure downstream consumer.
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	Payload   any
}

// GameUpdatedPayload carries the new game snapshot
type GameUpdatedPayload struct {
	Game *Game
}

// PlayersUpdatedPayload carries the new roster snapshot
type PlayersUpdatedPayload struct {
	Players []*Player
}

// WinnerDeclaredPayload carries the recorded winner
type WinnerDeclaredPayload struct {
	WinnerID   PlayerID
	WinnerName string
}

// LeaderboardUpdatedPayload carries the new top entries
type LeaderboardUpdatedPayload struct {
	Entries []*LeaderboardEntry
}
