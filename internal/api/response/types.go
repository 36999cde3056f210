package response

import (
	"time"

	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/services/game"
)

// RarePhrase represents a contested bonus phrase in API responses
type RarePhrase struct {
	Text          string `json:"text"`
	ClaimedBy     string `json:"claimed_by,omitempty"`
	ClaimedByName string `json:"claimed_by_name,omitempty"`
}

// RarePhraseFromModel converts a model.RarePhrase
func RarePhraseFromModel(p model.RarePhrase) RarePhrase {
	return RarePhrase{
		Text:          p.Text,
		ClaimedBy:     string(p.ClaimedBy),
		ClaimedByName: p.ClaimedByName,
	}
}

// Game represents a game in API responses
type Game struct {
	ID            string       `json:"id"`
	CreatorID     string       `json:"creator_id"`
	CreatedAt     time.Time    `json:"created_at"`
	CommonPhrases []string     `json:"common_phrases,omitempty"`
	RarePhrases   []RarePhrase `json:"rare_phrases"`
	Finished      bool         `json:"finished"`
	WinnerID      string       `json:"winner_id,omitempty"`
	WinnerName    string       `json:"winner_name,omitempty"`
}

// GameFromModel converts a model.Game, including the phrase pool
func GameFromModel(g *model.Game) Game {
	rare := make([]RarePhrase, len(g.RarePhrases))
	for i, p := range g.RarePhrases {
		rare[i] = RarePhraseFromModel(p)
	}
	return Game{
		ID:            string(g.ID),
		CreatorID:     string(g.CreatorID),
		CreatedAt:     g.CreatedAt,
		CommonPhrases: g.CommonPhrases,
		RarePhrases:   rare,
		Finished:      g.Finished(),
		WinnerID:      string(g.WinnerID),
		WinnerName:    g.WinnerName,
	}
}

// GameSummary is the compact game shape used in listings
type GameSummary struct {
	ID         string    `json:"id"`
	CreatorID  string    `json:"creator_id"`
	CreatedAt  time.Time `json:"created_at"`
	Finished   bool      `json:"finished"`
	WinnerName string    `json:"winner_name,omitempty"`
}

// GameSummaryFromModel converts a model.Game without its phrase pools
func GameSummaryFromModel(g *model.Game) GameSummary {
	return GameSummary{
		ID:         string(g.ID),
		CreatorID:  string(g.CreatorID),
		CreatedAt:  g.CreatedAt,
		Finished:   g.Finished(),
		WinnerName: g.WinnerName,
	}
}

// Player represents a player's state in API responses
type Player struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Card     [][]string `json:"card"`
	Marked   [][]bool   `json:"marked"`
	Score    int        `json:"score"`
	JoinedAt time.Time  `json:"joined_at"`
}

// PlayerFromModel converts a model.Player
func PlayerFromModel(p *model.Player) Player {
	card := make([][]string, model.GridSize)
	marked := make([][]bool, model.GridSize)
	for row := 0; row < model.GridSize; row++ {
		card[row] = make([]string, model.GridSize)
		marked[row] = make([]bool, model.GridSize)
		for col := 0; col < model.GridSize; col++ {
			card[row][col] = p.Card[row][col]
			marked[row][col] = p.Marked.Marked(row, col)
		}
	}
	return Player{
		ID:       string(p.ID),
		Name:     p.Name,
		Card:     card,
		Marked:   marked,
		Score:    p.Score,
		JoinedAt: p.JoinedAt,
	}
}

// PlayersFromModel converts a roster, preserving join order
func PlayersFromModel(players []*model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// LeaderboardEntry represents one leaderboard row
type LeaderboardEntry struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Wins        int    `json:"wins"`
}

// LeaderboardFromModel converts leaderboard entries
func LeaderboardFromModel(entries []*model.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			PlayerID:    string(e.PlayerID),
			DisplayName: e.DisplayName,
			Wins:        e.Wins,
		}
	}
	return out
}

// User represents an identity in API responses
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	ActiveGames []string  `json:"active_games"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserFromModel converts a model.User
func UserFromModel(u *model.User) User {
	games := make([]string, len(u.ActiveGames))
	for i, id := range u.ActiveGames {
		games[i] = string(id)
	}
	return User{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
		ActiveGames: games,
		CreatedAt:   u.CreatedAt,
	}
}

// ClaimResponse is the response after a rare-phrase claim attempt
type ClaimResponse struct {
	Claimed       bool   `json:"claimed"`
	AlreadyYours  bool   `json:"already_yours,omitempty"`
	ClaimedBy     string `json:"claimed_by,omitempty"`
	ClaimedByName string `json:"claimed_by_name,omitempty"`
}

// ClaimFromOutcome converts a claim outcome
func ClaimFromOutcome(o game.ClaimOutcome) ClaimResponse {
	return ClaimResponse{
		Claimed:       o.Claimed,
		AlreadyYours:  o.AlreadyYours,
		ClaimedBy:     o.ClaimedBy,
		ClaimedByName: o.ClaimedByName,
	}
}

// BingoResponse is the response after a bingo check
type BingoResponse struct {
	Bingo      bool   `json:"bingo"`
	AlreadyWon bool   `json:"already_won,omitempty"`
	WinnerID   string `json:"winner_id,omitempty"`
	WinnerName string `json:"winner_name,omitempty"`
	Score      int    `json:"score"`
}

// BingoFromResult converts a bingo result
func BingoFromResult(r game.BingoResult) BingoResponse {
	return BingoResponse{
		Bingo:      r.Bingo,
		AlreadyWon: r.AlreadyWon,
		WinnerID:   string(r.WinnerID),
		WinnerName: r.WinnerName,
		Score:      r.Score,
	}
}

// JoinLink carries the shareable URL for a game
type JoinLink struct {
	GameID string `json:"game_id"`
	URL    string `json:"url"`
	QRURL  string `json:"qr_url"`
}

// Identity is the response for guest identity creation
type Identity struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}
