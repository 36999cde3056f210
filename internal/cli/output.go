package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case IdentityResult:
		o.printIdentity(v)
	case User:
		o.printUser(v)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case ClaimResult:
		o.printClaimResult(v)
	case BingoResult:
		o.printBingoResult(v)
	case LeaderboardEntry:
		o.printLeaderboardEntry(v)
	case LeaderboardList:
		o.printLeaderboardList(v)
	case JoinLink:
		o.printJoinLink(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// IdentityResult response type (matches API)
type IdentityResult struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// User response type
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	ActiveGames []string  `json:"active_games"`
	CreatedAt   time.Time `json:"created_at"`
}

// RarePhrase response type
type RarePhrase struct {
	Text          string `json:"text"`
	ClaimedBy     string `json:"claimed_by,omitempty"`
	ClaimedByName string `json:"claimed_by_name,omitempty"`
}

// Game response type
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

// GameSummary response type
type GameSummary struct {
	ID         string    `json:"id"`
	CreatorID  string    `json:"creator_id"`
	CreatedAt  time.Time `json:"created_at"`
	Finished   bool      `json:"finished"`
	WinnerName string    `json:"winner_name,omitempty"`
}

// GameList wraps a slice of summaries so the text printer can pick it up
type GameList []GameSummary

// Player response type
type Player struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Card     [][]string `json:"card"`
	Marked   [][]bool   `json:"marked"`
	Score    int        `json:"score"`
	JoinedAt time.Time  `json:"joined_at"`
}

// PlayerList wraps a roster for the text printer
type PlayerList []Player

// ClaimResult response type
type ClaimResult struct {
	Claimed       bool   `json:"claimed"`
	AlreadyYours  bool   `json:"already_yours,omitempty"`
	ClaimedBy     string `json:"claimed_by,omitempty"`
	ClaimedByName string `json:"claimed_by_name,omitempty"`
}

// BingoResult response type
type BingoResult struct {
	Bingo      bool   `json:"bingo"`
	AlreadyWon bool   `json:"already_won,omitempty"`
	WinnerID   string `json:"winner_id,omitempty"`
	WinnerName string `json:"winner_name,omitempty"`
	Score      int    `json:"score"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Wins        int    `json:"wins"`
}

// LeaderboardList wraps the standings for the text printer
type LeaderboardList []LeaderboardEntry

// JoinLink response type
type JoinLink struct {
	GameID string `json:"game_id"`
	URL    string `json:"url"`
	QRURL  string `json:"qr_url"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIdentity(i IdentityResult) {
	fmt.Printf("Player: %s (%s)\n", i.DisplayName, i.PlayerID)
	fmt.Println("Identity saved")
}

func (o *Output) printUser(u User) {
	fmt.Printf("Player: %s (%s)\n", u.DisplayName, u.ID)
	fmt.Printf("Created: %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(u.ActiveGames) > 0 {
		fmt.Printf("Active Games: %d\n", len(u.ActiveGames))
		for _, id := range u.ActiveGames {
			fmt.Printf("  - %s\n", id)
		}
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Created: %s\n", g.CreatedAt.Format("2006-01-02 15:04:05"))
	if g.Finished {
		fmt.Printf("Finished, winner: %s\n", g.WinnerName)
	} else {
		fmt.Println("In progress")
	}
	fmt.Printf("Rare Phrases (%d):\n", len(g.RarePhrases))
	for i, rp := range g.RarePhrases {
		claimStr := ""
		if rp.ClaimedBy != "" {
			claimStr = fmt.Sprintf(" [claimed by %s]", rp.ClaimedByName)
		}
		fmt.Printf("  %d. %s%s\n", i, rp.Text, claimStr)
	}
}

func (o *Output) printGameList(games GameList) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		status := "in progress"
		if g.Finished {
			status = "won by " + g.WinnerName
		}
		fmt.Printf("%s  %s  %s\n", g.ID, g.CreatedAt.Format("2006-01-02 15:04"), status)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Score: %d\n", p.Score)
	if len(p.Card) > 0 {
		fmt.Println("\nBoard:")
		o.printBoard(p.Card, p.Marked)
	}
}

func (o *Output) printPlayerList(players PlayerList) {
	if len(players) == 0 {
		fmt.Println("No players")
		return
	}
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		fmt.Printf("  %s (%s): %d points\n", p.Name, p.ID, p.Score)
	}
}

// printBoard renders the card with marked cells bracketed
func (o *Output) printBoard(card [][]string, marked [][]bool) {
	for row := range card {
		for col := range card[row] {
			cell := card[row][col]
			if len(cell) > 18 {
				cell = cell[:15] + "..."
			}
			if row < len(marked) && col < len(marked[row]) && marked[row][col] {
				fmt.Printf("  [x] (%d,%d) %s\n", row, col, cell)
			} else {
				fmt.Printf("  [ ] (%d,%d) %s\n", row, col, cell)
			}
		}
	}
}

func (o *Output) printClaimResult(c ClaimResult) {
	switch {
	case c.AlreadyYours:
		fmt.Println("Already yours")
	case c.Claimed:
		fmt.Println("Phrase claimed!")
	default:
		holder := c.ClaimedByName
		if holder == "" {
			holder = c.ClaimedBy
		}
		fmt.Printf("Too late, already claimed by %s\n", holder)
	}
}

func (o *Output) printBingoResult(b BingoResult) {
	switch {
	case b.AlreadyWon:
		fmt.Printf("Game already won by %s\n", b.WinnerName)
	case b.Bingo:
		fmt.Printf("BINGO! Winner: %s with %d points\n", b.WinnerName, b.Score)
	default:
		fmt.Printf("No bingo yet. Current score: %d\n", b.Score)
	}
}

func (o *Output) printLeaderboardEntry(e LeaderboardEntry) {
	fmt.Printf("%s (%s): %d wins\n", e.DisplayName, e.PlayerID, e.Wins)
}

func (o *Output) printLeaderboardList(entries LeaderboardList) {
	if len(entries) == 0 {
		fmt.Println("No wins recorded yet")
		return
	}
	fmt.Println("Leaderboard:")
	for i, e := range entries {
		fmt.Printf("  %d. %s: %d wins\n", i+1, e.DisplayName, e.Wins)
	}
}

func (o *Output) printJoinLink(l JoinLink) {
	fmt.Printf("Game: %s\n", l.GameID)
	fmt.Printf("Join: %s\n", l.URL)
	fmt.Printf("QR:   %s\n", l.QRURL)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
