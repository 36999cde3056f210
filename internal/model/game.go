package model

import "time"

// GameID uniquely identifies a game
type GameID string

// CreatorGuest is the creator id recorded when an anonymous
// visitor creates a game
const CreatorGuest PlayerID = "guest"

// Grid sizing constants. The grid is fixed at 5x5; a card needs one
// phrase per cell and every game carries exactly RarePhraseCount
// contested bonus phrases.
const (
	GridSize         = 5
	CardCellCount    = GridSize * GridSize
	RarePhraseCount  = 5
	MinCommonPhrases = CardCellCount
)

// RarePhrase is one of the contested bonus phrases in a game.
// ClaimedBy and ClaimedByName are either both empty (unclaimed)
// or both set (claimed).
type RarePhrase struct {
	Text          string
	ClaimedBy     PlayerID
	ClaimedByName string
}

// Claimed returns true if any player currently holds this phrase
func (p RarePhrase) Claimed() bool {
	return p.ClaimedBy != ""
}

// Game represents a single bingo match
type Game struct {
	ID        GameID
	CreatorID PlayerID
	CreatedAt time.Time

	// CommonPhrases is the shared pool cards are drawn from.
	// At least MinCommonPhrases entries, fixed at creation.
	CommonPhrases []string

	// RarePhrases always holds exactly RarePhraseCount entries
	RarePhrases []RarePhrase

	// WinnerName is empty until the game is won. Once set it never
	// changes; the winner write is guarded on it being empty.
	WinnerName string
	WinnerID   PlayerID
}

// Finished returns true once a winner has been recorded
func (g *Game) Finished() bool {
	return g.WinnerName != ""
}

// RarePhrase returns the phrase at the given index
func (g *Game) RarePhrase(index int) (RarePhrase, error) {
	if index < 0 || index >= len(g.RarePhrases) {
		return RarePhrase{}, ErrInvalidPhraseIndex
	}
	return g.RarePhrases[index], nil
}

// Clone returns a deep copy of the game.
// Stores hand out copies so transactional mutate callbacks never
// alias the committed document.
func (g *Game) Clone() *Game {
	cp := *g
	cp.CommonPhrases = make([]string, len(g.CommonPhrases))
	copy(cp.CommonPhrases, g.CommonPhrases)
	cp.RarePhrases = make([]RarePhrase, len(g.RarePhrases))
	copy(cp.RarePhrases, g.RarePhrases)
	return &cp
}
