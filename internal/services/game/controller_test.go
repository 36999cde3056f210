package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nisim1010/Bingo-Game/internal/dependencies/mocks"
	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/services/card"
	"github.com/nisim1010/Bingo-Game/internal/services/cleanup"
	"github.com/nisim1010/Bingo-Game/internal/services/leaderboard"
	"github.com/nisim1010/Bingo-Game/internal/services/scoring"
	"github.com/nisim1010/Bingo-Game/internal/storage/memory"
	"github.com/nisim1010/Bingo-Game/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	store      *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(
		s.store,
		card.New(s.random),
		scoring.New(),
		leaderboard.New(s.store, nil, logger),
		cleanup.New(s.store, logger),
		s.clock,
		s.random,
		logger,
	)
}

func (s *ControllerSuite) commonPool(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("common-%02d", i)
	}
	return out
}

func (s *ControllerSuite) rarePool(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("rare-%02d", i)
	}
	return out
}

func (s *ControllerSuite) createGame() *model.Game {
	s.random.QueueString("GAME01")
	game, err := s.controller.CreateGame(context.Background(), "creator", s.commonPool(30), s.rarePool(6))
	s.Require().NoError(err)
	return game
}

// Flip cells until the player's grid matches rows of 'T'/'.'
func (s *ControllerSuite) mark(gameID model.GameID, playerID model.PlayerID, rows ...string) *model.Player {
	var player *model.Player
	var err error
	for row, line := range rows {
		for col, c := range line {
			if c == 'T' {
				player, err = s.controller.ToggleCell(context.Background(), gameID, playerID, row, col)
				s.Require().NoError(err)
			}
		}
	}
	return player
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGame() {
	game := s.createGame()

	s.Equal(model.GameID("GAME01"), game.ID)
	s.Equal(model.PlayerID("creator"), game.CreatorID)
	s.Equal(s.clock.CurrentTime, game.CreatedAt)
	s.Len(game.CommonPhrases, 30)

	// Identity permutation: the first 5 of the rare pool, unclaimed
	s.Require().Len(game.RarePhrases, model.RarePhraseCount)
	for i, rp := range game.RarePhrases {
		s.Equal(fmt.Sprintf("rare-%02d", i), rp.Text)
		s.False(rp.Claimed())
	}

	stored, err := s.controller.GetGame(context.Background(), game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, stored.ID)
}

func (s *ControllerSuite) TestCreateGameAnonymousCreator() {
	s.random.QueueString("GAME01")
	game, err := s.controller.CreateGame(context.Background(), "", s.commonPool(30), s.rarePool(6))
	s.Require().NoError(err)
	s.Equal(model.CreatorGuest, game.CreatorID)
}

func (s *ControllerSuite) TestCreateGameTooFewCommonPhrases() {
	_, err := s.controller.CreateGame(context.Background(), "creator", s.commonPool(24), s.rarePool(6))
	s.ErrorIs(err, model.ErrNotEnoughPhrases)
}

func (s *ControllerSuite) TestCreateGameDuplicatesDontCount() {
	pool := append(s.commonPool(24), "common-00", "common-01")
	_, err := s.controller.CreateGame(context.Background(), "creator", pool, s.rarePool(6))
	s.ErrorIs(err, model.ErrNotEnoughPhrases)
}

func (s *ControllerSuite) TestCreateGameTooFewRarePhrases() {
	_, err := s.controller.CreateGame(context.Background(), "creator", s.commonPool(30), s.rarePool(4))
	s.ErrorIs(err, model.ErrNotEnoughRare)
}

func (s *ControllerSuite) TestCreateGameExactMinimums() {
	s.random.QueueString("GAME01")
	game, err := s.controller.CreateGame(context.Background(), "creator", s.commonPool(25), s.rarePool(5))
	s.Require().NoError(err)
	s.Len(game.CommonPhrases, 25)
	s.Len(game.RarePhrases, 5)
}

// Join tests

func (s *ControllerSuite) TestJoinDealsCard() {
	game := s.createGame()

	player, err := s.controller.Join(context.Background(), game.ID, "alice", "Alice")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("alice"), player.ID)
	s.Equal("Alice", player.Name)
	s.Equal(0, player.Score)
	s.Equal(s.clock.CurrentTime, player.JoinedAt)

	// Identity permutation: pool order, row-major
	s.Equal("common-00", player.Card[0][0])
	s.Equal("common-24", player.Card[4][4])
	for row := 0; row < model.GridSize; row++ {
		for col := 0; col < model.GridSize; col++ {
			s.False(player.Marked.Marked(row, col))
		}
	}

	user, err := s.store.GetUser(context.Background(), "alice")
	s.Require().NoError(err)
	s.True(user.HasActiveGame(game.ID))
}

func (s *ControllerSuite) TestJoinEmptyName() {
	game := s.createGame()
	_, err := s.controller.Join(context.Background(), game.ID, "alice", "   ")
	s.ErrorIs(err, model.ErrEmptyName)
}

func (s *ControllerSuite) TestJoinUnknownGame() {
	_, err := s.controller.Join(context.Background(), "MISSING", "alice", "Alice")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestRejoinKeepsCardAndMarks() {
	game := s.createGame()
	ctx := context.Background()
	first, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	_, err = s.controller.ToggleCell(ctx, game.ID, "alice", 2, 2)
	s.Require().NoError(err)

	again, err := s.controller.Join(ctx, game.ID, "alice", "Alicia")
	s.Require().NoError(err)

	s.Equal("Alicia", again.Name)
	s.Equal(first.Card, again.Card)
	s.True(again.Marked.Marked(2, 2))
	s.Equal(100, again.Score)
}

func (s *ControllerSuite) TestJoinFinishedGameDetaches() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)
	s.winGame(game.ID, "alice")

	s.Require().NoError(s.store.AddActiveGame(ctx, "bob", game.ID))
	_, err = s.controller.Join(ctx, game.ID, "bob", "Bob")
	s.ErrorIs(err, model.ErrGameFinished)

	user, err := s.store.GetUser(ctx, "bob")
	s.Require().NoError(err)
	s.False(user.HasActiveGame(game.ID))
}

// ToggleCell tests

func (s *ControllerSuite) TestToggleCellScores() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	player, err := s.controller.ToggleCell(ctx, game.ID, "alice", 0, 0)
	s.Require().NoError(err)
	s.True(player.Marked.Marked(0, 0))
	s.Equal(100, player.Score)

	// Adjacent cell: pair bonus lands
	player, err = s.controller.ToggleCell(ctx, game.ID, "alice", 0, 1)
	s.Require().NoError(err)
	s.Equal(250, player.Score)

	// Toggling off recomputes back down
	player, err = s.controller.ToggleCell(ctx, game.ID, "alice", 0, 1)
	s.Require().NoError(err)
	s.False(player.Marked.Marked(0, 1))
	s.Equal(100, player.Score)
}

func (s *ControllerSuite) TestToggleCellOutOfBounds() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	for _, cell := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}} {
		_, err := s.controller.ToggleCell(ctx, game.ID, "alice", cell[0], cell[1])
		s.ErrorIs(err, model.ErrInvalidCell)
	}
}

func (s *ControllerSuite) TestToggleCellUnknownPlayer() {
	game := s.createGame()
	_, err := s.controller.ToggleCell(context.Background(), game.ID, "nobody", 0, 0)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Claim tests

func (s *ControllerSuite) TestClaimRarePhrase() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	outcome, err := s.controller.ClaimRarePhrase(ctx, game.ID, "alice", 2)
	s.Require().NoError(err)
	s.True(outcome.Claimed)
	s.False(outcome.AlreadyYours)

	stored, err := s.controller.GetGame(ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), stored.RarePhrases[2].ClaimedBy)
	s.Equal("Alice", stored.RarePhrases[2].ClaimedByName)

	player, err := s.controller.GetPlayer(ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.Equal(scoring.RarePhraseBonus, player.Score)
}

func (s *ControllerSuite) TestClaimTwiceIsNoOp() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	_, err = s.controller.ClaimRarePhrase(ctx, game.ID, "alice", 0)
	s.Require().NoError(err)
	outcome, err := s.controller.ClaimRarePhrase(ctx, game.ID, "alice", 0)
	s.Require().NoError(err)
	s.True(outcome.Claimed)
	s.True(outcome.AlreadyYours)

	player, err := s.controller.GetPlayer(ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.Equal(scoring.RarePhraseBonus, player.Score)
}

func (s *ControllerSuite) TestClaimLostRace() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(ctx, game.ID, "bob", "Bob")
	s.Require().NoError(err)

	_, err = s.controller.ClaimRarePhrase(ctx, game.ID, "bob", 0)
	s.Require().NoError(err)

	outcome, err := s.controller.ClaimRarePhrase(ctx, game.ID, "alice", 0)
	s.Require().NoError(err)
	s.False(outcome.Claimed)
	s.Equal("bob", outcome.ClaimedBy)
	s.Equal("Bob", outcome.ClaimedByName)

	// The loser's score is untouched
	player, err := s.controller.GetPlayer(ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.Equal(0, player.Score)
}

func (s *ControllerSuite) TestClaimInvalidIndex() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	_, err = s.controller.ClaimRarePhrase(ctx, game.ID, "alice", 5)
	s.ErrorIs(err, model.ErrInvalidPhraseIndex)
	_, err = s.controller.ClaimRarePhrase(ctx, game.ID, "alice", -1)
	s.ErrorIs(err, model.ErrInvalidPhraseIndex)
}

func (s *ControllerSuite) TestUnclaimRarePhrase() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	_, err = s.controller.ClaimRarePhrase(ctx, game.ID, "alice", 0)
	s.Require().NoError(err)
	s.Require().NoError(s.controller.UnclaimRarePhrase(ctx, game.ID, "alice", 0))

	stored, err := s.controller.GetGame(ctx, game.ID)
	s.Require().NoError(err)
	s.False(stored.RarePhrases[0].Claimed())

	player, err := s.controller.GetPlayer(ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.Equal(0, player.Score)
}

func (s *ControllerSuite) TestUnclaimByNonClaimant() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(ctx, game.ID, "bob", "Bob")
	s.Require().NoError(err)

	_, err = s.controller.ClaimRarePhrase(ctx, game.ID, "bob", 0)
	s.Require().NoError(err)

	err = s.controller.UnclaimRarePhrase(ctx, game.ID, "alice", 0)
	s.ErrorIs(err, model.ErrNotClaimant)

	// Unclaimed phrases have no claimant either
	err = s.controller.UnclaimRarePhrase(ctx, game.ID, "alice", 1)
	s.ErrorIs(err, model.ErrNotClaimant)
}

// CheckBingo tests

// winGame completes alice's top row and runs the bingo check
func (s *ControllerSuite) winGame(gameID model.GameID, playerID model.PlayerID) BingoResult {
	s.mark(gameID, playerID,
		"TTTTT",
		".....",
		".....",
		".....",
		".....",
	)
	result, err := s.controller.CheckBingo(context.Background(), gameID, playerID)
	s.Require().NoError(err)
	s.Require().True(result.Bingo)
	return result
}

func (s *ControllerSuite) TestCheckBingoNoLine() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)
	s.mark(game.ID, "alice",
		"TTTT.",
		".....",
		".....",
		".....",
		".....",
	)

	result, err := s.controller.CheckBingo(ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.False(result.Bingo)
	s.False(result.AlreadyWon)
	s.Equal(550, result.Score)

	stored, err := s.controller.GetGame(ctx, game.ID)
	s.Require().NoError(err)
	s.False(stored.Finished())
}

func (s *ControllerSuite) TestCheckBingoWins() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)

	result := s.winGame(game.ID, "alice")

	s.Equal(model.PlayerID("alice"), result.WinnerID)
	s.Equal("Alice", result.WinnerName)
	// Full row (700) plus the win bonus
	s.Equal(700+scoring.WinBonus, result.Score)

	stored, err := s.controller.GetGame(ctx, game.ID)
	s.Require().NoError(err)
	s.True(stored.Finished())
	s.Equal("Alice", stored.WinnerName)

	entry, err := s.store.GetLeaderboardEntry(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, entry.Wins)

	// The finished game is detached from every participant's lobby
	user, err := s.store.GetUser(ctx, "alice")
	s.Require().NoError(err)
	s.False(user.HasActiveGame(game.ID))
}

func (s *ControllerSuite) TestCheckBingoHighestScorerWins() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(ctx, game.ID, "bob", "Bob")
	s.Require().NoError(err)

	// Bob racks up a huge score without completing a line
	s.mark(game.ID, "bob",
		"TTTT.",
		"T..TT",
		".TT.T",
		"TT..T",
		".TTT.",
	)
	bob, err := s.controller.GetPlayer(ctx, game.ID, "bob")
	s.Require().NoError(err)

	// Alice completes the line but Bob's score stands above hers
	// even after her win bonus
	s.Require().Greater(bob.Score, 700+scoring.WinBonus)
	result := s.winGame(game.ID, "alice")

	s.Equal(model.PlayerID("bob"), result.WinnerID)
	s.Equal("Bob", result.WinnerName)

	entry, err := s.store.GetLeaderboardEntry(ctx, "bob")
	s.Require().NoError(err)
	s.Equal(1, entry.Wins)
}

func (s *ControllerSuite) TestCheckBingoAfterGameEnded() {
	game := s.createGame()
	ctx := context.Background()
	_, err := s.controller.Join(ctx, game.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(ctx, game.ID, "bob", "Bob")
	s.Require().NoError(err)

	s.winGame(game.ID, "alice")

	result, err := s.controller.CheckBingo(ctx, game.ID, "bob")
	s.Require().NoError(err)
	s.False(result.Bingo)
	s.True(result.AlreadyWon)
	s.Equal("Alice", result.WinnerName)

	// The standing winner keeps the game
	entry, err := s.store.GetLeaderboardEntry(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, entry.Wins)
	_, err = s.store.GetLeaderboardEntry(ctx, "bob")
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *ControllerSuite) TestCheckBingoUnknownPlayer() {
	game := s.createGame()
	_, err := s.controller.CheckBingo(context.Background(), game.ID, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
