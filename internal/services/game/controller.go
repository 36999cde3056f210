package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nisim1010/Bingo-Game/internal/dependencies/clock"
	"github.com/nisim1010/Bingo-Game/internal/dependencies/random"
	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/services/card"
	"github.com/nisim1010/Bingo-Game/internal/services/cleanup"
	"github.com/nisim1010/Bingo-Game/internal/services/leaderboard"
	"github.com/nisim1010/Bingo-Game/internal/services/scoring"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const gameIDLength = 12

// ClaimOutcome reports how a rare-phrase claim resolved
type ClaimOutcome struct {
	// Claimed is true when the caller holds the claim after the call
	Claimed bool
	// AlreadyYours is true when the caller held the claim before the
	// call; repeating a claim is a no-op
	AlreadyYours bool
	// ClaimedBy identifies the holder when the claim belongs to
	// someone else
	ClaimedBy string
	// ClaimedByName is the holder's display name
	ClaimedByName string
}

// BingoResult reports how a bingo check resolved
type BingoResult struct {
	// Bingo is true when the caller's grid contains a completed line
	Bingo bool
	// AlreadyWon is true when the game had a winner before this check
	AlreadyWon bool
	WinnerID   model.PlayerID
	WinnerName string
	// Score is the caller's score after the check
	Score int
}

// Controller owns the game lifecycle: creation, joining, cell marks,
// rare-phrase claims, and the winning bingo check.
type Controller struct {
	store       storage.Store
	cards       card.ServiceInterface
	scoring     scoring.ServiceInterface
	leaderboard leaderboard.ServiceInterface
	cleanup     cleanup.CoordinatorInterface
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	store storage.Store,
	cards card.ServiceInterface,
	scoringService scoring.ServiceInterface,
	leaderboardService leaderboard.ServiceInterface,
	cleanupCoordinator cleanup.CoordinatorInterface,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:       store,
		cards:       cards,
		scoring:     scoringService,
		leaderboard: leaderboardService,
		cleanup:     cleanupCoordinator,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "game")),
	}
}

// CreateGame validates the phrase pools and persists a new game.
// Common phrases are deduplicated and must leave at least 25 distinct
// entries; exactly 5 rare phrases are drawn at random from the rare
// pool, which must hold at least 5 distinct entries.
func (c *Controller) CreateGame(ctx context.Context, creatorID model.PlayerID, commonPhrases, rarePhrases []string) (*model.Game, error) {
	common := card.Dedupe(commonPhrases)
	if len(common) < model.MinCommonPhrases {
		return nil, model.ErrNotEnoughPhrases
	}

	rare := card.Dedupe(rarePhrases)
	if len(rare) < model.RarePhraseCount {
		return nil, model.ErrNotEnoughRare
	}

	if creatorID == "" {
		creatorID = model.CreatorGuest
	}

	perm := c.random.Perm(len(rare))
	selected := make([]model.RarePhrase, model.RarePhraseCount)
	for i := range selected {
		selected[i] = model.RarePhrase{Text: rare[perm[i]]}
	}

	game := &model.Game{
		ID:            model.GameID(c.random.String(gameIDLength, gameIDAlphabet)),
		CreatorID:     creatorID,
		CreatedAt:     c.clock.Now(),
		CommonPhrases: common,
		RarePhrases:   selected,
	}

	if err := c.store.CreateGame(ctx, game); err != nil {
		c.logger.Error("failed to create game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("creator_id", string(creatorID)),
		slog.Int("common_phrases", len(common)),
		slog.Int("rare_pool", len(rare)),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.store.GetGame(ctx, gameID)
}

// RecentGames lists the most recently created games
func (c *Controller) RecentGames(ctx context.Context, limit int) ([]*model.Game, error) {
	return c.store.RecentGames(ctx, limit)
}

// Players returns the game's roster in join order
func (c *Controller) Players(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	return c.store.PlayersForGame(ctx, gameID)
}

// GetPlayer retrieves one player's state in a game
func (c *Controller) GetPlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Player, error) {
	return c.store.GetPlayer(ctx, gameID, playerID)
}

// Join adds a player to a game, dealing them a fresh card. Joining a
// game the player is already in just refreshes their display name and
// keeps their card and marks. Joining a finished game fails with
// ErrGameFinished and detaches the game from the player's lobby.
func (c *Controller) Join(ctx context.Context, gameID model.GameID, playerID model.PlayerID, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}

	game, err := c.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Finished() {
		if err := c.store.RemoveActiveGame(ctx, playerID, gameID); err != nil {
			c.logger.Warn("failed to detach finished game",
				slog.String("game_id", string(gameID)),
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()))
		}
		return nil, model.ErrGameFinished
	}

	player, err := c.store.GetPlayer(ctx, gameID, playerID)
	switch {
	case err == nil:
		// Rejoin: keep the dealt card and marks
		player, err = c.store.UpdatePlayer(ctx, gameID, playerID, func(p *model.Player) error {
			p.Name = name
			return nil
		})
		if err != nil {
			return nil, err
		}
	case errors.Is(err, model.ErrPlayerNotFound):
		dealt, err := c.cards.Generate(game.CommonPhrases)
		if err != nil {
			return nil, err
		}
		player = &model.Player{
			GameID:   gameID,
			ID:       playerID,
			Name:     name,
			Card:     dealt,
			Marked:   model.NewMarkGrid(),
			JoinedAt: c.clock.Now(),
		}
		if err := c.store.SavePlayer(ctx, player); err != nil {
			return nil, err
		}
		c.logger.Info("player joined",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
		)
	default:
		return nil, err
	}

	if err := c.store.AddActiveGame(ctx, playerID, gameID); err != nil {
		c.logger.Warn("failed to attach game to player",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
	}

	return player, nil
}

// ToggleCell flips one cell of the player's mark grid and recomputes
// their score.
func (c *Controller) ToggleCell(ctx context.Context, gameID model.GameID, playerID model.PlayerID, row, col int) (*model.Player, error) {
	if !model.ValidCell(row, col) {
		return nil, model.ErrInvalidCell
	}

	return c.store.UpdatePlayer(ctx, gameID, playerID, func(p *model.Player) error {
		p.Marked.Toggle(row, col)
		p.Score = c.totalScore(p)
		return nil
	})
}

// ClaimRarePhrase claims a rare phrase for the player and awards the
// claim bonus. Claims are first-come-first-served: losing the race is
// not an error, the outcome names the holder instead. Re-claiming a
// phrase the player already holds is a no-op.
func (c *Controller) ClaimRarePhrase(ctx context.Context, gameID model.GameID, playerID model.PlayerID, index int) (ClaimOutcome, error) {
	var outcome ClaimOutcome
	err := c.store.UpdateGameAndPlayer(ctx, gameID, playerID, func(g *model.Game, p *model.Player) error {
		if index < 0 || index >= len(g.RarePhrases) {
			return model.ErrInvalidPhraseIndex
		}
		rp := &g.RarePhrases[index]
		if rp.Claimed() {
			if rp.ClaimedBy == playerID {
				outcome = ClaimOutcome{Claimed: true, AlreadyYours: true}
				return nil
			}
			outcome = ClaimOutcome{ClaimedBy: string(rp.ClaimedBy), ClaimedByName: rp.ClaimedByName}
			return model.ErrPhraseClaimed
		}

		rp.ClaimedBy = playerID
		rp.ClaimedByName = p.Name
		p.Bonus += scoring.RarePhraseBonus
		p.Score = c.totalScore(p)
		outcome = ClaimOutcome{Claimed: true}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrPhraseClaimed) {
			// Lost the race; the phrase went to someone else
			return outcome, nil
		}
		return ClaimOutcome{}, err
	}
	return outcome, nil
}

// UnclaimRarePhrase releases a claim the player holds and takes the
// claim bonus back. Only the claimant can release a claim.
func (c *Controller) UnclaimRarePhrase(ctx context.Context, gameID model.GameID, playerID model.PlayerID, index int) error {
	return c.store.UpdateGameAndPlayer(ctx, gameID, playerID, func(g *model.Game, p *model.Player) error {
		if index < 0 || index >= len(g.RarePhrases) {
			return model.ErrInvalidPhraseIndex
		}
		rp := &g.RarePhrases[index]
		if rp.ClaimedBy != playerID {
			return model.ErrNotClaimant
		}

		rp.ClaimedBy = ""
		rp.ClaimedByName = ""
		p.Bonus -= scoring.RarePhraseBonus
		p.Score = c.totalScore(p)
		return nil
	})
}

// CheckBingo checks the player's grid for a completed line and, if the
// game has no winner yet, ends it. The winner is the highest-scoring
// player after the win bonus lands, which is not necessarily the
// caller. Exactly one bingo check can end a game; a check that arrives
// after the game ended reports AlreadyWon with the standing winner.
func (c *Controller) CheckBingo(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (BingoResult, error) {
	game, err := c.store.GetGame(ctx, gameID)
	if err != nil {
		return BingoResult{}, err
	}
	if game.Finished() {
		return BingoResult{
			AlreadyWon: true,
			WinnerID:   game.WinnerID,
			WinnerName: game.WinnerName,
		}, nil
	}

	player, err := c.store.GetPlayer(ctx, gameID, playerID)
	if err != nil {
		return BingoResult{}, err
	}
	if !c.scoring.HasWin(player.Marked) {
		return BingoResult{Score: player.Score}, nil
	}

	// The bonus shares a transaction with the finished check so a
	// concurrent winning check cannot hand it out twice
	callerScore := player.Score
	err = c.store.UpdateGameAndPlayer(ctx, gameID, playerID, func(g *model.Game, p *model.Player) error {
		if g.Finished() {
			return model.ErrGameFinished
		}
		p.Bonus += scoring.WinBonus
		p.Score = c.totalScore(p)
		player = p.Clone()
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrGameFinished) {
			game, err := c.store.GetGame(ctx, gameID)
			if err != nil {
				return BingoResult{}, err
			}
			return BingoResult{
				Bingo:      true,
				AlreadyWon: true,
				WinnerID:   game.WinnerID,
				WinnerName: game.WinnerName,
				Score:      callerScore,
			}, nil
		}
		return BingoResult{}, err
	}

	// The win bonus can push someone else past the caller, so the
	// winner is picked from the full roster
	players, err := c.store.PlayersForGame(ctx, gameID)
	if err != nil {
		return BingoResult{}, err
	}
	winner := player
	for _, p := range players {
		if p.Score > winner.Score {
			winner = p
		}
	}

	_, err = c.store.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if g.Finished() {
			return model.ErrGameFinished
		}
		g.WinnerID = winner.ID
		g.WinnerName = winner.Name
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrGameFinished) {
			// A concurrent check ended the game first. Unless the win
			// went to this caller anyway, the bonus goes back.
			game, gerr := c.store.GetGame(ctx, gameID)
			if gerr != nil {
				return BingoResult{}, gerr
			}
			score := player.Score
			if game.WinnerID != playerID {
				reverted, rbErr := c.store.UpdatePlayer(ctx, gameID, playerID, func(p *model.Player) error {
					p.Bonus -= scoring.WinBonus
					p.Score = c.totalScore(p)
					return nil
				})
				if rbErr != nil {
					c.logger.Error("failed to revoke win bonus",
						slog.String("game_id", string(gameID)),
						slog.String("player_id", string(playerID)),
						slog.String("error", rbErr.Error()))
				} else {
					score = reverted.Score
				}
			}
			return BingoResult{
				Bingo:      true,
				AlreadyWon: true,
				WinnerID:   game.WinnerID,
				WinnerName: game.WinnerName,
				Score:      score,
			}, nil
		}
		return BingoResult{}, err
	}

	c.logger.Info("game won",
		slog.String("game_id", string(gameID)),
		slog.String("winner_id", string(winner.ID)),
		slog.Int("winning_score", winner.Score),
	)

	if _, err := c.leaderboard.RecordWin(ctx, leaderboard.WinRecord{
		GameID:      gameID,
		WinnerID:    winner.ID,
		WinnerName:  winner.Name,
		Score:       winner.Score,
		PlayerCount: len(players),
		WonAt:       c.clock.Now(),
	}); err != nil {
		c.logger.Error("failed to record win",
			slog.String("game_id", string(gameID)),
			slog.String("winner_id", string(winner.ID)),
			slog.String("error", err.Error()))
	}

	if err := c.cleanup.Run(ctx, gameID); err != nil {
		c.logger.Warn("cleanup failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()))
	}

	return BingoResult{
		Bingo:      true,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Score:      player.Score,
	}, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, creatorID model.PlayerID, commonPhrases, rarePhrases []string) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	RecentGames(ctx context.Context, limit int) ([]*model.Game, error)
	Players(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	GetPlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Player, error)
	Join(ctx context.Context, gameID model.GameID, playerID model.PlayerID, name string) (*model.Player, error)
	ToggleCell(ctx context.Context, gameID model.GameID, playerID model.PlayerID, row, col int) (*model.Player, error)
	ClaimRarePhrase(ctx context.Context, gameID model.GameID, playerID model.PlayerID, index int) (ClaimOutcome, error)
	UnclaimRarePhrase(ctx context.Context, gameID model.GameID, playerID model.PlayerID, index int) error
	CheckBingo(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (BingoResult, error)
	OpenSession(ctx context.Context, gameID model.GameID) (*Session, error)
}

var _ ControllerInterface = (*Controller)(nil)

func (c *Controller) totalScore(p *model.Player) int {
	score := c.scoring.Score(p.Marked) + p.Bonus
	if score < 0 {
		return 0
	}
	return score
}
