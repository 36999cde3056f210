package cleanup

import (
	"context"
	"log/slog"

	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// Coordinator detaches a finished game from every participant's
// active-game list so it stops showing up in their lobbies. The game
// and player documents themselves are left in place for history.
type Coordinator struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates a new cleanup Coordinator
func New(store storage.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		logger: logger.With(slog.String("component", "cleanup")),
	}
}

// Run removes gameID from the active-game list of every player in the
// game. Each participant is handled independently: a failure for one
// is logged and the rest still proceed. Guests without a user record
// are skipped by the store's no-op semantics. Run only fails when the
// roster itself cannot be read.
func (c *Coordinator) Run(ctx context.Context, gameID model.GameID) error {
	players, err := c.store.PlayersForGame(ctx, gameID)
	if err != nil {
		return err
	}

	for _, player := range players {
		if err := c.store.RemoveActiveGame(ctx, player.ID, gameID); err != nil {
			c.logger.Warn("failed to detach game from player",
				slog.String("game_id", string(gameID)),
				slog.String("player_id", string(player.ID)),
				slog.String("error", err.Error()))
		}
	}

	c.logger.Info("game detached from participants",
		slog.String("game_id", string(gameID)),
		slog.Int("players", len(players)))
	return nil
}

// Interface for dependency injection
type CoordinatorInterface interface {
	Run(ctx context.Context, gameID model.GameID) error
}

var _ CoordinatorInterface = (*Coordinator)(nil)
