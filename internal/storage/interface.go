package storage

import (
	"context"

	"github.com/nisim1010/Bingo-Game/internal/model"
)

// DefaultLeaderboardLimit is how many entries leaderboard change
// streams carry per snapshot
const DefaultLeaderboardLimit = 10

// Store is the transactional document repository the game core runs
// against.
//
// The Update* methods are the store's transaction primitive: they
// read the named documents, run mutate against private copies, and
// commit the result only if no concurrent commit touched any read
// document in the meantime. On conflict they retry with a fresh read,
// up to a bounded attempt count, then fail with
// model.ErrTransactionConflict. A mutate callback returning an error
// aborts the transaction with no writes and that error is returned
// as-is; this is how claim races and the winner guard are expressed.
//
// The Watch* methods are change streams: they deliver the current
// value immediately on subscribe and again after every committed
// change, in commit order per stream. Cross-stream ordering is not
// guaranteed. The returned cancel func releases the subscription and
// is safe to call more than once.
type Store interface {
	// Game operations
	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	RecentGames(ctx context.Context, limit int) ([]*model.Game, error)
	UpdateGame(ctx context.Context, id model.GameID, mutate func(*model.Game) error) (*model.Game, error)

	// Player operations, scoped to a game
	GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error)
	SavePlayer(ctx context.Context, player *model.Player) error
	PlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	UpdatePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID, mutate func(*model.Player) error) (*model.Player, error)

	// UpdateGameAndPlayer commits writes to both documents
	// atomically; rare-phrase claims span the game and the claiming
	// player
	UpdateGameAndPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID, mutate func(*model.Game, *model.Player) error) error

	// Leaderboard operations. UpdateLeaderboardEntry is an upsert:
	// mutate receives a zero-valued entry when none exists yet.
	GetLeaderboardEntry(ctx context.Context, id model.PlayerID) (*model.LeaderboardEntry, error)
	TopLeaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	UpdateLeaderboardEntry(ctx context.Context, id model.PlayerID, mutate func(*model.LeaderboardEntry) error) error

	// User operations. The active-game mutations are idempotent;
	// removing from a nonexistent user is a no-op.
	GetUser(ctx context.Context, id model.PlayerID) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
	AddActiveGame(ctx context.Context, userID model.PlayerID, gameID model.GameID) error
	RemoveActiveGame(ctx context.Context, userID model.PlayerID, gameID model.GameID) error

	// Change streams
	WatchGame(ctx context.Context, id model.GameID) (<-chan *model.Game, func(), error)
	WatchPlayers(ctx context.Context, gameID model.GameID) (<-chan []*model.Player, func(), error)
	WatchLeaderboard(ctx context.Context) (<-chan []*model.LeaderboardEntry, func(), error)
}
