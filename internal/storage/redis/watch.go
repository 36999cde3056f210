package redis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// Change streams.
//
// Commits publish a kick on a pub/sub channel; each subscription
// re-reads the document when kicked and forwards the fresh snapshot.
// Reads are serialized per subscription, so every delivered value is
// at least as new as the commit that triggered it and values arrive
// in commit order.

func (s *Storage) WatchGame(ctx context.Context, id model.GameID) (<-chan *model.Game, func(), error) {
	return watch(ctx, s.client, gameChannel(id), func(ctx context.Context) (*model.Game, bool) {
		game, err := s.GetGame(ctx, id)
		if err != nil {
			return nil, false
		}
		return game, true
	})
}

func (s *Storage) WatchPlayers(ctx context.Context, gameID model.GameID) (<-chan []*model.Player, func(), error) {
	return watch(ctx, s.client, playersChannel(gameID), func(ctx context.Context) ([]*model.Player, bool) {
		players, err := s.PlayersForGame(ctx, gameID)
		if err != nil {
			return nil, false
		}
		return players, true
	})
}

func (s *Storage) WatchLeaderboard(ctx context.Context) (<-chan []*model.LeaderboardEntry, func(), error) {
	return watch(ctx, s.client, leaderboardChannel(), func(ctx context.Context) ([]*model.LeaderboardEntry, bool) {
		entries, err := s.TopLeaderboard(ctx, storage.DefaultLeaderboardLimit)
		if err != nil {
			return nil, false
		}
		return entries, true
	})
}

// watch subscribes to a kick channel and forwards snapshots read via
// load. The initial snapshot is delivered before any kicks.
func watch[T any](ctx context.Context, client *redis.Client, channel string, load func(context.Context) (T, bool)) (<-chan T, func(), error) {
	sub := client.Subscribe(ctx, channel)

	// Confirm the subscription is live before reading the initial
	// snapshot, so no commit can fall between the two
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan T)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	go func() {
		defer close(out)

		if snapshot, ok := load(ctx); ok {
			select {
			case out <- snapshot:
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}

		kicks := sub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case _, ok := <-kicks:
				if !ok {
					return
				}
				snapshot, ok := load(ctx)
				if !ok {
					continue
				}
				select {
				case out <- snapshot:
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel, nil
}
