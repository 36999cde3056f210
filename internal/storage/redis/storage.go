package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// Storage is a Redis-backed implementation of the store interface.
// Documents are JSON values; transactional updates use WATCH/MULTI
// optimistic concurrency; change streams ride pub/sub kick channels.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// txn runs fn under WATCH on the given keys, retrying on optimistic
// conflict up to the configured attempt count
func (s *Storage) txn(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	attempts := s.cfg.TxnAttempts
	if attempts <= 0 {
		attempts = DefaultConfig().TxnAttempts
	}
	for i := 0; i < attempts; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return model.ErrTransactionConflict
}

// getJSON reads and unmarshals a document within a transaction.
// notFound is returned for missing keys.
func getJSON(ctx context.Context, tx *redis.Tx, key string, dest any, notFound error) error {
	data, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.ZAdd(ctx, recentGamesKey(), redis.Z{
		Score:  float64(game.CreatedAt.UnixMilli()),
		Member: string(game.ID),
	})
	pipe.Publish(ctx, gameChannel(game.ID), "created")
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) RecentGames(ctx context.Context, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		limit = storage.DefaultLeaderboardLimit
	}
	ids, err := s.client.ZRevRange(ctx, recentGamesKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var game model.Game
		if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
			continue
		}
		games = append(games, &game)
	}
	return games, nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, mutate func(*model.Game) error) (*model.Game, error) {
	key := gameKey(id)
	var committed *model.Game

	err := s.txn(ctx, func(tx *redis.Tx) error {
		var game model.Game
		if err := getJSON(ctx, tx, key, &game, model.ErrGameNotFound); err != nil {
			return err
		}

		if err := mutate(&game); err != nil {
			return err
		}

		data, err := json.Marshal(&game)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.Publish(ctx, gameChannel(id), "updated")
			return nil
		})
		if err == nil {
			committed = &game
		}
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(gameID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pKey := playerKey(player.GameID, player.ID)

	// Pipeline keeps the document, the roster index and the
	// change-stream kick together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, pKey, data, 0)
	pipe.SAdd(ctx, playersIndexKey(player.GameID), pKey)
	pipe.Publish(ctx, playersChannel(player.GameID), "saved")
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) PlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	playerKeys, err := s.client.SMembers(ctx, playersIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}
	if len(playerKeys) == 0 {
		return []*model.Player{}, nil
	}

	values, err := s.client.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue
		}
		players = append(players, &player)
	}

	// Stable join order: winner scans and tie-breaks depend on it
	sort.Slice(players, func(i, j int) bool {
		if !players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].JoinedAt.Before(players[j].JoinedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID, mutate func(*model.Player) error) (*model.Player, error) {
	key := playerKey(gameID, id)
	var committed *model.Player

	err := s.txn(ctx, func(tx *redis.Tx) error {
		var player model.Player
		if err := getJSON(ctx, tx, key, &player, model.ErrPlayerNotFound); err != nil {
			return err
		}

		if err := mutate(&player); err != nil {
			return err
		}

		data, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.Publish(ctx, playersChannel(gameID), "updated")
			return nil
		})
		if err == nil {
			committed = &player
		}
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return committed, nil
}

func (s *Storage) UpdateGameAndPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID, mutate func(*model.Game, *model.Player) error) error {
	gKey := gameKey(gameID)
	pKey := playerKey(gameID, id)

	return s.txn(ctx, func(tx *redis.Tx) error {
		var game model.Game
		if err := getJSON(ctx, tx, gKey, &game, model.ErrGameNotFound); err != nil {
			return err
		}
		var player model.Player
		if err := getJSON(ctx, tx, pKey, &player, model.ErrPlayerNotFound); err != nil {
			return err
		}

		if err := mutate(&game, &player); err != nil {
			return err
		}

		gameData, err := json.Marshal(&game)
		if err != nil {
			return err
		}
		playerData, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gKey, gameData, 0)
			pipe.Set(ctx, pKey, playerData, 0)
			pipe.Publish(ctx, gameChannel(gameID), "updated")
			pipe.Publish(ctx, playersChannel(gameID), "updated")
			return nil
		})
		return err
	}, gKey, pKey)
}

// Leaderboard operations

func (s *Storage) GetLeaderboardEntry(ctx context.Context, id model.PlayerID) (*model.LeaderboardEntry, error) {
	data, err := s.client.Get(ctx, leaderboardEntryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEntryNotFound
		}
		return nil, err
	}

	var entry model.LeaderboardEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) TopLeaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = storage.DefaultLeaderboardLimit
	}
	ids, err := s.client.ZRevRange(ctx, leaderboardIndexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.LeaderboardEntry{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = leaderboardEntryKey(model.PlayerID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var entry model.LeaderboardEntry
		if err := json.Unmarshal([]byte(val.(string)), &entry); err != nil {
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (s *Storage) UpdateLeaderboardEntry(ctx context.Context, id model.PlayerID, mutate func(*model.LeaderboardEntry) error) error {
	key := leaderboardEntryKey(id)

	return s.txn(ctx, func(tx *redis.Tx) error {
		entry := model.LeaderboardEntry{PlayerID: id}
		if err := getJSON(ctx, tx, key, &entry, nil); err != nil {
			return err
		}

		if err := mutate(&entry); err != nil {
			return err
		}

		data, err := json.Marshal(&entry)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, leaderboardIndexKey(), redis.Z{
				Score:  float64(entry.Wins),
				Member: string(id),
			})
			pipe.Publish(ctx, leaderboardChannel(), "updated")
			return nil
		})
		return err
	}, key)
}

// User operations

func (s *Storage) GetUser(ctx context.Context, id model.PlayerID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(user.ID), data, 0).Err()
}

func (s *Storage) AddActiveGame(ctx context.Context, userID model.PlayerID, gameID model.GameID) error {
	key := userKey(userID)

	return s.txn(ctx, func(tx *redis.Tx) error {
		user := model.User{ID: userID}
		if err := getJSON(ctx, tx, key, &user, nil); err != nil {
			return err
		}
		user.AddActiveGame(gameID)

		data, err := json.Marshal(&user)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
}

func (s *Storage) RemoveActiveGame(ctx context.Context, userID model.PlayerID, gameID model.GameID) error {
	key := userKey(userID)

	return s.txn(ctx, func(tx *redis.Tx) error {
		var user model.User
		if err := getJSON(ctx, tx, key, &user, model.ErrUserNotFound); err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				// Guests have no user record; removal is a no-op
				return nil
			}
			return err
		}
		user.RemoveActiveGame(gameID)

		data, err := json.Marshal(&user)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
}
