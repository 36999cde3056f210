package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// maxTxnAttempts bounds optimistic retries before a transaction
// fails with model.ErrTransactionConflict
const maxTxnAttempts = 10

type playerKey struct {
	gameID   model.GameID
	playerID model.PlayerID
}

// Storage is an in-memory implementation of the store interface.
//
// It keeps the same optimistic-concurrency discipline as the Redis
// backend: transactional updates read a versioned copy, run the
// mutate callback outside the lock, and commit only if the version
// is unchanged. Concurrent updates genuinely conflict and retry, so
// tests against this store exercise the same code paths as
// production.
type Storage struct {
	mu sync.Mutex

	games          map[model.GameID]*model.Game
	gameVersions   map[model.GameID]uint64
	players        map[playerKey]*model.Player
	playerVersions map[playerKey]uint64
	entries        map[model.PlayerID]*model.LeaderboardEntry
	entryVersions  map[model.PlayerID]uint64
	users          map[model.PlayerID]*model.User

	watchMu            sync.Mutex
	gameStreams        map[model.GameID]map[*stream[*model.Game]]struct{}
	playerStreams      map[model.GameID]map[*stream[[]*model.Player]]struct{}
	leaderboardStreams map[*stream[[]*model.LeaderboardEntry]]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:              make(map[model.GameID]*model.Game),
		gameVersions:       make(map[model.GameID]uint64),
		players:            make(map[playerKey]*model.Player),
		playerVersions:     make(map[playerKey]uint64),
		entries:            make(map[model.PlayerID]*model.LeaderboardEntry),
		entryVersions:      make(map[model.PlayerID]uint64),
		users:              make(map[model.PlayerID]*model.User),
		gameStreams:        make(map[model.GameID]map[*stream[*model.Game]]struct{}),
		playerStreams:      make(map[model.GameID]map[*stream[[]*model.Player]]struct{}),
		leaderboardStreams: make(map[*stream[[]*model.LeaderboardEntry]]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	s.games[game.ID] = game.Clone()
	s.gameVersions[game.ID]++
	s.mu.Unlock()

	s.notifyGame(game.ID)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) RecentGames(ctx context.Context, limit int) ([]*model.Game, error) {
	s.mu.Lock()
	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g.Clone())
	}
	s.mu.Unlock()

	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.After(games[j].CreatedAt)
		}
		return games[i].ID < games[j].ID
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, mutate func(*model.Game) error) (*model.Game, error) {
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		s.mu.Lock()
		current, ok := s.games[id]
		if !ok {
			s.mu.Unlock()
			return nil, model.ErrGameNotFound
		}
		version := s.gameVersions[id]
		working := current.Clone()
		s.mu.Unlock()

		if err := mutate(working); err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.gameVersions[id] != version {
			s.mu.Unlock()
			continue
		}
		s.games[id] = working
		s.gameVersions[id] = version + 1
		s.mu.Unlock()

		s.notifyGame(id)
		return working.Clone(), nil
	}
	return nil, model.ErrTransactionConflict
}

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerKey{gameID, id}]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	key := playerKey{player.GameID, player.ID}
	s.mu.Lock()
	s.players[key] = player.Clone()
	s.playerVersions[key]++
	s.mu.Unlock()

	s.notifyPlayers(player.GameID)
	return nil
}

func (s *Storage) PlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	s.mu.Lock()
	players := s.rosterLocked(gameID)
	s.mu.Unlock()
	return players, nil
}

// rosterLocked returns the game's players in join order. Callers
// must hold mu.
func (s *Storage) rosterLocked(gameID model.GameID) []*model.Player {
	players := make([]*model.Player, 0)
	for key, p := range s.players {
		if key.gameID == gameID {
			players = append(players, p.Clone())
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].JoinedAt.Before(players[j].JoinedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players
}

func (s *Storage) UpdatePlayer(ctx context.Context, gameID model.GameID, id model.PlayerID, mutate func(*model.Player) error) (*model.Player, error) {
	key := playerKey{gameID, id}
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		s.mu.Lock()
		current, ok := s.players[key]
		if !ok {
			s.mu.Unlock()
			return nil, model.ErrPlayerNotFound
		}
		version := s.playerVersions[key]
		working := current.Clone()
		s.mu.Unlock()

		if err := mutate(working); err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.playerVersions[key] != version {
			s.mu.Unlock()
			continue
		}
		s.players[key] = working
		s.playerVersions[key] = version + 1
		s.mu.Unlock()

		s.notifyPlayers(gameID)
		return working.Clone(), nil
	}
	return nil, model.ErrTransactionConflict
}

func (s *Storage) UpdateGameAndPlayer(ctx context.Context, gameID model.GameID, id model.PlayerID, mutate func(*model.Game, *model.Player) error) error {
	key := playerKey{gameID, id}
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		s.mu.Lock()
		game, ok := s.games[gameID]
		if !ok {
			s.mu.Unlock()
			return model.ErrGameNotFound
		}
		player, ok := s.players[key]
		if !ok {
			s.mu.Unlock()
			return model.ErrPlayerNotFound
		}
		gameVersion := s.gameVersions[gameID]
		playerVersion := s.playerVersions[key]
		workingGame := game.Clone()
		workingPlayer := player.Clone()
		s.mu.Unlock()

		if err := mutate(workingGame, workingPlayer); err != nil {
			return err
		}

		s.mu.Lock()
		if s.gameVersions[gameID] != gameVersion || s.playerVersions[key] != playerVersion {
			s.mu.Unlock()
			continue
		}
		s.games[gameID] = workingGame
		s.gameVersions[gameID] = gameVersion + 1
		s.players[key] = workingPlayer
		s.playerVersions[key] = playerVersion + 1
		s.mu.Unlock()

		s.notifyGame(gameID)
		s.notifyPlayers(gameID)
		return nil
	}
	return model.ErrTransactionConflict
}

// Leaderboard operations

func (s *Storage) GetLeaderboardEntry(ctx context.Context, id model.PlayerID) (*model.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return entry.Clone(), nil
}

func (s *Storage) TopLeaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	s.mu.Lock()
	entries := s.topLocked(limit)
	s.mu.Unlock()
	return entries, nil
}

func (s *Storage) topLocked(limit int) []*model.LeaderboardEntry {
	entries := make([]*model.LeaderboardEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e.Clone())
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (s *Storage) UpdateLeaderboardEntry(ctx context.Context, id model.PlayerID, mutate func(*model.LeaderboardEntry) error) error {
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		s.mu.Lock()
		version := s.entryVersions[id]
		working := &model.LeaderboardEntry{PlayerID: id}
		if current, ok := s.entries[id]; ok {
			working = current.Clone()
		}
		s.mu.Unlock()

		if err := mutate(working); err != nil {
			return err
		}

		s.mu.Lock()
		if s.entryVersions[id] != version {
			s.mu.Unlock()
			continue
		}
		s.entries[id] = working
		s.entryVersions[id] = version + 1
		s.mu.Unlock()

		s.notifyLeaderboard()
		return nil
	}
	return model.ErrTransactionConflict
}

// User operations

func (s *Storage) GetUser(ctx context.Context, id model.PlayerID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *Storage) AddActiveGame(ctx context.Context, userID model.PlayerID, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		user = &model.User{ID: userID}
		s.users[userID] = user
	}
	user.AddActiveGame(gameID)
	return nil
}

func (s *Storage) RemoveActiveGame(ctx context.Context, userID model.PlayerID, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil
	}
	user.RemoveActiveGame(gameID)
	return nil
}

// Change streams

func (s *Storage) WatchGame(ctx context.Context, id model.GameID) (<-chan *model.Game, func(), error) {
	st := newStream[*model.Game]()

	// Snapshot and register under both locks so a commit cannot land
	// between the initial snapshot and the stream becoming visible to
	// notifyGame
	s.mu.Lock()
	s.watchMu.Lock()
	if game, ok := s.games[id]; ok {
		st.push(game.Clone())
	}
	if s.gameStreams[id] == nil {
		s.gameStreams[id] = make(map[*stream[*model.Game]]struct{})
	}
	s.gameStreams[id][st] = struct{}{}
	s.watchMu.Unlock()
	s.mu.Unlock()

	go st.run()

	cancel := func() {
		s.watchMu.Lock()
		delete(s.gameStreams[id], st)
		s.watchMu.Unlock()
		st.stop()
	}
	return st.out, cancel, nil
}

func (s *Storage) WatchPlayers(ctx context.Context, gameID model.GameID) (<-chan []*model.Player, func(), error) {
	st := newStream[[]*model.Player]()

	s.mu.Lock()
	s.watchMu.Lock()
	st.push(s.rosterLocked(gameID))
	if s.playerStreams[gameID] == nil {
		s.playerStreams[gameID] = make(map[*stream[[]*model.Player]]struct{})
	}
	s.playerStreams[gameID][st] = struct{}{}
	s.watchMu.Unlock()
	s.mu.Unlock()

	go st.run()

	cancel := func() {
		s.watchMu.Lock()
		delete(s.playerStreams[gameID], st)
		s.watchMu.Unlock()
		st.stop()
	}
	return st.out, cancel, nil
}

func (s *Storage) WatchLeaderboard(ctx context.Context) (<-chan []*model.LeaderboardEntry, func(), error) {
	st := newStream[[]*model.LeaderboardEntry]()

	s.mu.Lock()
	s.watchMu.Lock()
	st.push(s.topLocked(storage.DefaultLeaderboardLimit))
	s.leaderboardStreams[st] = struct{}{}
	s.watchMu.Unlock()
	s.mu.Unlock()

	go st.run()

	cancel := func() {
		s.watchMu.Lock()
		delete(s.leaderboardStreams, st)
		s.watchMu.Unlock()
		st.stop()
	}
	return st.out, cancel, nil
}

// notifyGame pushes the committed game snapshot to all game streams
func (s *Storage) notifyGame(id model.GameID) {
	s.mu.Lock()
	game, ok := s.games[id]
	var snapshot *model.Game
	if ok {
		snapshot = game.Clone()
	}
	s.mu.Unlock()
	if snapshot == nil {
		return
	}

	s.watchMu.Lock()
	for st := range s.gameStreams[id] {
		st.push(snapshot.Clone())
	}
	s.watchMu.Unlock()
}

func (s *Storage) notifyPlayers(gameID model.GameID) {
	s.mu.Lock()
	roster := s.rosterLocked(gameID)
	s.mu.Unlock()

	s.watchMu.Lock()
	for st := range s.playerStreams[gameID] {
		snapshot := make([]*model.Player, len(roster))
		for i, p := range roster {
			snapshot[i] = p.Clone()
		}
		st.push(snapshot)
	}
	s.watchMu.Unlock()
}

func (s *Storage) notifyLeaderboard() {
	s.mu.Lock()
	top := s.topLocked(storage.DefaultLeaderboardLimit)
	s.mu.Unlock()

	s.watchMu.Lock()
	for st := range s.leaderboardStreams {
		snapshot := make([]*model.LeaderboardEntry, len(top))
		for i, e := range top {
			snapshot[i] = e.Clone()
		}
		st.push(snapshot)
	}
	s.watchMu.Unlock()
}
