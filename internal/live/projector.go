package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nisim1010/Bingo-Game/internal/api/response"
	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// SSE event names emitted on game feeds and the leaderboard feed
const (
	EventGameUpdated        = "game-updated"
	EventPlayersUpdated     = "players-updated"
	EventWinnerDeclared     = "winner-declared"
	EventLeaderboardUpdated = "leaderboard-updated"
)

// Projector bridges store change streams onto SSE hubs: one hub per
// watched game plus a single shared leaderboard hub. Snapshots are
// serialized with the same wire types the REST API uses, so stream
// consumers and polling consumers see identical JSON.
type Projector struct {
	store  storage.Store
	logger *slog.Logger

	mu             sync.Mutex
	games          map[model.GameID]*gameProjection
	leaderboardHub *Hub
	cancelLb       func()
	closed         bool
}

type gameProjection struct {
	hub    *Hub
	cancel func()
}

// NewProjector creates a new Projector
func NewProjector(store storage.Store, logger *slog.Logger) *Projector {
	return &Projector{
		store:  store,
		logger: logger.With(slog.String("component", "live")),
		games:  make(map[model.GameID]*gameProjection),
	}
}

// GameHub returns the SSE hub for a game, starting its projection on
// first use. The projection keeps running until the projector closes;
// finished games keep their feed so late viewers get the final state.
func (p *Projector) GameHub(ctx context.Context, gameID model.GameID) (*Hub, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, context.Canceled
	}
	if proj, ok := p.games[gameID]; ok {
		return proj.hub, nil
	}

	// Projections outlive the subscribing request, so the watches
	// must not inherit its context
	watchCtx := context.Background()
	gameCh, cancelGame, err := p.store.WatchGame(watchCtx, gameID)
	if err != nil {
		return nil, err
	}
	playersCh, cancelPlayers, err := p.store.WatchPlayers(watchCtx, gameID)
	if err != nil {
		cancelGame()
		return nil, err
	}

	hub := NewHub(string(gameID), p.logger)
	go hub.Run()
	go p.projectGame(hub, gameCh, playersCh)

	p.games[gameID] = &gameProjection{
		hub: hub,
		cancel: func() {
			cancelGame()
			cancelPlayers()
		},
	}
	return hub, nil
}

// LeaderboardHub returns the shared leaderboard hub, starting its
// projection on first use
func (p *Projector) LeaderboardHub(ctx context.Context) (*Hub, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, context.Canceled
	}
	if p.leaderboardHub != nil {
		return p.leaderboardHub, nil
	}

	entriesCh, cancel, err := p.store.WatchLeaderboard(context.Background())
	if err != nil {
		return nil, err
	}

	hub := NewHub("leaderboard", p.logger)
	go hub.Run()
	go p.projectLeaderboard(hub, entriesCh)

	p.leaderboardHub = hub
	p.cancelLb = cancel
	return hub, nil
}

// Close tears down every projection and hub
func (p *Projector) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, proj := range p.games {
		proj.cancel()
		proj.hub.Close()
		delete(p.games, id)
	}
	if p.leaderboardHub != nil {
		p.cancelLb()
		p.leaderboardHub.Close()
		p.leaderboardHub = nil
	}
}

func (p *Projector) projectGame(hub *Hub, gameCh <-chan *model.Game, playersCh <-chan []*model.Player) {
	winnerAnnounced := false
	for gameCh != nil || playersCh != nil {
		select {
		case game, ok := <-gameCh:
			if !ok {
				gameCh = nil
				continue
			}
			p.broadcastJSON(hub, EventGameUpdated, response.GameFromModel(game))
			if game.Finished() && !winnerAnnounced {
				winnerAnnounced = true
				p.broadcastJSON(hub, EventWinnerDeclared, response.BingoResponse{
					Bingo:      true,
					WinnerID:   string(game.WinnerID),
					WinnerName: game.WinnerName,
				})
			}
		case players, ok := <-playersCh:
			if !ok {
				playersCh = nil
				continue
			}
			p.broadcastJSON(hub, EventPlayersUpdated, response.PlayersFromModel(players))
		}
	}
}

func (p *Projector) projectLeaderboard(hub *Hub, entriesCh <-chan []*model.LeaderboardEntry) {
	for entries := range entriesCh {
		p.broadcastJSON(hub, EventLeaderboardUpdated, response.LeaderboardFromModel(entries))
	}
}

func (p *Projector) broadcastJSON(hub *Hub, eventName string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal sse payload",
			slog.String("event", eventName),
			slog.String("error", err.Error()))
		return
	}
	hub.BroadcastEvent(eventName, string(data))
}
