package game

import (
	"context"
	"sync"

	"github.com/nisim1010/Bingo-Game/internal/model"
)

// SessionState tracks where a session is in its lifecycle
type SessionState string

const (
	// SessionUnjoined: subscribed to the game but not playing in it
	SessionUnjoined SessionState = "unjoined"
	// SessionJoining: a join is in flight
	SessionJoining SessionState = "joining"
	// SessionActive: the session's player is in the game
	SessionActive SessionState = "active"
	// SessionEnded: the game has a winner; terminal
	SessionEnded SessionState = "ended"
)

// Session is a live view of one game: it merges the game and roster
// change streams into a single ordered event feed and tracks the
// caller's membership. Spectators can hold a session without joining.
// A session ends, permanently, when the game gains a winner.
type Session struct {
	controller *Controller
	gameID     model.GameID

	mu       sync.Mutex
	state    SessionState
	playerID model.PlayerID

	events    chan model.Event
	done      chan struct{}
	closeOnce sync.Once
	cancels   []func()
}

// OpenSession subscribes to a game's change streams and starts the
// event pump. The first game and roster snapshots arrive as events
// before any change does. The caller must Close the session.
func (c *Controller) OpenSession(ctx context.Context, gameID model.GameID) (*Session, error) {
	// Fail fast on unknown games rather than watching nothing
	game, err := c.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	gameCh, cancelGame, err := c.store.WatchGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	playersCh, cancelPlayers, err := c.store.WatchPlayers(ctx, gameID)
	if err != nil {
		cancelGame()
		return nil, err
	}

	s := &Session{
		controller: c,
		gameID:     gameID,
		state:      SessionUnjoined,
		events:     make(chan model.Event),
		done:       make(chan struct{}),
		cancels:    []func(){cancelGame, cancelPlayers},
	}
	if game.Finished() {
		s.state = SessionEnded
	}

	go s.pump(gameCh, playersCh)
	return s, nil
}

// Events is the session's merged event feed. It closes when the
// session is closed; it stays open after the game ends so late
// consumers still see the final snapshots.
func (s *Session) Events() <-chan model.Event {
	return s.events
}

// State returns the session's current lifecycle state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GameID returns the game this session watches
func (s *Session) GameID() model.GameID {
	return s.gameID
}

// Join enters the watched game as playerID. On a finished game the
// session moves straight to ended and the join error is returned.
func (s *Session) Join(ctx context.Context, playerID model.PlayerID, name string) (*model.Player, error) {
	s.mu.Lock()
	if s.state == SessionEnded {
		s.mu.Unlock()
		return nil, model.ErrGameFinished
	}
	prev := s.state
	s.state = SessionJoining
	s.mu.Unlock()

	player, err := s.controller.Join(ctx, s.gameID, playerID, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.state == SessionJoining {
			s.state = prev
		}
		return nil, err
	}
	s.playerID = playerID
	if s.state != SessionEnded {
		s.state = SessionActive
	}
	return player, nil
}

// PlayerID returns the joined player's id, or empty for spectators
func (s *Session) PlayerID() model.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerID
}

// Close tears down the session's subscriptions and closes the event
// feed. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		for _, cancel := range s.cancels {
			cancel()
		}
	})
}

func (s *Session) pump(gameCh <-chan *model.Game, playersCh <-chan []*model.Player) {
	defer close(s.events)

	ended := s.State() == SessionEnded
	for gameCh != nil || playersCh != nil {
		select {
		case <-s.done:
			return
		case game, ok := <-gameCh:
			if !ok {
				gameCh = nil
				continue
			}
			if !s.emit(model.Event{
				Type:      model.EventGameUpdated,
				Timestamp: s.controller.clock.Now(),
				GameID:    s.gameID,
				Payload:   model.GameUpdatedPayload{Game: game},
			}) {
				return
			}
			if game.Finished() && !ended {
				ended = true
				s.mu.Lock()
				s.state = SessionEnded
				s.mu.Unlock()
				if !s.emit(model.Event{
					Type:      model.EventWinnerDeclared,
					Timestamp: s.controller.clock.Now(),
					GameID:    s.gameID,
					Payload: model.WinnerDeclaredPayload{
						WinnerID:   game.WinnerID,
						WinnerName: game.WinnerName,
					},
				}) {
					return
				}
			}
		case players, ok := <-playersCh:
			if !ok {
				playersCh = nil
				continue
			}
			if !s.emit(model.Event{
				Type:      model.EventPlayersUpdated,
				Timestamp: s.controller.clock.Now(),
				GameID:    s.gameID,
				Payload:   model.PlayersUpdatedPayload{Players: players},
			}) {
				return
			}
		}
	}
}

func (s *Session) emit(event model.Event) bool {
	select {
	case s.events <- event:
		return true
	case <-s.done:
		return false
	}
}
