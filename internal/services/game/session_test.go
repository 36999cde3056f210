package game

import (
	"context"
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

const eventTimeout = 2 * time.Second

type SessionSuite struct {
	suite.Suite
	store      *memory.Storage
	random     *mocks.MockRandom
	controller *Controller
	game       *model.Game
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.store = memory.New()
	s.random = mocks.NewMockRandom()
	s.controller = NewController(
		s.store,
		card.New(s.random),
		scoring.New(),
		leaderboard.New(s.store, nil, logger),
		cleanup.New(s.store, logger),
		mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		s.random,
		logger,
	)

	s.random.QueueString("GAME01")
	common := make([]string, 25)
	for i := range common {
		common[i] = string(rune('a'+i/5)) + string(rune('0'+i%5))
	}
	rare := []string{"r0", "r1", "r2", "r3", "r4"}
	var err error
	s.game, err = s.controller.CreateGame(context.Background(), "creator", common, rare)
	s.Require().NoError(err)
}

// waitFor drains the session feed until an event of the wanted type
// arrives
func (s *SessionSuite) waitFor(session *Session, want model.EventType) model.Event {
	deadline := time.After(eventTimeout)
	for {
		select {
		case event, ok := <-session.Events():
			s.Require().True(ok, "event feed closed while waiting for %s", want)
			if event.Type == want {
				return event
			}
		case <-deadline:
			s.Require().FailNowf("timeout", "no %s event within %s", want, eventTimeout)
		}
	}
}

func (s *SessionSuite) TestOpenSessionUnknownGame() {
	_, err := s.controller.OpenSession(context.Background(), "MISSING")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *SessionSuite) TestInitialSnapshots() {
	session, err := s.controller.OpenSession(context.Background(), s.game.ID)
	s.Require().NoError(err)
	defer session.Close()

	s.Equal(SessionUnjoined, session.State())

	event := s.waitFor(session, model.EventGameUpdated)
	payload, ok := event.Payload.(model.GameUpdatedPayload)
	s.Require().True(ok)
	s.Equal(s.game.ID, payload.Game.ID)

	event = s.waitFor(session, model.EventPlayersUpdated)
	players, ok := event.Payload.(model.PlayersUpdatedPayload)
	s.Require().True(ok)
	s.Empty(players.Players)
}

func (s *SessionSuite) TestJoinThroughSession() {
	ctx := context.Background()
	session, err := s.controller.OpenSession(ctx, s.game.ID)
	s.Require().NoError(err)
	defer session.Close()

	player, err := session.Join(ctx, "alice", "Alice")
	s.Require().NoError(err)
	s.Equal("Alice", player.Name)
	s.Equal(SessionActive, session.State())
	s.Equal(model.PlayerID("alice"), session.PlayerID())

	// The join shows up on the roster stream
	for {
		event := s.waitFor(session, model.EventPlayersUpdated)
		payload := event.Payload.(model.PlayersUpdatedPayload)
		if len(payload.Players) == 1 {
			s.Equal(model.PlayerID("alice"), payload.Players[0].ID)
			return
		}
	}
}

func (s *SessionSuite) TestRosterChangesFlow() {
	ctx := context.Background()
	session, err := s.controller.OpenSession(ctx, s.game.ID)
	s.Require().NoError(err)
	defer session.Close()

	_, err = s.controller.Join(ctx, s.game.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.ToggleCell(ctx, s.game.ID, "alice", 0, 0)
	s.Require().NoError(err)

	// Eventually a roster snapshot carries the marked cell
	deadline := time.After(eventTimeout)
	for {
		select {
		case event := <-session.Events():
			payload, ok := event.Payload.(model.PlayersUpdatedPayload)
			if !ok || len(payload.Players) == 0 {
				continue
			}
			if payload.Players[0].Marked.Marked(0, 0) {
				s.Equal(100, payload.Players[0].Score)
				return
			}
		case <-deadline:
			s.FailNow("no roster snapshot with the marked cell")
		}
	}
}

func (s *SessionSuite) TestWinnerEndsSession() {
	ctx := context.Background()
	session, err := s.controller.OpenSession(ctx, s.game.ID)
	s.Require().NoError(err)
	defer session.Close()

	_, err = s.controller.Join(ctx, s.game.ID, "alice", "Alice")
	s.Require().NoError(err)
	for col := 0; col < model.GridSize; col++ {
		_, err = s.controller.ToggleCell(ctx, s.game.ID, "alice", 0, col)
		s.Require().NoError(err)
	}
	result, err := s.controller.CheckBingo(ctx, s.game.ID, "alice")
	s.Require().NoError(err)
	s.Require().True(result.Bingo)

	event := s.waitFor(session, model.EventWinnerDeclared)
	payload, ok := event.Payload.(model.WinnerDeclaredPayload)
	s.Require().True(ok)
	s.Equal(model.PlayerID("alice"), payload.WinnerID)
	s.Equal("Alice", payload.WinnerName)
	s.Equal(SessionEnded, session.State())

	// A finished game cannot be joined through the session
	_, err = session.Join(ctx, "bob", "Bob")
	s.ErrorIs(err, model.ErrGameFinished)
}

func (s *SessionSuite) TestOpenSessionOnFinishedGame() {
	ctx := context.Background()
	_, err := s.controller.Join(ctx, s.game.ID, "alice", "Alice")
	s.Require().NoError(err)
	for col := 0; col < model.GridSize; col++ {
		_, err = s.controller.ToggleCell(ctx, s.game.ID, "alice", 0, col)
		s.Require().NoError(err)
	}
	_, err = s.controller.CheckBingo(ctx, s.game.ID, "alice")
	s.Require().NoError(err)

	session, err := s.controller.OpenSession(ctx, s.game.ID)
	s.Require().NoError(err)
	defer session.Close()

	s.Equal(SessionEnded, session.State())

	// The initial snapshot still flows for late viewers
	event := s.waitFor(session, model.EventGameUpdated)
	payload := event.Payload.(model.GameUpdatedPayload)
	s.True(payload.Game.Finished())
}

func (s *SessionSuite) TestCloseIsIdempotent() {
	session, err := s.controller.OpenSession(context.Background(), s.game.ID)
	s.Require().NoError(err)

	session.Close()
	session.Close()

	// The feed drains and closes
	deadline := time.After(eventTimeout)
	for {
		select {
		case _, ok := <-session.Events():
			if !ok {
				return
			}
		case <-deadline:
			s.FailNow("event feed did not close")
		}
	}
}
