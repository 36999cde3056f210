package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage/memory"
	"github.com/nisim1010/Bingo-Game/internal/testutil"
)

type CoordinatorSuite struct {
	suite.Suite
	store       *memory.Storage
	coordinator *Coordinator
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.store = memory.New()
	s.coordinator = New(s.store, testutil.NopLogger())
}

func (s *CoordinatorSuite) addPlayer(gameID model.GameID, id model.PlayerID, withUser bool) {
	ctx := context.Background()
	err := s.store.SavePlayer(ctx, &model.Player{
		GameID:   gameID,
		ID:       id,
		Name:     string(id),
		Marked:   model.NewMarkGrid(),
		JoinedAt: time.Now(),
	})
	s.Require().NoError(err)
	if withUser {
		s.Require().NoError(s.store.AddActiveGame(ctx, id, gameID))
	}
}

func (s *CoordinatorSuite) TestRunDetachesAllParticipants() {
	ctx := context.Background()
	s.addPlayer("GAME01", "alice", true)
	s.addPlayer("GAME01", "bob", true)

	s.Require().NoError(s.coordinator.Run(ctx, "GAME01"))

	for _, id := range []model.PlayerID{"alice", "bob"} {
		user, err := s.store.GetUser(ctx, id)
		s.Require().NoError(err)
		s.False(user.HasActiveGame("GAME01"))
	}
}

func (s *CoordinatorSuite) TestRunLeavesOtherGamesAttached() {
	ctx := context.Background()
	s.addPlayer("GAME01", "alice", true)
	s.Require().NoError(s.store.AddActiveGame(ctx, "alice", "GAME02"))

	s.Require().NoError(s.coordinator.Run(ctx, "GAME01"))

	user, err := s.store.GetUser(ctx, "alice")
	s.Require().NoError(err)
	s.False(user.HasActiveGame("GAME01"))
	s.True(user.HasActiveGame("GAME02"))
}

func (s *CoordinatorSuite) TestRunSkipsGuestsWithoutUserRecord() {
	s.addPlayer("GAME01", "alice", true)
	s.addPlayer("GAME01", "guest", false)

	s.Require().NoError(s.coordinator.Run(context.Background(), "GAME01"))
}

func (s *CoordinatorSuite) TestRunEmptyGame() {
	s.Require().NoError(s.coordinator.Run(context.Background(), "NOBODY"))
}
