package leaderboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// Archive receives durable copies of finished games. It is optional;
// a nil archive disables archiving without affecting the leaderboard.
type Archive interface {
	RecordWin(ctx context.Context, rec WinRecord) error
}

// WinRecord describes a finished game for the archive.
type WinRecord struct {
	GameID      model.GameID
	WinnerID    model.PlayerID
	WinnerName  string
	Score       int
	PlayerCount int
	WonAt       time.Time
}

// Service maintains the global wins-per-player leaderboard
type Service struct {
	store   storage.Store
	archive Archive
	logger  *slog.Logger
}

// New creates a new leaderboard Service. archive may be nil.
func New(store storage.Store, archive Archive, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		archive: archive,
		logger:  logger.With(slog.String("component", "leaderboard")),
	}
}

// RecordWin increments the winner's win count, creating the entry if
// this is their first win, and refreshes their display name. The
// archive write is best-effort: a failure there is logged and does not
// undo the leaderboard update.
func (s *Service) RecordWin(ctx context.Context, rec WinRecord) (*model.LeaderboardEntry, error) {
	err := s.store.UpdateLeaderboardEntry(ctx, rec.WinnerID, func(entry *model.LeaderboardEntry) error {
		entry.PlayerID = rec.WinnerID
		entry.DisplayName = rec.WinnerName
		entry.Wins++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		if err := s.archive.RecordWin(ctx, rec); err != nil {
			s.logger.Warn("failed to archive win",
				slog.String("game_id", string(rec.GameID)),
				slog.String("winner_id", string(rec.WinnerID)),
				slog.String("error", err.Error()))
		}
	}

	return s.store.GetLeaderboardEntry(ctx, rec.WinnerID)
}

// Top returns the leaderboard ordered by wins descending. A
// non-positive limit falls back to the default size.
func (s *Service) Top(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = storage.DefaultLeaderboardLimit
	}
	return s.store.TopLeaderboard(ctx, limit)
}

// Entry returns a single player's leaderboard entry.
func (s *Service) Entry(ctx context.Context, id model.PlayerID) (*model.LeaderboardEntry, error) {
	return s.store.GetLeaderboardEntry(ctx, id)
}

// Interface for dependency injection
type ServiceInterface interface {
	RecordWin(ctx context.Context, rec WinRecord) (*model.LeaderboardEntry, error)
	Top(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	Entry(ctx context.Context, id model.PlayerID) (*model.LeaderboardEntry, error)
}

var _ ServiceInterface = (*Service)(nil)
