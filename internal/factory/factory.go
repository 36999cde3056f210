package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/nisim1010/Bingo-Game/internal/dependencies/clock"
	"github.com/nisim1010/Bingo-Game/internal/dependencies/random"
	"github.com/nisim1010/Bingo-Game/internal/live"
	"github.com/nisim1010/Bingo-Game/internal/services/card"
	"github.com/nisim1010/Bingo-Game/internal/services/cleanup"
	"github.com/nisim1010/Bingo-Game/internal/services/game"
	"github.com/nisim1010/Bingo-Game/internal/services/leaderboard"
	"github.com/nisim1010/Bingo-Game/internal/services/scoring"
	"github.com/nisim1010/Bingo-Game/internal/storage"
	"github.com/nisim1010/Bingo-Game/internal/storage/memory"
	"github.com/nisim1010/Bingo-Game/internal/storage/postgres"
	redisstorage "github.com/nisim1010/Bingo-Game/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Store
	Archive *postgres.Archive

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CardService        *card.Service
	ScoringService     *scoring.Service
	LeaderboardService *leaderboard.Service
	CleanupCoordinator *cleanup.Coordinator
	GameController     *game.Controller
	Projector          *live.Projector
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ArchiveConfig enables the PostgreSQL win archive when set
	ArchiveConfig *postgres.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	var archive *postgres.Archive
	if cfg.ArchiveConfig != nil {
		ctx := context.Background()
		var err error
		archive, err = postgres.New(ctx, *cfg.ArchiveConfig, logger)
		if err != nil {
			return nil, err
		}
		if err := archive.RunMigrations(ctx); err != nil {
			archive.Close()
			return nil, err
		}
	}

	app := newWithDependencies(store, clock.New(), random.New(), logger)
	app.Archive = archive
	if archive != nil {
		app.LeaderboardService = leaderboard.New(store, archiveAdapter{archive}, logger)
		app.GameController = game.NewController(
			store,
			app.CardService,
			app.ScoringService,
			app.LeaderboardService,
			app.CleanupCoordinator,
			app.Clock,
			app.Random,
			logger,
		)
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	cardService := card.New(rnd)
	scoringService := scoring.New()
	leaderboardService := leaderboard.New(store, nil, logger)
	cleanupCoordinator := cleanup.New(store, logger)
	gameController := game.NewController(
		store,
		cardService,
		scoringService,
		leaderboardService,
		cleanupCoordinator,
		clk,
		rnd,
		logger,
	)
	projector := live.NewProjector(store, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		CardService:        cardService,
		ScoringService:     scoringService,
		LeaderboardService: leaderboardService,
		CleanupCoordinator: cleanupCoordinator,
		GameController:     gameController,
		Projector:          projector,
	}
}

// archiveAdapter bridges the postgres archive onto the leaderboard
// service's Archive interface
type archiveAdapter struct {
	archive *postgres.Archive
}

func (a archiveAdapter) RecordWin(ctx context.Context, rec leaderboard.WinRecord) error {
	return a.archive.RecordWin(ctx, postgres.WinRecord{
		GameID:      rec.GameID,
		WinnerID:    rec.WinnerID,
		WinnerName:  rec.WinnerName,
		Score:       rec.Score,
		PlayerCount: rec.PlayerCount,
		WonAt:       rec.WonAt,
	})
}

// Close releases every component the factory opened
func (a *App) Close() {
	a.Projector.Close()
	if closer, ok := a.Storage.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if a.Archive != nil {
		a.Archive.Close()
	}
}
