package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nisim1010/Bingo-Game/internal/model"
)

// Archive keeps a durable record of finished games in PostgreSQL. The
// live game state lives entirely in the primary store; the archive is
// append-only history and the rest of the system works without it.
type Archive struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

type Config struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConnections  int           `yaml:"max_connections"`
	MinConnections  int           `yaml:"min_connections"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
}

func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            5432,
		User:            "bingo",
		Database:        "bingo",
		SSLMode:         "disable",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: time.Hour,
	}
}

func (c Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Archive, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Archive{
		pool:   pool,
		logger: logger.With(slog.String("component", "archive")),
	}, nil
}

func (a *Archive) Close() {
	a.pool.Close()
}

// RunMigrations creates the archive schema if it does not exist yet.
func (a *Archive) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS game_wins (
			id BIGSERIAL PRIMARY KEY,
			game_id VARCHAR(32) NOT NULL,
			winner_id VARCHAR(64) NOT NULL,
			winner_name VARCHAR(255) NOT NULL,
			score BIGINT NOT NULL,
			player_count INT NOT NULL,
			won_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_wins_winner ON game_wins(winner_id, won_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_game_wins_game ON game_wins(game_id)`,
	}

	for _, migration := range migrations {
		if _, err := a.pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	a.logger.Info("archive migrations completed")
	return nil
}

// WinRecord is one archived game outcome.
type WinRecord struct {
	GameID      model.GameID
	WinnerID    model.PlayerID
	WinnerName  string
	Score       int
	PlayerCount int
	WonAt       time.Time
}

func (a *Archive) RecordWin(ctx context.Context, rec WinRecord) error {
	query := `
		INSERT INTO game_wins (game_id, winner_id, winner_name, score, player_count, won_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := a.pool.Exec(ctx, query,
		string(rec.GameID),
		string(rec.WinnerID),
		rec.WinnerName,
		rec.Score,
		rec.PlayerCount,
		rec.WonAt,
	)
	if err != nil {
		return fmt.Errorf("recording win: %w", err)
	}
	return nil
}

// WinsForPlayer returns a player's archived wins, most recent first.
func (a *Archive) WinsForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]WinRecord, error) {
	query := `
		SELECT game_id, winner_id, winner_name, score, player_count, won_at
		FROM game_wins
		WHERE winner_id = $1
		ORDER BY won_at DESC
		LIMIT $2
	`
	rows, err := a.pool.Query(ctx, query, string(playerID), limit)
	if err != nil {
		return nil, fmt.Errorf("listing wins: %w", err)
	}
	defer rows.Close()

	var records []WinRecord
	for rows.Next() {
		var rec WinRecord
		var gameID, winnerID string
		if err := rows.Scan(&gameID, &winnerID, &rec.WinnerName, &rec.Score, &rec.PlayerCount, &rec.WonAt); err != nil {
			return nil, fmt.Errorf("scanning win: %w", err)
		}
		rec.GameID = model.GameID(gameID)
		rec.WinnerID = model.PlayerID(winnerID)
		records = append(records, rec)
	}
	return records, nil
}
