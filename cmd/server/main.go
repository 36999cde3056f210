package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nisim1010/Bingo-Game/internal/api"
	"github.com/nisim1010/Bingo-Game/internal/config"
	"github.com/nisim1010/Bingo-Game/internal/factory"
)

func main() {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("BINGO_CONFIG"), "path to config file")
	flag.Parse()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	// Build factory config
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := cfg.Redis
		factoryCfg.RedisConfig = &redisCfg
	}
	if cfg.Archive.Enabled {
		archiveCfg := cfg.Archive.Postgres
		factoryCfg.ArchiveConfig = &archiveCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Store:              app.Storage,
		Clock:              app.Clock,
		GameController:     app.GameController,
		LeaderboardService: app.LeaderboardService,
		Projector:          app.Projector,
		PublicBaseURL:      cfg.Server.PublicBaseURL,
		LeaderboardSize:    cfg.Leaderboard.Size,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Server.Addr()
	serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	serverConfig.WriteTimeout = cfg.Server.WriteTimeout
	serverConfig.IdleTimeout = cfg.Server.IdleTimeout
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
