package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nisim1010/Bingo-Game/internal/api/handler"
	"github.com/nisim1010/Bingo-Game/internal/dependencies/clock"
	"github.com/nisim1010/Bingo-Game/internal/live"
	"github.com/nisim1010/Bingo-Game/internal/middleware"
	"github.com/nisim1010/Bingo-Game/internal/services/game"
	"github.com/nisim1010/Bingo-Game/internal/services/leaderboard"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Store              storage.Store
	Clock              clock.Clock
	GameController     game.ControllerInterface
	LeaderboardService leaderboard.ServiceInterface
	Projector          *live.Projector
	PublicBaseURL      string
	LeaderboardSize    int
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Projector, cfg.PublicBaseURL)
	identityHandler := handler.NewIdentityHandler(cfg.Store, cfg.Clock)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.Projector, cfg.LeaderboardSize)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	api.Use(middleware.Logging(cfg.Logger))

	// Identity routes
	api.HandleFunc("/identity/guest", identityHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", identityHandler.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/games", identityHandler.ActiveGames).Methods(http.MethodGet)

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.Recent).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/players", gameHandler.Players).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/players/{player_id}", gameHandler.GetPlayer).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/toggle", gameHandler.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/rare/{index}/claim", gameHandler.Claim).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/rare/{index}/claim", gameHandler.Unclaim).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/bingo", gameHandler.Bingo).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/link", gameHandler.JoinLink).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/qr", gameHandler.QR).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	// Leaderboard routes
	api.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/events", leaderboardHandler.Events).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/{player_id}", leaderboardHandler.Entry).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
