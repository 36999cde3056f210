package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nisim1010/Bingo-Game/internal/api/response"
	"github.com/nisim1010/Bingo-Game/internal/live"
	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/services/leaderboard"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	service   leaderboard.ServiceInterface
	projector *live.Projector
	size      int
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service leaderboard.ServiceInterface, projector *live.Projector, size int) *LeaderboardHandler {
	return &LeaderboardHandler{
		service:   service,
		projector: projector,
		size:      size,
	}
}

// Top handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := h.size
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.Top(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}

// Entry handles GET /api/v1/leaderboard/{player_id}
func (h *LeaderboardHandler) Entry(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	entry, err := h.service.Entry(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel([]*model.LeaderboardEntry{entry})[0])
}

// Events handles GET /api/v1/leaderboard/events, an SSE stream of
// leaderboard snapshots
func (h *LeaderboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	hub, err := h.projector.LeaderboardHub(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	live.ServeSSE(w, r, hub, model.PlayerID(r.Header.Get(PlayerHeader)))
}
