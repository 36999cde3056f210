package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nisim1010/Bingo-Game/internal/api/request"
	"github.com/nisim1010/Bingo-Game/internal/api/response"
	"github.com/nisim1010/Bingo-Game/internal/dependencies/clock"
	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/storage"
)

// IdentityHandler issues guest identities and serves user state
type IdentityHandler struct {
	store storage.Store
	clock clock.Clock
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(store storage.Store, clock clock.Clock) *IdentityHandler {
	return &IdentityHandler{
		store: store,
		clock: clock,
	}
}

// CreateGuest handles POST /api/v1/identity/guest. Identities are
// anonymous: a random id the client keeps and presents on later
// requests. There is no password and no recovery.
func (h *IdentityHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		WriteError(w, model.ErrEmptyName)
		return
	}

	user := &model.User{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: name,
		CreatedAt:   h.clock.Now(),
	}
	if err := h.store.SaveUser(r.Context(), user); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Identity{
		PlayerID:    string(user.ID),
		DisplayName: user.DisplayName,
	})
}

// GetUser handles GET /api/v1/users/{id}
func (h *IdentityHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// ActiveGames handles GET /api/v1/users/{id}/games, resolving the
// user's active-game list into game summaries. Games that vanished
// from the store are silently skipped.
func (h *IdentityHandler) ActiveGames(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries := make([]response.GameSummary, 0, len(user.ActiveGames))
	for _, gameID := range user.ActiveGames {
		game, err := h.store.GetGame(r.Context(), gameID)
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				continue
			}
			WriteError(w, err)
			return
		}
		summaries = append(summaries, response.GameSummaryFromModel(game))
	}

	response.JSON(w, http.StatusOK, summaries)
}
