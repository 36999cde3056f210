package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/nisim1010/Bingo-Game/internal/api/request"
	"github.com/nisim1010/Bingo-Game/internal/api/response"
	"github.com/nisim1010/Bingo-Game/internal/live"
	"github.com/nisim1010/Bingo-Game/internal/model"
	"github.com/nisim1010/Bingo-Game/internal/services/game"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
	qrImageSize        = 256
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	controller    game.ControllerInterface
	projector     *live.Projector
	publicBaseURL string
}

// NewGameHandler creates a new game handler. projector may be nil,
// which disables the SSE endpoint.
func NewGameHandler(controller game.ControllerInterface, projector *live.Projector, publicBaseURL string) *GameHandler {
	return &GameHandler{
		controller:    controller,
		projector:     projector,
		publicBaseURL: publicBaseURL,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	// The creator header is optional here; anonymous creation is
	// allowed
	creatorID := model.PlayerID(r.Header.Get(PlayerHeader))

	g, err := h.controller.CreateGame(r.Context(), creatorID, req.CommonPhrases, req.RarePhrases)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.controller.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Recent handles GET /api/v1/games
func (h *GameHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = min(parsed, maxRecentLimit)
	}

	games, err := h.controller.RecentGames(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries := make([]response.GameSummary, len(games))
	for i, g := range games {
		summaries[i] = response.GameSummaryFromModel(g)
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])
	playerID, err := callerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.controller.Join(r.Context(), id, playerID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Players handles GET /api/v1/games/{id}/players
func (h *GameHandler) Players(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	// 404 for unknown games rather than an empty roster
	if _, err := h.controller.GetGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	players, err := h.controller.Players(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// GetPlayer handles GET /api/v1/games/{id}/players/{player_id}
func (h *GameHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := model.GameID(vars["id"])
	playerID := model.PlayerID(vars["player_id"])

	player, err := h.controller.GetPlayer(r.Context(), id, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Toggle handles POST /api/v1/games/{id}/toggle
func (h *GameHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])
	playerID, err := callerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.controller.ToggleCell(r.Context(), id, playerID, req.Row, req.Col)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Claim handles POST /api/v1/games/{id}/rare/{index}/claim
func (h *GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, index, playerID, err := h.rarePhraseParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	outcome, err := h.controller.ClaimRarePhrase(r.Context(), id, playerID, index)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClaimFromOutcome(outcome))
}

// Unclaim handles DELETE /api/v1/games/{id}/rare/{index}/claim
func (h *GameHandler) Unclaim(w http.ResponseWriter, r *http.Request) {
	id, index, playerID, err := h.rarePhraseParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.controller.UnclaimRarePhrase(r.Context(), id, playerID, index); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *GameHandler) rarePhraseParams(r *http.Request) (model.GameID, int, model.PlayerID, error) {
	vars := mux.Vars(r)
	id := model.GameID(vars["id"])
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		return "", 0, "", NewInvalidRequestError("index must be an integer")
	}
	playerID, err := callerID(r)
	if err != nil {
		return "", 0, "", err
	}
	return id, index, playerID, nil
}

// Bingo handles POST /api/v1/games/{id}/bingo
func (h *GameHandler) Bingo(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])
	playerID, err := callerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.controller.CheckBingo(r.Context(), id, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BingoFromResult(result))
}

// JoinLink handles GET /api/v1/games/{id}/link
func (h *GameHandler) JoinLink(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	if _, err := h.controller.GetGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinLink{
		GameID: string(id),
		URL:    h.joinURL(id),
		QRURL:  fmt.Sprintf("%s/api/v1/games/%s/qr", h.publicBaseURL, id),
	})
}

// QR handles GET /api/v1/games/{id}/qr, serving the join link as a
// scannable PNG
func (h *GameHandler) QR(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	if _, err := h.controller.GetGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	png, err := qrcode.Encode(h.joinURL(id), qrcode.Medium, qrImageSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.PNG(w, png)
}

func (h *GameHandler) joinURL(id model.GameID) string {
	return fmt.Sprintf("%s/join/%s", h.publicBaseURL, id)
}

// Events handles GET /api/v1/games/{id}/events, an SSE stream of
// game and roster snapshots
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	if _, err := h.controller.GetGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	hub, err := h.projector.GameHub(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Spectators connect without an identity header
	live.ServeSSE(w, r, hub, model.PlayerID(r.Header.Get(PlayerHeader)))
}
