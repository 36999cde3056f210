package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nisim1010/Bingo-Game/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeGameFinished     = "GAME_FINISHED"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeEntryNotFound    = "ENTRY_NOT_FOUND"
	CodeNotEnoughPhrases = "NOT_ENOUGH_PHRASES"
	CodeNotEnoughRare    = "NOT_ENOUGH_RARE_PHRASES"
	CodeInvalidCell      = "INVALID_CELL"
	CodeInvalidPhrase    = "INVALID_PHRASE_INDEX"
	CodeEmptyName        = "EMPTY_NAME"
	CodeNotClaimant      = "NOT_CLAIMANT"
	CodeConflict         = "CONFLICT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found in this game"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrEntryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEntryNotFound, "No leaderboard entry for this player"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game has already finished"}}
	case errors.Is(err, model.ErrNotEnoughPhrases):
		return &httpError{http.StatusBadRequest, APIError{CodeNotEnoughPhrases, "At least 25 distinct common phrases are required"}}
	case errors.Is(err, model.ErrNotEnoughRare):
		return &httpError{http.StatusBadRequest, APIError{CodeNotEnoughRare, "At least 5 distinct rare phrases are required"}}
	case errors.Is(err, model.ErrInvalidCell):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCell, "Cell coordinates must be within the 5x5 grid"}}
	case errors.Is(err, model.ErrInvalidPhraseIndex):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPhrase, "Rare phrase index out of range"}}
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyName, "Display name must not be empty"}}
	case errors.Is(err, model.ErrNotClaimant):
		return &httpError{http.StatusForbidden, APIError{CodeNotClaimant, "Only the claimant can release a claim"}}
	case errors.Is(err, model.ErrTransactionConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Too much contention, try again"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
