package handler

import (
	"net/http"

	"github.com/nisim1010/Bingo-Game/internal/api/apierr"
	"github.com/nisim1010/Bingo-Game/internal/model"
)

// PlayerHeader carries the caller's identity on requests that act as
// a specific player
const PlayerHeader = "X-Player-ID"

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// callerID extracts the acting player's id from the request header
func callerID(r *http.Request) (model.PlayerID, error) {
	id := r.Header.Get(PlayerHeader)
	if id == "" {
		return "", apierr.NewInvalidRequestError(PlayerHeader + " header is required")
	}
	return model.PlayerID(id), nil
}
