package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound       = errors.New("game not found")
	ErrGameFinished       = errors.New("game already has a winner")
	ErrNotEnoughPhrases   = errors.New("need at least 25 common phrases")
	ErrNotEnoughRare      = errors.New("need at least 5 rare phrases")
	ErrInvalidPhraseIndex = errors.New("rare phrase index out of range")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidCell    = errors.New("cell coordinates out of range")
	ErrEmptyName      = errors.New("display name must not be empty")

	// Claim errors. ErrPhraseClaimed is an expected race outcome,
	// not a failure; callers surface it as "too late".
	ErrPhraseClaimed = errors.New("rare phrase already claimed")
	ErrNotClaimant   = errors.New("rare phrase is claimed by someone else")

	// Leaderboard errors
	ErrEntryNotFound = errors.New("leaderboard entry not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Store errors
	ErrTransactionConflict = errors.New("transaction retries exhausted")
)
