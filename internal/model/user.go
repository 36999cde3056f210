package model

import "time"

// User holds the per-identity record the game core touches: the set
// of games the identity is currently participating in. Friend graphs
// and invites live elsewhere.
type User struct {
	ID          PlayerID
	DisplayName string
	ActiveGames []GameID
	CreatedAt   time.Time
}

// HasActiveGame reports whether the game id is in the active set
func (u *User) HasActiveGame(id GameID) bool {
	for _, g := range u.ActiveGames {
		if g == id {
			return true
		}
	}
	return false
}

// AddActiveGame adds the game id with set semantics
func (u *User) AddActiveGame(id GameID) {
	if u.HasActiveGame(id) {
		return
	}
	u.ActiveGames = append(u.ActiveGames, id)
}

// RemoveActiveGame removes the game id; removing an absent id is a
// no-op
func (u *User) RemoveActiveGame(id GameID) {
	for i, g := range u.ActiveGames {
		if g == id {
			u.ActiveGames = append(u.ActiveGames[:i], u.ActiveGames[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	cp := *u
	cp.ActiveGames = make([]GameID, len(u.ActiveGames))
	copy(cp.ActiveGames, u.ActiveGames)
	return &cp
}
