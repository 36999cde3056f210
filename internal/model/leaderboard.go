package model

// LeaderboardEntry records career wins for one identity.
// Wins only ever increases; DisplayName tracks the name used for the
// most recent win.
type LeaderboardEntry struct {
	PlayerID    PlayerID
	DisplayName string
	Wins        int
}

// Clone returns a copy of the entry
func (e *LeaderboardEntry) Clone() *LeaderboardEntry {
	cp := *e
	return &cp
}
