package model

import (
	"strings"
	"time"
)

// PlayerID uniquely identifies a participant across the system
type PlayerID string

// Card is a player's private 5x5 grid of phrases, row-major
type Card [GridSize][GridSize]string

// Phrases returns the card's cells flattened in row-major order
func (c Card) Phrases() []string {
	out := make([]string, 0, CardCellCount)
	for _, row := range c {
		out = append(out, row[:]...)
	}
	return out
}

// Marked cell flag characters. Marked grids serialize as five rows
// of five flag characters, e.g. "TTFFF".
const (
	flagMarked   = 'T'
	flagUnmarked = 'F'
)

// MarkGrid tracks which cells of a card are marked, one flag string
// per row
type MarkGrid [GridSize]string

// NewMarkGrid returns an all-unmarked grid
func NewMarkGrid() MarkGrid {
	var m MarkGrid
	for i := range m {
		m[i] = strings.Repeat(string(flagUnmarked), GridSize)
	}
	return m
}

// ValidCell reports whether the coordinates are on the grid
func ValidCell(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

// Marked returns true if the cell at (row, col) is marked
func (m MarkGrid) Marked(row, col int) bool {
	if !ValidCell(row, col) {
		return false
	}
	return m[row][col] == flagMarked
}

// Toggle flips the mark at (row, col)
func (m *MarkGrid) Toggle(row, col int) {
	if !ValidCell(row, col) {
		return
	}
	flags := []byte(m[row])
	if flags[col] == flagMarked {
		flags[col] = flagUnmarked
	} else {
		flags[col] = flagMarked
	}
	m[row] = string(flags)
}

// Player represents one participant's state within one game.
// Created on first join; the card never changes afterwards.
type Player struct {
	GameID GameID
	ID     PlayerID
	Name   string

	Card   Card
	Marked MarkGrid

	// Score is the player's total: the marked-cell component plus
	// Bonus, floored at zero. Bonus accumulates rare-phrase claims
	// and the win bonus so that recomputing the marked component on
	// a toggle never erases them.
	Score int
	Bonus int

	JoinedAt time.Time
}

// Clone returns a copy of the player. Card and MarkGrid are value
// types, so a shallow copy is a deep one.
func (p *Player) Clone() *Player {
	cp := *p
	return &cp
}
