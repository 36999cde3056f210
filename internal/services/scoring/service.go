package scoring

import (
	"github.com/nisim1010/Bingo-Game/internal/model"
)

// Scoring constants. A marked cell is worth CellScore; every pair of
// marked cells adjacent horizontally or vertically adds AdjacencyScore
// on top, so dense clusters outscore scattered marks.
const (
	CellScore       = 100
	AdjacencyScore  = 50
	RarePhraseBonus = 300
	WinBonus        = 1000
)

// Service computes scores and win states from a player's mark grid
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Score returns the marked-cell component of a player's score: CellScore
// per marked cell plus AdjacencyScore per horizontally or vertically
// adjacent pair of marked cells. Bonuses are tracked separately.
func (s *Service) Score(marked model.MarkGrid) int {
	score := 0
	for row := 0; row < model.GridSize; row++ {
		for col := 0; col < model.GridSize; col++ {
			if !marked.Marked(row, col) {
				continue
			}
			score += CellScore
			if col+1 < model.GridSize && marked.Marked(row, col+1) {
				score += AdjacencyScore
			}
			if row+1 < model.GridSize && marked.Marked(row+1, col) {
				score += AdjacencyScore
			}
		}
	}
	return score
}

// HasWin reports whether the grid contains a bingo: a fully marked
// row, column, or main diagonal.
func (s *Service) HasWin(marked model.MarkGrid) bool {
	for i := 0; i < model.GridSize; i++ {
		if s.fullLine(marked, i, 0, 0, 1) {
			return true
		}
		if s.fullLine(marked, 0, i, 1, 0) {
			return true
		}
	}
	if s.fullLine(marked, 0, 0, 1, 1) {
		return true
	}
	return s.fullLine(marked, 0, model.GridSize-1, 1, -1)
}

func (s *Service) fullLine(marked model.MarkGrid, row, col, dRow, dCol int) bool {
	for i := 0; i < model.GridSize; i++ {
		if !marked.Marked(row+i*dRow, col+i*dCol) {
			return false
		}
	}
	return true
}

// Interface for dependency injection
type ServiceInterface interface {
	Score(marked model.MarkGrid) int
	HasWin(marked model.MarkGrid) bool
}

var _ ServiceInterface = (*Service)(nil)
