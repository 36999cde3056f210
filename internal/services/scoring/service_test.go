package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nisim1010/Bingo-Game/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

// Helper to build a mark grid from rows of 'T'/'F' (or '.' for unmarked)
func (s *ServiceSuite) grid(rows ...string) model.MarkGrid {
	s.Require().Len(rows, model.GridSize)
	marked := model.NewMarkGrid()
	for row, line := range rows {
		s.Require().Len(line, model.GridSize)
		for col, c := range line {
			if c == 'T' {
				marked.Toggle(row, col)
			}
		}
	}
	return marked
}

// Score tests

func (s *ServiceSuite) TestScoreEmptyGrid() {
	marked := s.grid(
		".....",
		".....",
		".....",
		".....",
		".....",
	)

	s.Equal(0, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreSingleCell() {
	marked := s.grid(
		".....",
		"..T..",
		".....",
		".....",
		".....",
	)

	s.Equal(100, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreHorizontalPair() {
	marked := s.grid(
		".....",
		".TT..",
		".....",
		".....",
		".....",
	)

	// Two cells plus one adjacency
	s.Equal(250, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreVerticalPair() {
	marked := s.grid(
		".T...",
		".T...",
		".....",
		".....",
		".....",
	)

	s.Equal(250, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreDiagonalNoAdjacency() {
	marked := s.grid(
		"T....",
		".T...",
		".....",
		".....",
		".....",
	)

	// Diagonal neighbors do not count as adjacent
	s.Equal(200, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreSquareCluster() {
	marked := s.grid(
		"TT...",
		"TT...",
		".....",
		".....",
		".....",
	)

	// 4 cells, 2 horizontal + 2 vertical adjacencies
	s.Equal(600, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreFullRow() {
	marked := s.grid(
		".....",
		".....",
		"TTTTT",
		".....",
		".....",
	)

	// 5 cells, 4 adjacencies
	s.Equal(700, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreFullGrid() {
	marked := s.grid(
		"TTTTT",
		"TTTTT",
		"TTTTT",
		"TTTTT",
		"TTTTT",
	)

	// 25 cells, 20 horizontal + 20 vertical adjacencies
	s.Equal(25*CellScore+40*AdjacencyScore, s.service.Score(marked))
}

func (s *ServiceSuite) TestScoreScatteredBeatenByCluster() {
	scattered := s.grid(
		"T.T.T",
		".....",
		"T.T.T",
		".....",
		"T.T.T",
	)
	clustered := s.grid(
		"TTT..",
		"TTT..",
		"TTT..",
		".....",
		".....",
	)

	s.Greater(s.service.Score(clustered), s.service.Score(scattered))
}

// HasWin tests

func (s *ServiceSuite) TestHasWinEmptyGrid() {
	marked := s.grid(
		".....",
		".....",
		".....",
		".....",
		".....",
	)

	s.False(s.service.HasWin(marked))
}

func (s *ServiceSuite) TestHasWinEveryRow() {
	for row := 0; row < model.GridSize; row++ {
		marked := model.NewMarkGrid()
		for col := 0; col < model.GridSize; col++ {
			marked.Toggle(row, col)
		}
		s.True(s.service.HasWin(marked), "row %d", row)
	}
}

func (s *ServiceSuite) TestHasWinEveryColumn() {
	for col := 0; col < model.GridSize; col++ {
		marked := model.NewMarkGrid()
		for row := 0; row < model.GridSize; row++ {
			marked.Toggle(row, col)
		}
		s.True(s.service.HasWin(marked), "column %d", col)
	}
}

func (s *ServiceSuite) TestHasWinMainDiagonal() {
	marked := s.grid(
		"T....",
		".T...",
		"..T..",
		"...T.",
		"....T",
	)

	s.True(s.service.HasWin(marked))
}

func (s *ServiceSuite) TestHasWinAntiDiagonal() {
	marked := s.grid(
		"....T",
		"...T.",
		"..T..",
		".T...",
		"T....",
	)

	s.True(s.service.HasWin(marked))
}

func (s *ServiceSuite) TestHasWinAlmostRow() {
	marked := s.grid(
		"TTTT.",
		".....",
		".....",
		".....",
		".....",
	)

	s.False(s.service.HasWin(marked))
}

func (s *ServiceSuite) TestHasWinBrokenDiagonal() {
	marked := s.grid(
		"T....",
		".T...",
		".....",
		"...T.",
		"....T",
	)

	s.False(s.service.HasWin(marked))
}

func (s *ServiceSuite) TestHasWinDenseWithoutLine() {
	marked := s.grid(
		"TTTT.",
		"T..TT",
		".TT.T",
		"TT..T",
		".TTT.",
	)

	s.False(s.service.HasWin(marked))
}
