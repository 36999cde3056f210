package card

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nisim1010/Bingo-Game/internal/dependencies/mocks"
	"github.com/nisim1010/Bingo-Game/internal/model"
)

type GeneratorSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)
}

func (s *GeneratorSuite) phrases(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("phrase-%02d", i)
	}
	return out
}

func (s *GeneratorSuite) TestGenerateExactPool() {
	pool := s.phrases(25)

	card, err := s.service.Generate(pool)
	s.Require().NoError(err)

	// Identity permutation from the mock: pool order, row by row
	s.Equal("phrase-00", card[0][0])
	s.Equal("phrase-04", card[0][4])
	s.Equal("phrase-05", card[1][0])
	s.Equal("phrase-24", card[4][4])
}

func (s *GeneratorSuite) TestGenerateAllCellsDistinct() {
	card, err := s.service.Generate(s.phrases(40))
	s.Require().NoError(err)

	seen := make(map[string]struct{})
	for _, phrase := range card.Phrases() {
		s.NotEmpty(phrase)
		_, dup := seen[phrase]
		s.False(dup, "phrase %q appears twice", phrase)
		seen[phrase] = struct{}{}
	}
	s.Len(seen, model.CardCellCount)
}

func (s *GeneratorSuite) TestGenerateUsesPermutation() {
	perm := make([]int, 25)
	for i := range perm {
		perm[i] = 24 - i
	}
	s.random.QueuePerm(perm)

	card, err := s.service.Generate(s.phrases(25))
	s.Require().NoError(err)

	s.Equal("phrase-24", card[0][0])
	s.Equal("phrase-00", card[4][4])
}

func (s *GeneratorSuite) TestGenerateTooFewPhrases() {
	_, err := s.service.Generate(s.phrases(24))
	s.ErrorIs(err, model.ErrNotEnoughPhrases)
}

func (s *GeneratorSuite) TestGenerateDuplicatesDontCount() {
	pool := s.phrases(20)
	for i := 0; i < 10; i++ {
		pool = append(pool, "phrase-00")
	}

	_, err := s.service.Generate(pool)
	s.ErrorIs(err, model.ErrNotEnoughPhrases)
}

func (s *GeneratorSuite) TestGenerateBlanksDontCount() {
	pool := append(s.phrases(24), "", "   ")

	_, err := s.service.Generate(pool)
	s.ErrorIs(err, model.ErrNotEnoughPhrases)
}

func (s *GeneratorSuite) TestDedupeTrimsAndPreservesOrder() {
	out := Dedupe([]string{" a ", "b", "a", "", "c", "b "})
	s.Equal([]string{"a", "b", "c"}, out)
}
