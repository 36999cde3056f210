package card

import (
	"strings"

	"github.com/nisim1010/Bingo-Game/internal/dependencies/random"
	"github.com/nisim1010/Bingo-Game/internal/model"
)

// Service generates bingo cards from a game's phrase pool
type Service struct {
	random random.Random
}

// New creates a new card generator
func New(random random.Random) *Service {
	return &Service{
		random: random,
	}
}

// Generate builds a card by drawing 25 distinct phrases from the pool,
// uniformly at random, laid out row by row. The pool is deduplicated
// first; a pool with fewer than 25 distinct phrases is rejected with
// ErrNotEnoughPhrases.
func (s *Service) Generate(pool []string) (model.Card, error) {
	phrases := Dedupe(pool)
	if len(phrases) < model.CardCellCount {
		return model.Card{}, model.ErrNotEnoughPhrases
	}

	perm := s.random.Perm(len(phrases))

	var card model.Card
	for i := 0; i < model.CardCellCount; i++ {
		card[i/model.GridSize][i%model.GridSize] = phrases[perm[i]]
	}
	return card, nil
}

// Dedupe returns the pool with blank entries dropped and duplicates
// removed, preserving first-occurrence order. Phrases are compared
// after trimming surrounding whitespace.
func Dedupe(pool []string) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, phrase := range pool {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		if _, ok := seen[phrase]; ok {
			continue
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}
	return out
}

// Interface for dependency injection
type ServiceInterface interface {
	Generate(pool []string) (model.Card, error)
}

var _ ServiceInterface = (*Service)(nil)
