package factory

import (
	"fmt"
	"time"

	"github.com/nisim1010/Bingo-Game/internal/dependencies/mocks"
	"github.com/nisim1010/Bingo-Game/internal/storage/memory"
	"github.com/nisim1010/Bingo-Game/internal/testutil"
)

// TestApp wraps App with mock dependencies exposed for test control
type TestApp struct {
	*App
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App backed by in-memory storage and mock
// clock/random dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(memory.New(), mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestCommonPhrases returns n distinct phrases for seeding game boards
func TestCommonPhrases(n int) []string {
	phrases := make([]string, n)
	for i := range phrases {
		phrases[i] = fmt.Sprintf("common phrase %02d", i)
	}
	return phrases
}

// TestRarePhrases returns n distinct rare phrases
func TestRarePhrases(n int) []string {
	phrases := make([]string, n)
	for i := range phrases {
		phrases[i] = fmt.Sprintf("rare phrase %02d", i)
	}
	return phrases
}
