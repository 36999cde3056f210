package mocks

import (
	"github.com/nisim1010/Bingo-Game/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	// PermResults is a queue of results to return from Perm
	PermResults [][]int
	permIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Perm returns the next queued result, or the identity permutation
// if none remaining. The identity default keeps card generation
// deterministic in tests: cards come out in pool order.
func (r *MockRandom) Perm(n int) []int {
	if r.permIndex < len(r.PermResults) {
		result := r.PermResults[r.permIndex]
		r.permIndex++
		return result
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueuePerm adds values to the Perm result queue
func (r *MockRandom) QueuePerm(values ...[]int) {
	r.PermResults = append(r.PermResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.StringResults = nil
	r.stringIndex = 0
	r.PermResults = nil
	r.permIndex = 0
}
