package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/lfg/internal/dependencies/random"
)

// MockRandom hands out queued tokens, then predictable "token-N" values
type MockRandom struct {
	mu     sync.Mutex
	tokens []string
	issued int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued token, or token-N once the queue is empty
func (r *MockRandom) Token(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.issued++
	if len(r.tokens) > 0 {
		t := r.tokens[0]
		r.tokens = r.tokens[1:]
		return t
	}
	return fmt.Sprintf("token-%d", r.issued)
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	r.tokens = append(r.tokens, values...)
	r.mu.Unlock()
}
