package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/judgecore/internal/dependencies/idgen"
)

// MockIDGen is a mock implementation of Generator for testing
type MockIDGen struct {
	mu sync.Mutex

	// Queued is a queue of IDs to hand out before falling back to a sequence
	Queued []string
	next   int
}

// Ensure MockIDGen implements Generator
var _ idgen.Generator = (*MockIDGen)(nil)

// NewMockIDGen creates a new MockIDGen
func NewMockIDGen() *MockIDGen {
	return &MockIDGen{}
}

// NewID returns the next queued ID, or "id-<n>" once the queue is drained
func (g *MockIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.Queued) > 0 {
		id := g.Queued[0]
		g.Queued = g.Queued[1:]
		return id
	}
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

// Queue adds IDs to the result queue
func (g *MockIDGen) Queue(ids ...string) {
	g.mu.Lock()
	g.Queued = append(g.Queued, ids...)
	g.mu.Unlock()
}
