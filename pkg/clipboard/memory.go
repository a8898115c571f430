package clipboard

import (
	"context"
	"sync"
)

// Memory is the in-process default Port. It deep-copies on both sides so the
// stored bundle never aliases editor state.
type Memory struct {
	mu     sync.Mutex
	bundle Bundle
	full   bool
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// Write implements [Port].
func (m *Memory) Write(_ context.Context, b Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundle = cloneBundle(b)
	m.full = true
	return nil
}

// Read implements [Port].
func (m *Memory) Read(_ context.Context) (Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return Bundle{}, ErrEmpty
	}
	return cloneBundle(m.bundle), nil
}

func cloneBundle(b Bundle) Bundle {
	var c Bundle
	for _, j := range b.Jobs {
		c.Jobs = append(c.Jobs, j.Clone())
	}
	c.Connections = append(c.Connections, b.Connections...)
	return c
}
