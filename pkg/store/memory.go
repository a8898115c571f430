package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shwetalj/jobcanvas/pkg/errors"
	"github.com/shwetalj/jobcanvas/pkg/observability"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory workflow store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Load implements [Store].
func (s *MemoryStore) Load(ctx context.Context, name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	if !ok {
		observability.Store().OnLoad(name, ErrNotFound)
		return nil, ErrNotFound
	}
	observability.Store().OnLoad(name, nil)

	cp := *rec
	return &cp, nil
}

// Save implements [Store].
func (s *MemoryStore) Save(ctx context.Context, name string, doc workflow.Document) error {
	if err := errors.ValidateWorkflowName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	rec := &Record{Name: name, Document: doc, CreatedAt: now, UpdatedAt: now}
	if prev, ok := s.records[name]; ok {
		rec.CreatedAt = prev.CreatedAt
	}
	s.records[name] = rec
	observability.Store().OnSave(name, len(doc.Jobs), nil)
	return nil
}

// Delete implements [Store].
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
	return nil
}

// List implements [Store].
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

var _ Store = (*MemoryStore)(nil)
