package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shwetalj/jobcanvas/pkg/errors"
	"github.com/shwetalj/jobcanvas/pkg/observability"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// FileStore keeps each workflow as a JSON file in a config directory, the
// backend the CLI uses.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based workflow store.
// If baseDir is empty, defaults to ~/.config/jobcanvas/workflows/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "jobcanvas", "workflows")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create workflow dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Load implements [Store].
func (s *FileStore) Load(ctx context.Context, name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.load(name)
	observability.Store().OnLoad(name, err)
	return rec, err
}

func (s *FileStore) load(name string) (*Record, error) {
	if err := errors.ValidateWorkflowName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.recordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse workflow %q: %w", name, err)
	}
	rec.Name = name
	return &rec, nil
}

// Save implements [Store].
func (s *FileStore) Save(ctx context.Context, name string, doc workflow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	size, err := s.save(name, doc)
	observability.Store().OnSave(name, size, err)
	return err
}

func (s *FileStore) save(name string, doc workflow.Document) (int, error) {
	if err := errors.ValidateWorkflowName(name); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	rec := Record{Name: name, Document: doc, CreatedAt: now, UpdatedAt: now}
	if prev, err := s.load(name); err == nil {
		rec.CreatedAt = prev.CreatedAt
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal workflow %q: %w", name, err)
	}
	if err := os.WriteFile(s.recordPath(name), data, 0600); err != nil {
		return 0, fmt.Errorf("write workflow file: %w", err)
	}
	return len(data), nil
}

// Delete implements [Store].
func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.ValidateWorkflowName(name); err != nil {
		return err
	}
	if err := os.Remove(s.recordPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove workflow file: %w", err)
	}
	return nil
}

// List implements [Store].
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read workflow dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the base directory for workflow files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
