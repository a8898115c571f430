// Package store persists named workflows.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: JSON files in a config directory for CLI usage
//   - mongo: MongoDB-backed storage for the hosted API
//
// All backends speak [workflow.Document], the same shape the JSON file
// format uses, so a workflow saved by the CLI opens unchanged in the API
// and vice versa.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// ErrNotFound is returned when a named workflow does not exist.
var ErrNotFound = errors.New("workflow not found")

// Record is a stored workflow plus its bookkeeping fields.
type Record struct {
	Name      string            `json:"name" bson:"name"`
	Document  workflow.Document `json:"document" bson:"document"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for workflow storage backends.
type Store interface {
	// Load retrieves a workflow by name. Returns ErrNotFound if absent.
	Load(ctx context.Context, name string) (*Record, error)

	// Save stores a workflow under a name, creating or replacing it.
	Save(ctx context.Context, name string, doc workflow.Document) error

	// Delete removes a stored workflow. Deleting a missing name is not an
	// error.
	Delete(ctx context.Context, name string) error

	// List returns the stored workflow names in lexical order.
	List(ctx context.Context) ([]string, error)
}
