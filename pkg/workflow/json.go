package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Workflow Serialization API
// =============================================================================

// Document is the canonical serialization format for workflows: the job list
// plus the app-level config object. Jobs are written in insertion order so a
// load/save round trip is byte-stable. The same shape is stored by the mongo
// backend, hence the bson tags.
type Document struct {
	Jobs   []Job          `json:"jobs" bson:"jobs"`
	Config map[string]any `json:"config,omitempty" bson:"config,omitempty"`
}

// ToDocument converts a workflow to its serialization format.
func ToDocument(w *Workflow) Document {
	doc := Document{
		Jobs:   make([]Job, 0, w.Count()),
		Config: cloneConfig(w.config),
	}
	for _, j := range w.Jobs() {
		doc.Jobs = append(doc.Jobs, j.Clone())
	}
	if len(doc.Config) == 0 {
		doc.Config = nil
	}
	return doc
}

// FromDocument builds a workflow from its serialization format.
// Returns an error for duplicate or empty job IDs; dangling dependency
// references are reported by a separate [Workflow.Validate] pass so callers
// can choose to repair rather than reject.
func FromDocument(doc Document) (*Workflow, error) {
	w := New(doc.Config)
	for _, j := range doc.Jobs {
		if err := w.AddJob(j); err != nil {
			return nil, fmt.Errorf("add job %q: %w", j.ID, err)
		}
	}
	return w, nil
}

// Marshal converts a workflow to indented JSON bytes.
func Marshal(w *Workflow) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(w, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes into a workflow.
func Unmarshal(data []byte) (*Workflow, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a workflow as JSON to an io.Writer.
func Write(w *Workflow, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(w)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON workflow from an io.Reader.
func Read(r io.Reader) (*Workflow, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// WriteFile writes a workflow to a JSON file with 0644 permissions.
func WriteFile(w *Workflow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(w, f)
}

// ReadFile reads a workflow from a JSON file.
func ReadFile(path string) (*Workflow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
