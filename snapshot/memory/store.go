// Package memory provides an in-memory snapshot store for tests and
// ephemeral deployments.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/xraph/tuition/snapshot"
)

// compile-time interface check
var _ snapshot.Store = (*Store)(nil)

// Store keeps the latest snapshot document in memory.
type Store struct {
	mu  sync.RWMutex
	doc *snapshot.Document
}

// New creates an empty in-memory snapshot store.
func New() *Store {
	return &Store{}
}

// Write replaces the stored snapshot with a deep copy of doc.
func (s *Store) Write(_ context.Context, doc *snapshot.Document) error {
	cp, err := deepCopy(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.doc = cp
	s.mu.Unlock()
	return nil
}

// Load returns a deep copy of the stored snapshot, or nil if none exists.
func (s *Store) Load(_ context.Context) (*snapshot.Document, error) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	if doc == nil {
		return nil, nil
	}
	return deepCopy(doc)
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the in-memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close discards the stored snapshot.
func (s *Store) Close() error {
	s.mu.Lock()
	s.doc = nil
	s.mu.Unlock()
	return nil
}

// deepCopy clones a document through JSON so callers can never alias the
// stored state.
func deepCopy(doc *snapshot.Document) (*snapshot.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	cp := new(snapshot.Document)
	if err := json.Unmarshal(data, cp); err != nil {
		return nil, err
	}
	return cp, nil
}
