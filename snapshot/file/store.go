// Package file provides a JSON file snapshot store. Writes are atomic: the
// document is written to a temp file in the same directory and renamed over
// the previous snapshot, so a crash mid-write never corrupts the mirror.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xraph/tuition/snapshot"
)

// compile-time interface check
var _ snapshot.Store = (*Store)(nil)

// Store persists snapshots as a single pretty-printed JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a file snapshot store writing to path. The parent directory
// must exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

// Write atomically replaces the snapshot file.
func (s *Store) Write(_ context.Context, doc *snapshot.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("tuition/file: encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("tuition/file: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("tuition/file: write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("tuition/file: sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("tuition/file: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("tuition/file: replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file. A missing file means no snapshot exists yet
// and returns (nil, nil).
func (s *Store) Load(_ context.Context) (*snapshot.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tuition/file: read snapshot: %w", err)
	}

	doc := new(snapshot.Document)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("tuition/file: decode snapshot: %w", err)
	}
	return doc, nil
}

// Migrate verifies the parent directory is writable.
func (s *Store) Migrate(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("tuition/file: snapshot directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("tuition/file: %s is not a directory", dir)
	}
	return nil
}

// Ping is a no-op for the file store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the file store.
func (s *Store) Close() error { return nil }
