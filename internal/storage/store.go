package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"
)

// SnapshotStore persists the full ledger snapshot. The engine writes
// the snapshot after every mutation; failures are logged and swallowed
// by callers since in-memory state is the source of truth.
type SnapshotStore interface {
	Load() (*domain.Snapshot, error)
	Save(snap *domain.Snapshot) error
}

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates the snapshot directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads and validates the stored snapshot. A missing or corrupt
// file is reported as an error; the caller falls back to the demo seed.
func (s *FileStore) Load() (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	snap, err := ledger.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("stored snapshot is corrupt: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated snapshot behind.
func (s *FileStore) Save(snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
