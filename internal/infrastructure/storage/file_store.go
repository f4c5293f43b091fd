// Package storage persists the delivered-URL ledger between runs.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

// FileStore keeps the ledger snapshot as a JSON array on disk.
type FileStore struct {
	path string
}

var _ ports.LedgerStore = (*FileStore)(nil)

// NewFileStore points the store at its snapshot file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the snapshot; a missing or empty file yields an empty
// ledger rather than an error.
func (s *FileStore) Load(_ context.Context) ([]domain.LedgerEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries []domain.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal ledger file: %w", err)
	}
	return entries, nil
}

// Save writes the snapshot atomically via a temp file rename.
func (s *FileStore) Save(_ context.Context, entries []domain.LedgerEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
