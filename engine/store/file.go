package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

// FileStore keeps one JSON array per family under a data directory. Writes go
// to a temp file and rename into place so a crashed commit never leaves a
// truncated collection.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", contractx.ErrPersistence, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(family contractx.Family) string {
	return filepath.Join(s.dir, string(family)+".json")
}

func (s *FileStore) ReadAll(_ context.Context, family contractx.Family) ([]Record, error) {
	raw, err := os.ReadFile(s.path(family))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrPersistence, family, err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", contractx.ErrPersistence, family, err)
	}
	return records, nil
}

func (s *FileStore) WriteAll(_ context.Context, family contractx.Family, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", contractx.ErrPersistence, family, err)
	}

	path := s.path(family)
	tmp, err := os.CreateTemp(s.dir, string(family)+"-*.json")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersistence, family, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersistence, family, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersistence, family, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersistence, family, err)
	}
	return nil
}
