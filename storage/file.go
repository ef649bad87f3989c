package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const saveExt = ".json"

// FileStore keeps each slot as a JSON file in one directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot string) string {
	// Slot names come from player input; keep them to a single path element.
	slot = filepath.Base(slot)
	return filepath.Join(s.dir, slot+saveExt)
}

func (s *FileStore) Put(_ context.Context, slot string, data []byte) error {
	if err := os.WriteFile(s.path(slot), data, 0o644); err != nil {
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, slot string) ([]byte, error) {
	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read save %s: %w", slot, err)
	}
	return data, nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var slots []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), saveExt) {
			continue
		}
		slots = append(slots, strings.TrimSuffix(e.Name(), saveExt))
	}
	sort.Strings(slots)
	return slots, nil
}

func (s *FileStore) Delete(_ context.Context, slot string) error {
	err := os.Remove(s.path(slot))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete save %s: %w", slot, err)
	}
	return nil
}
