package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/lehmann314159/kabyedict/internal/models"
)

// FileStore implements EntryStore on a single JSON document
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file store backed by the JSON document at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the JSON document
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document, creating it with the seed collection if missing
func (s *FileStore) Load(_ context.Context) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		seed := models.SeedCollection()
		if err := s.write(seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var coll models.Collection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	if coll.Words == nil {
		coll.Words = []models.Entry{}
	}
	return &coll, nil
}

// Save rewrites the whole document
func (s *FileStore) Save(_ context.Context, coll *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(coll)
}

func (s *FileStore) write(coll *models.Collection) error {
	data, err := EncodeCollection(coll)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageWrite, err)
		}
	}

	// Replace atomically so a crash never leaves a truncated document
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// EncodeCollection renders the persisted layout with non-ASCII text kept as is
func EncodeCollection(coll *models.Collection) ([]byte, error) {
	if coll.Words == nil {
		coll = &models.Collection{Words: []models.Entry{}, NextID: coll.NextID}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(coll); err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return buf.Bytes(), nil
}
