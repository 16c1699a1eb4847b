package repository

import (
	"context"
	"errors"

	"github.com/lehmann314159/kabyedict/internal/models"
)

var (
	// ErrBackendUnavailable is returned when the store cannot be reached
	ErrBackendUnavailable = errors.New("backend_unavailable")

	// ErrStorageWrite is returned when the store rejects a write
	ErrStorageWrite = errors.New("storage_write_failed")
)

// EntryStore defines the persistence contract shared by every backend.
// Load returns the whole collection; Save persists the whole collection.
// Backends with per-record writes may persist only what changed.
type EntryStore interface {
	// Load returns the current collection, seeding the store on first access
	Load(ctx context.Context) (*models.Collection, error)

	// Save persists the given collection
	Save(ctx context.Context, coll *models.Collection) error
}
