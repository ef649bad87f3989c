// Package storage persists save-slot blobs. Backends are interchangeable:
// a directory of files for local play, Redis for shared or ephemeral
// environments.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a slot does not exist.
var ErrNotFound = errors.New("save slot not found")

// Store reads and writes named save slots.
type Store interface {
	// Put writes the blob under the slot name, replacing any previous one.
	Put(ctx context.Context, slot string, data []byte) error
	// Get returns the blob stored under the slot name, or ErrNotFound.
	Get(ctx context.Context, slot string) ([]byte, error)
	// List returns the existing slot names, sorted.
	List(ctx context.Context) ([]string, error)
	// Delete removes a slot; deleting a missing slot is not an error.
	Delete(ctx context.Context, slot string) error
}
